// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config builds the application configuration from a viper instance.
// Sources in precedence order: flags bound to viper, ZENODO_* environment
// variables, the zenodo-mcp.yaml file, then the defaults below. The result is
// validated once and passed down explicitly.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/zenodo-mcp/internal/logging"
	"github.com/pdiddy/zenodo-mcp/internal/secrets"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// Viper keys.
const (
	KeyAPIToken         = "zenodo.api_token"
	KeyAPIURL           = "zenodo.api_url"
	KeySandbox          = "zenodo.sandbox"
	KeyTimeout          = "zenodo.timeout"
	KeyUserAgent        = "zenodo.user_agent"
	KeyRateLimitRetries = "zenodo.rate_limit_retries"

	KeyDateDecayDays        = "compare.date_decay_days"
	KeyMaxConcurrentFetches = "compare.max_concurrent_fetches"
	KeyRelatedTitleWeight   = "compare.related_title_weight"
	KeyRelatedTopicsWeight  = "compare.related_topics_weight"
	KeyRelatedAuthorsWeight = "compare.related_authors_weight"

	KeyHost           = "server.host"
	KeyPort           = "server.port"
	KeyRequestTimeout = "server.request_timeout"

	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
)

const (
	EnvPrefix = "ZENODO"

	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8000
	DefaultRequestTimeout = 60 * time.Second
)

// envAliases maps keys to their short environment names. Other keys are
// reachable as ZENODO_<SECTION>_<NAME>.
var envAliases = map[string]string{
	KeyAPIToken:         "ZENODO_API_TOKEN",
	KeyAPIURL:           "ZENODO_API_URL",
	KeySandbox:          "ZENODO_SANDBOX",
	KeyTimeout:          "ZENODO_TIMEOUT",
	KeyRateLimitRetries: "ZENODO_RATE_LIMIT_RETRIES",
	KeyHost:             "ZENODO_HOST",
	KeyPort:             "ZENODO_PORT",
	KeyLogLevel:         "ZENODO_LOG_LEVEL",
	KeyLogFormat:        "ZENODO_LOG_FORMAT",
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	cmp := types.DefaultCompareConfig()

	v.SetDefault(KeyAPIToken, "")
	v.SetDefault(KeyAPIURL, types.DefaultZenodoAPIURL)
	v.SetDefault(KeySandbox, false)
	v.SetDefault(KeyTimeout, types.DefaultHTTPTimeout)
	v.SetDefault(KeyUserAgent, types.DefaultUserAgent)
	v.SetDefault(KeyRateLimitRetries, 0)

	v.SetDefault(KeyDateDecayDays, cmp.DateDecayDays)
	v.SetDefault(KeyMaxConcurrentFetches, cmp.MaxConcurrentFetches)
	v.SetDefault(KeyRelatedTitleWeight, cmp.RelatedTitleWeight)
	v.SetDefault(KeyRelatedTopicsWeight, cmp.RelatedTopicsWeight)
	v.SetDefault(KeyRelatedAuthorsWeight, cmp.RelatedAuthorsWeight)

	v.SetDefault(KeyHost, DefaultHost)
	v.SetDefault(KeyPort, DefaultPort)
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeout)

	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		// BindEnv only fails without a key.
		_ = v.BindEnv(key, env)
	}
}

// Load reads every section from v and validates the result. SetDefaults must
// have been called on v.
func Load(v *viper.Viper) (types.AppConfig, error) {
	cfg := types.AppConfig{
		Zenodo: types.ZenodoConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration(KeyTimeout),
				UserAgent: v.GetString(KeyUserAgent),
			},
			APIToken:         v.GetString(KeyAPIToken),
			APIURL:           v.GetString(KeyAPIURL),
			Sandbox:          v.GetBool(KeySandbox),
			RateLimitRetries: v.GetInt(KeyRateLimitRetries),
		},
		Compare: types.CompareConfig{
			DateDecayDays:        v.GetFloat64(KeyDateDecayDays),
			MaxConcurrentFetches: v.GetInt(KeyMaxConcurrentFetches),
			RelatedTitleWeight:   v.GetFloat64(KeyRelatedTitleWeight),
			RelatedTopicsWeight:  v.GetFloat64(KeyRelatedTopicsWeight),
			RelatedAuthorsWeight: v.GetFloat64(KeyRelatedAuthorsWeight),
		},
		Server: types.ServerConfig{
			Host:           v.GetString(KeyHost),
			Port:           v.GetInt(KeyPort),
			RequestTimeout: v.GetDuration(KeyRequestTimeout),
		},
		Log: types.LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}
	if err := Validate(cfg); err != nil {
		return types.AppConfig{}, err
	}
	return cfg, nil
}

// ApplySecrets fills the API token from the secrets store when no other
// source set it.
func ApplySecrets(cfg *types.AppConfig, store secrets.Store) {
	if cfg.Zenodo.APIToken == "" {
		cfg.Zenodo.APIToken = store.Get(secrets.ZenodoAPIToken)
	}
}

// Validate reports every invalid setting at once.
func Validate(cfg types.AppConfig) error {
	var errs []error

	if u, err := url.Parse(cfg.Zenodo.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("%s: %q is not an http(s) URL", KeyAPIURL, cfg.Zenodo.APIURL))
	}
	if cfg.Zenodo.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s: must be positive, got %s", KeyTimeout, cfg.Zenodo.Timeout))
	}
	if cfg.Zenodo.RateLimitRetries < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative, got %d", KeyRateLimitRetries, cfg.Zenodo.RateLimitRetries))
	}

	c := cfg.Compare
	if c.DateDecayDays < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative, got %g", KeyDateDecayDays, c.DateDecayDays))
	}
	if c.MaxConcurrentFetches < 1 {
		errs = append(errs, fmt.Errorf("%s: must be at least 1, got %d", KeyMaxConcurrentFetches, c.MaxConcurrentFetches))
	}
	if c.RelatedTitleWeight < 0 || c.RelatedTopicsWeight < 0 || c.RelatedAuthorsWeight < 0 {
		errs = append(errs, errors.New("compare: related weights must not be negative"))
	} else if c.RelatedTitleWeight+c.RelatedTopicsWeight+c.RelatedAuthorsWeight == 0 {
		errs = append(errs, errors.New("compare: related weights must not all be zero"))
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("%s: %d out of range 1-65535", KeyPort, cfg.Server.Port))
	}
	if cfg.Server.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s: must not be negative, got %s", KeyRequestTimeout, cfg.Server.RequestTimeout))
	}

	if err := logging.Validate(cfg.Log); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Write dumps cfg as YAML to w with the API token masked.
func Write(cfg types.AppConfig, w io.Writer) error {
	if cfg.Zenodo.APIToken != "" {
		cfg.Zenodo.APIToken = "********"
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
