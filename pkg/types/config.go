package types

import "time"

// HTTPConfig holds shared HTTP settings for outbound requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "zenodo-mcp/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ZenodoConfig holds settings for the Zenodo REST client. It is built once at
// startup and handed to the client; nothing reads the environment afterwards.
type ZenodoConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIToken is the optional bearer token for authenticated requests.
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty"`

	// APIURL is the API base URL (default https://zenodo.org/api).
	APIURL string `json:"api_url" yaml:"api_url"`

	// Sandbox switches the base URL to the Zenodo sandbox.
	Sandbox bool `json:"sandbox" yaml:"sandbox"`

	// RateLimitRetries is how many times an HTTP 429 is retried with
	// exponential backoff. Zero disables automatic retries.
	RateLimitRetries int `json:"rate_limit_retries" yaml:"rate_limit_retries"`
}

const (
	DefaultZenodoAPIURL  = "https://zenodo.org/api"
	SandboxZenodoAPIURL  = "https://sandbox.zenodo.org/api"
	DefaultUserAgent     = "zenodo-mcp/0.1"
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultDateDecayDays = 365
)

// BaseURL returns the API base URL honoring the sandbox flag.
func (c ZenodoConfig) BaseURL() string {
	if c.Sandbox {
		return SandboxZenodoAPIURL
	}
	if c.APIURL == "" {
		return DefaultZenodoAPIURL
	}
	return c.APIURL
}

// CompareConfig holds the tunable constants of record comparison.
type CompareConfig struct {
	// DateDecayDays is the day distance at which publication_date similarity
	// reaches 0 (default 365).
	DateDecayDays float64 `json:"date_decay_days" yaml:"date_decay_days"`

	// MaxConcurrentFetches bounds parallel record fetches (default 4).
	MaxConcurrentFetches int `json:"max_concurrent_fetches" yaml:"max_concurrent_fetches"`

	// RelatedTitleWeight, RelatedTopicsWeight and RelatedAuthorsWeight blend
	// field similarities when ranking related records (0.4/0.3/0.3).
	RelatedTitleWeight   float64 `json:"related_title_weight" yaml:"related_title_weight"`
	RelatedTopicsWeight  float64 `json:"related_topics_weight" yaml:"related_topics_weight"`
	RelatedAuthorsWeight float64 `json:"related_authors_weight" yaml:"related_authors_weight"`
}

// DefaultCompareConfig returns the comparison defaults.
func DefaultCompareConfig() CompareConfig {
	return CompareConfig{
		DateDecayDays:        DefaultDateDecayDays,
		MaxConcurrentFetches: 4,
		RelatedTitleWeight:   0.4,
		RelatedTopicsWeight:  0.3,
		RelatedAuthorsWeight: 0.3,
	}
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`

	// RequestTimeout bounds each inbound request, including its outbound calls.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// LogConfig selects the slog level (debug, info, warn, error) and format (text, json).
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// AppConfig groups every configuration section.
type AppConfig struct {
	Zenodo  ZenodoConfig  `json:"zenodo" yaml:"zenodo"`
	Compare CompareConfig `json:"compare" yaml:"compare"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`
}
