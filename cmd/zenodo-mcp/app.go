// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/zenodo-mcp/internal/compare"
	"github.com/pdiddy/zenodo-mcp/internal/tools"
	"github.com/pdiddy/zenodo-mcp/internal/zenodo"
)

// bindFlag binds a flag to a viper key. It panics on a missing flag, which
// is a programming error caught at startup.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// newToolkit wires the Zenodo client and comparison engine from appConfig.
func newToolkit() *tools.Toolkit {
	client := zenodo.NewClient(appConfig.Zenodo, nil)
	engine := compare.NewEngine(client, appConfig.Compare, logger)
	return tools.New(client, engine, logger)
}

// callTool runs one tool and returns its result, or the tool error.
func callTool(cmd *cobra.Command, name string, args map[string]any) (any, error) {
	resp := newToolkit().Call(cmd.Context(), name, args)
	if resp.Error != nil {
		return nil, resp.Error
	}
	return resp.Result, nil
}

// runJSONTool runs a tool and prints its result as indented JSON.
func runJSONTool(cmd *cobra.Command, name string, args map[string]any) error {
	result, err := callTool(cmd, name, args)
	if err != nil {
		return err
	}
	return zenodo.FormatJSON(result, cmd.OutOrStdout())
}
