// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/pdiddy/zenodo-mcp/internal/api"
	"github.com/pdiddy/zenodo-mcp/internal/config"
	"github.com/pdiddy/zenodo-mcp/internal/mcpserver"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and the streamable MCP endpoint",
	Long: `Serve starts an HTTP server with:

  GET  /                 server info and tool names
  GET  /healthz          liveness
  POST /api/compare      compare records (body: record_ids, compare_fields)
  GET  /mcp/tools        tool definitions
  POST /mcp/tools/call   call a tool by name with arguments
       /mcp              MCP streamable HTTP transport

The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	tk := newToolkit()
	mcpSrv := mcpserver.New(tk, version, logger)
	srv := api.NewServer(tk, mcpSrv.HTTPHandler(), appConfig.Server, version, logger)

	addr := net.JoinHostPort(appConfig.Server.Host, strconv.Itoa(appConfig.Server.Port))
	if err := srv.Start(addr); err != nil {
		return err
	}

	<-cmd.Context().Done()
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(ctx)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve MCP over stdin/stdout",
	Long: `Mcp serves the Model Context Protocol over stdio, the transport MCP
clients use when they launch the server as a subprocess. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := mcpserver.New(newToolkit(), version, logger)
		logger.Info("serving mcp on stdio", "api_url", appConfig.Zenodo.BaseURL())
		return srv.Run(cmd.Context(), &mcp.StdioTransport{})
	},
}

func init() {
	serveCmd.Flags().String("host", config.DefaultHost, "listen host")
	serveCmd.Flags().Int("port", config.DefaultPort, "listen port")
	serveCmd.Flags().Duration("request-timeout", config.DefaultRequestTimeout, "per-request timeout for API routes")
	bindFlag(config.KeyHost, serveCmd.Flags().Lookup("host"))
	bindFlag(config.KeyPort, serveCmd.Flags().Lookup("port"))
	bindFlag(config.KeyRequestTimeout, serveCmd.Flags().Lookup("request-timeout"))

	rootCmd.AddCommand(serveCmd, mcpCmd)
}
