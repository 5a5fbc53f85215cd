package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveAddress string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve validation and rendering over HTTP",
	Long: `Start an HTTP server exposing:

  GET  /healthz              liveness and version
  POST /v1/validate          validate a YAML or JSON body
  POST /v1/render/markdown   render a body to Markdown
  GET  /v1/schema            the JSON Schema of the CV format`,
	Args: cobra.NoArgs,
	RunE: withContainer(func(cc *CommandContext, _ *cobra.Command, _ []string) error {
		addr := serveAddress
		if addr == "" {
			addr = cc.Container.SystemConfig().Server.Address
		}

		ctx, stop := signal.NotifyContext(cc.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cc.Container.HTTPServer().Listen(ctx, addr)
	}),
}

func init() {
	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address (default from system config)")
	rootCmd.AddCommand(serveCmd)
}
