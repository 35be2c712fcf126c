// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paprly/paprly/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON API server",
	Long: `Serve starts the HTTP API for the paper library, projects, arXiv
ingestion and the search/summarize proxies. It shuts down gracefully on
SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.cfg.Server, server.Deps{
		Store:    a.store,
		Ingester: a.ingest,
		Searcher: a.arxiv,
		Backend:  a.backend,
	}, nil)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
