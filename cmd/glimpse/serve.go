package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aellingwood/glimpse/internal/plaintext"
	"github.com/aellingwood/glimpse/internal/search"
	"github.com/aellingwood/glimpse/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the search API server",
	Long: "Serve search, excerpt, and title highlighting over HTTP. With live reindexing " +
		"the content directory is watched and WebSocket clients are told when the index changes.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, map[string]string{
			"port":   "port",
			"host":   "host",
			"drafts": "drafts",
		})
		if err != nil {
			return err
		}
		if noLive, _ := cmd.Flags().GetBool("no-live-reindex"); noLive {
			cfg.Server.LiveReindex = false
		}

		conv := plaintext.NewConverter(logger)
		build := func(ctx context.Context) (*search.Library, error) {
			lib, _, err := search.Load(cfg, conv, logger)
			return lib, err
		}

		lib, err := build(cmd.Context())
		if err != nil {
			return fmt.Errorf("initial index failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d posts from %s\n", lib.Len(), cfg.Content.Dir)

		srv := server.New(lib, build, server.Options{
			Port:          cfg.Server.Port,
			Bind:          cfg.Server.Host,
			ContentDir:    cfg.Content.Dir,
			LiveReindex:   cfg.Server.LiveReindex,
			ContentLength: cfg.Search.ContentLength,
			DefaultLimit:  cfg.Search.Limit,
			AllowOrigin:   cfg.BaseURL,
			Logger:        logger,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start(ctx)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")
			return srv.Stop()
		}
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 1414, "port to listen on")
	serveCmd.Flags().String("host", "localhost", "address to bind to")
	serveCmd.Flags().Bool("no-live-reindex", false, "disable reindexing when content changes")
	serveCmd.Flags().Bool("drafts", false, "include draft posts")
	rootCmd.AddCommand(serveCmd)
}
