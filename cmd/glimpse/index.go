package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aellingwood/glimpse/internal/plaintext"
	"github.com/aellingwood/glimpse/internal/search"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the JSON search index",
	Long:  "Discover every post in the content directory and write the search index used by client-side search.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, map[string]string{
			"drafts":  "drafts",
			"output":  "output",
			"content": "contentDir",
		})
		if err != nil {
			return err
		}

		start := time.Now()
		lib, _, err := search.Load(cfg, plaintext.NewConverter(logger), logger)
		if err != nil {
			return err
		}

		path := cfg.IndexPath()
		if err := search.WriteIndexFile(path, lib.Entries(), cfg.Search.ContentLength); err != nil {
			return err
		}

		logger.Debug("index written", "path", path, "duration", time.Since(start).Round(time.Millisecond))
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d posts to %s\n", lib.Len(), path)
		return nil
	},
}

func init() {
	indexCmd.Flags().Bool("drafts", false, "include draft posts")
	indexCmd.Flags().StringP("output", "o", "public", "output directory for the index file")
	indexCmd.Flags().String("content", "content", "content directory to index")
	rootCmd.AddCommand(indexCmd)
}
