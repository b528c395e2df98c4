package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aellingwood/glimpse/internal/plaintext"
	"github.com/aellingwood/glimpse/internal/publish"
	"github.com/aellingwood/glimpse/internal/search"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the search index to S3",
	Long: "Rebuild the search index and sync the output directory to the configured S3 bucket, " +
		"invalidating CloudFront when a distribution is configured.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, map[string]string{"output": "output"})
		if err != nil {
			return err
		}

		if skip, _ := cmd.Flags().GetBool("skip-index"); !skip {
			lib, _, err := search.Load(cfg, plaintext.NewConverter(logger), logger)
			if err != nil {
				return err
			}
			if err := search.WriteIndexFile(cfg.IndexPath(), lib.Entries(), cfg.Search.ContentLength); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d posts to %s\n", lib.Len(), cfg.IndexPath())
		}

		s3Client, cfClient, err := publish.NewClients(cmd.Context(), cfg.Publish)
		if err != nil {
			return err
		}
		var cf publish.CloudFrontClient
		if cfClient != nil {
			cf = cfClient
		}

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		prune, _ := cmd.Flags().GetBool("prune")
		result, err := publish.Publish(cmd.Context(), publish.Options{
			Prefix:          cfg.Publish.S3.Prefix,
			Distribution:    cfg.Publish.CloudFront.DistributionID,
			InvalidatePaths: cfg.Publish.CloudFront.InvalidatePaths,
			Prune:           prune,
			DryRun:          dryRun,
			Logger:          logger,
		}, filepath.Clean(cfg.Search.Output), s3Client, cf)
		if err != nil {
			return err
		}

		verb := "Published"
		if dryRun {
			verb = "Would publish"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s to s3://%s: %d uploaded, %d deleted, %d unchanged\n",
			verb, cfg.Publish.S3.Bucket, result.Uploaded, result.Deleted, result.Skipped)
		if len(result.Invalidated) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Invalidated %d path(s) on %s\n", len(result.Invalidated), cfg.Publish.CloudFront.DistributionID)
		}

		for _, e := range result.Errors {
			logger.Error("publish", "err", e)
		}
		if len(result.Errors) > 0 {
			return errors.Join(result.Errors...)
		}
		return nil
	},
}

func init() {
	publishCmd.Flags().Bool("dry-run", false, "show what would change without uploading")
	publishCmd.Flags().Bool("prune", false, "delete remote objects that no longer exist locally")
	publishCmd.Flags().Bool("skip-index", false, "publish the output directory without rebuilding the index")
	publishCmd.Flags().StringP("output", "o", "public", "output directory to publish")
	rootCmd.AddCommand(publishCmd)
}
