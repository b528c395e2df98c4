package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aellingwood/glimpse/internal/content"
	"github.com/aellingwood/glimpse/internal/plaintext"
)

var termsCmd = &cobra.Command{
	Use:       "terms [tags|categories]",
	Short:     "List taxonomy terms and their post counts",
	Long:      "List every tag (the default) or category used in the content directory, most used first.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"tags", "categories"},
	RunE: func(cmd *cobra.Command, args []string) error {
		taxonomy := "tags"
		if len(args) == 1 {
			taxonomy = args[0]
		}

		cfg, err := loadConfig(cmd, map[string]string{"drafts": "drafts"})
		if err != nil {
			return err
		}

		posts, err := content.Discover(cfg.Content.Dir, content.Options{
			IncludeDrafts: cfg.Content.IncludeDrafts,
			Sections:      cfg.Content.Sections,
			Converter:     plaintext.NewConverter(logger),
			Logger:        logger,
		})
		if err != nil {
			return fmt.Errorf("loading content: %w", err)
		}

		terms := content.BuildTaxonomies(posts)[taxonomy].Counts()
		if len(terms) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s found.\n", taxonomy)
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TERM\tPOSTS")
		for _, t := range terms {
			fmt.Fprintf(w, "%s\t%d\n", t.Name, t.Count)
		}
		return w.Flush()
	},
}

func init() {
	termsCmd.Flags().Bool("drafts", false, "include draft posts")
	rootCmd.AddCommand(termsCmd)
}
