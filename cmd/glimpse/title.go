package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aellingwood/glimpse/internal/excerpt"
	"github.com/aellingwood/glimpse/internal/search"
)

var titleCmd = &cobra.Command{
	Use:   "title <title...>",
	Short: "Highlight query tokens in a title",
	Long: "Escape a title for HTML and wrap query tokens in <mark>. The sequential mode " +
		"marks each token in turn, the combined mode marks all of them in one pass.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, map[string]string{"mode": "titleMode"})
		if err != nil {
			return err
		}
		mode, err := excerpt.ParseMode(cfg.Excerpt.TitleMode)
		if err != nil {
			return err
		}

		query, _ := cmd.Flags().GetString("query")
		html := excerpt.HighlightTitleHTML(strings.Join(args, " "), search.ParseQuery(query), mode)
		return writeHTML(cmd, html, cfg.Highlight.Style)
	},
}

func init() {
	titleCmd.Flags().StringP("query", "q", "", "search query whose tokens are highlighted")
	titleCmd.Flags().String("mode", "sequential", "highlight mode: sequential or combined")
	titleCmd.Flags().Bool("color", false, "colour the HTML output for the terminal")
	rootCmd.AddCommand(titleCmd)
}
