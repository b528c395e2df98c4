package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"

	"github.com/aellingwood/glimpse/internal/content"
	"github.com/aellingwood/glimpse/internal/excerpt"
	"github.com/aellingwood/glimpse/internal/plaintext"
	"github.com/aellingwood/glimpse/internal/search"
)

var excerptCmd = &cobra.Command{
	Use:   "excerpt [file]",
	Short: "Generate a highlighted excerpt",
	Long: "Generate an HTML excerpt of a plain-text (or, with --markdown, Markdown) " +
		"file or stdin, with every query token wrapped in <mark>.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, map[string]string{"max-length": "maxLength"})
		if err != nil {
			return err
		}

		input, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		if markdown, _ := cmd.Flags().GetBool("markdown"); markdown {
			_, body, err := content.ParseFrontmatter([]byte(input))
			if err != nil {
				return err
			}
			input = plaintext.NewConverter(logger).Extract(body).Text
		} else {
			input = strings.TrimSpace(input)
		}

		query, _ := cmd.Flags().GetString("query")
		tokens := search.ParseQuery(query)
		html := excerpt.SmartHTML(input, tokens, cfg.Excerpt.MaxLength)
		logger.Debug("excerpt generated", "tokens", tokens, "maxLength", cfg.Excerpt.MaxLength)

		return writeHTML(cmd, html, cfg.Highlight.Style)
	},
}

// writeHTML prints html, syntax-coloured for the terminal when --color is
// set.
func writeHTML(cmd *cobra.Command, html, style string) error {
	if color, _ := cmd.Flags().GetBool("color"); color {
		if err := quick.Highlight(cmd.OutOrStdout(), html, "html", "terminal256", style); err != nil {
			return fmt.Errorf("colouring output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), html)
	return nil
}

func init() {
	excerptCmd.Flags().StringP("query", "q", "", "search query whose tokens are highlighted")
	excerptCmd.Flags().IntP("max-length", "n", excerpt.DefaultMaxLength, "maximum excerpt length in characters")
	excerptCmd.Flags().Bool("markdown", false, "treat the input as Markdown")
	excerptCmd.Flags().Bool("color", false, "colour the HTML output for the terminal")
	rootCmd.AddCommand(excerptCmd)
}
