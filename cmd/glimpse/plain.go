package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aellingwood/glimpse/internal/content"
	"github.com/aellingwood/glimpse/internal/plaintext"
)

var plainCmd = &cobra.Command{
	Use:   "plain [file]",
	Short: "Convert Markdown to plain text",
	Long: "Convert a Markdown file (or stdin) to the normalized plain text used for search. " +
		"Front matter, if present, is stripped first.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		_, body, err := content.ParseFrontmatter([]byte(input))
		if err != nil {
			return err
		}

		doc := plaintext.NewConverter(logger).Extract(body)

		showOutline, _ := cmd.Flags().GetBool("outline")
		if !showOutline {
			fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
			return nil
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(struct {
			Text    string              `json:"text"`
			Outline []plaintext.Heading `json:"outline"`
		}{doc.Text, doc.Outline})
	},
}

func init() {
	plainCmd.Flags().Bool("outline", false, "print JSON with the text and heading outline")
	rootCmd.AddCommand(plainCmd)
}
