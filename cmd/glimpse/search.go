package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aellingwood/glimpse/internal/config"
	"github.com/aellingwood/glimpse/internal/plaintext"
	"github.com/aellingwood/glimpse/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search content and print highlighted results",
	Long: "Search the content directory (or, with --index, a generated index file). " +
		"A post matches when it contains every query token.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, map[string]string{"drafts": "drafts"})
		if err != nil {
			return err
		}

		lib, err := openLibrary(cmd, cfg)
		if err != nil {
			return err
		}

		section, _ := cmd.Flags().GetString("section")
		tag, _ := cmd.Flags().GetString("tag")
		limit, _ := cmd.Flags().GetInt("limit")
		if !cmd.Flags().Changed("limit") {
			limit = cfg.Search.Limit
		}

		results := lib.Search(search.Query{
			Text:    strings.Join(args, " "),
			Section: section,
			Tag:     tag,
			Limit:   limit,
		})

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if results == nil {
				results = []search.Result{}
			}
			return enc.Encode(results)
		}

		printResults(cmd, results)
		return nil
	},
}

// openLibrary builds the library from --index when given, otherwise from
// the content directory.
func openLibrary(cmd *cobra.Command, cfg *config.Config) (*search.Library, error) {
	if indexPath, _ := cmd.Flags().GetString("index"); indexPath != "" {
		entries, err := search.ReadIndexFile(indexPath)
		if err != nil {
			return nil, err
		}
		return search.NewLibrary(entries, cfg.Highlighter()), nil
	}
	lib, _, err := search.Load(cfg, plaintext.NewConverter(logger), logger)
	return lib, err
}

func printResults(cmd *cobra.Command, results []search.Result) {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No matches.")
		return
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s\n  %s", r.TitleHTML, r.URL)
		if r.Date != "" {
			fmt.Fprintf(out, "  (%s)", r.Date)
		}
		fmt.Fprintf(out, "\n  %s\n", r.ExcerptHTML)
	}
	fmt.Fprintf(out, "\n%d result(s)\n", len(results))
}

func init() {
	searchCmd.Flags().String("section", "", "only match posts in this section")
	searchCmd.Flags().String("tag", "", "only match posts with this tag")
	searchCmd.Flags().Int("limit", 20, "maximum number of results")
	searchCmd.Flags().Bool("json", false, "print results as JSON")
	searchCmd.Flags().String("index", "", "search an existing index file instead of the content directory")
	searchCmd.Flags().Bool("drafts", false, "include draft posts")
	rootCmd.AddCommand(searchCmd)
}
