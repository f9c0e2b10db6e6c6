// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zenodo-mcp/internal/tools"
	"github.com/pdiddy/zenodo-mcp/internal/zenodo"
	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search Zenodo records",
	Long: `Search queries the Zenodo records endpoint. The query uses Zenodo's
search syntax, e.g. 'title:"deep learning" AND creators.name:Doe'. Filters
narrow results by resource type, community, access right, file type or
keyword.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters := map[string]string{}
	for flag, key := range map[string]string{
		"type":         "type",
		"subtype":      "subtype",
		"community":    "communities",
		"access-right": "access_right",
		"file-type":    "file_type",
		"keyword":      "keywords",
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			filters[key] = v
		}
	}
	sort, _ := cmd.Flags().GetString("sort")
	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("max-results")

	result, err := callTool(cmd, tools.SearchRecords, map[string]any{
		"query":       strings.Join(args, " "),
		"filters":     filters,
		"sort":        sort,
		"page":        page,
		"max_results": size,
	})
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return zenodo.FormatJSON(result, cmd.OutOrStdout())
	}
	searchPage, ok := result.(*types.SearchPage)
	if !ok {
		return fmt.Errorf("unexpected search result %T", result)
	}
	zenodo.FormatTable(searchPage, cmd.OutOrStdout())
	return nil
}

var filesCmd = &cobra.Command{
	Use:   "files <record-id>",
	Short: "List the files attached to a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := callTool(cmd, tools.ListFiles, map[string]any{"record_id": args[0]})
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return zenodo.FormatJSON(result, cmd.OutOrStdout())
		}
		files, ok := result.(tools.FilesResult)
		if !ok {
			return fmt.Errorf("unexpected files result %T", result)
		}
		zenodo.FormatFilesTable(files.Files, cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d file(s), %d bytes\n", len(files.Files), files.TotalSize)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("type", "", "resource type filter (e.g. dataset, software, publication)")
	searchCmd.Flags().String("subtype", "", "resource subtype filter (e.g. article)")
	searchCmd.Flags().String("community", "", "community identifier filter")
	searchCmd.Flags().String("access-right", "", "access right filter (open, closed, restricted, embargoed)")
	searchCmd.Flags().String("file-type", "", "file type filter (e.g. pdf, csv)")
	searchCmd.Flags().String("keyword", "", "keyword filter")
	searchCmd.Flags().String("sort", "", "sort order: bestmatch, mostrecent, -bestmatch, -mostrecent")
	searchCmd.Flags().Int("page", 1, "result page")
	searchCmd.Flags().Int("max-results", 10, "results per page (1-100)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	filesCmd.Flags().Bool("json", false, "output files as JSON")

	rootCmd.AddCommand(searchCmd, filesCmd)
}
