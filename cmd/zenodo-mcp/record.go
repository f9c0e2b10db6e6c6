// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/zenodo-mcp/internal/tools"
)

var recordCmd = &cobra.Command{
	Use:   "record <record-id>",
	Short: "Print the metadata of a record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noFiles, _ := cmd.Flags().GetBool("no-files")
		return runJSONTool(cmd, tools.GetMetadata, map[string]any{
			"record_id":     args[0],
			"include_files": !noFiles,
		})
	},
}

var citeCmd = &cobra.Command{
	Use:   "cite <record-id>",
	Short: "Format the citation of a record",
	Long: `Cite prints the citation of a record in BibTeX (default), APA, or
CSL-YAML for use with citation processors.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		result, err := callTool(cmd, tools.GetCitation, map[string]any{
			"record_id": args[0],
			"style":     style,
		})
		if err != nil {
			return err
		}
		c, ok := result.(tools.CitationResult)
		if !ok {
			return fmt.Errorf("unexpected citation result %T", result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Citation)
		return nil
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect <record-id>",
	Short: "Classify a record as dataset, software, article or other",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJSONTool(cmd, tools.DetectDataType, map[string]any{"record_id": args[0]})
	},
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords <record-id>",
	Short: "Extract frequent keywords from a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("max")
		minFreq, _ := cmd.Flags().GetInt("min-frequency")
		return runJSONTool(cmd, tools.ExtractKeywords, map[string]any{
			"record_id":     args[0],
			"max_keywords":  limit,
			"min_frequency": minFreq,
		})
	},
}

var embedCmd = &cobra.Command{
	Use:   "embed <record-id>",
	Short: "Print an embeddable link for a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJSONTool(cmd, tools.GenerateEmbedLink, map[string]any{"record_id": args[0]})
	},
}

func init() {
	recordCmd.Flags().Bool("no-files", false, "omit the file list")
	citeCmd.Flags().String("style", "bibtex", "citation style: bibtex, apa, csl")
	keywordsCmd.Flags().Int("max", 10, "maximum keywords to return")
	keywordsCmd.Flags().Int("min-frequency", 2, "minimum occurrences for a term")

	rootCmd.AddCommand(recordCmd, citeCmd, detectCmd, keywordsCmd, embedCmd)
}
