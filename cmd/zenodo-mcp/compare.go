// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/zenodo-mcp/internal/compare"
	"github.com/pdiddy/zenodo-mcp/internal/tools"
)

var compareCmd = &cobra.Command{
	Use:   "compare <record-id> <record-id>...",
	Short: "Compare records field by field",
	Long: `Compare fetches two or more records and reports, per field, each
record's value and a similarity score in [0, 1]. Titles are compared by word
overlap, authors and topics by set overlap, publication dates by day distance.
The overall similarity is the mean of the field scores.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, _ := cmd.Flags().GetStringSlice("fields")
		in := map[string]any{"record_ids": args}
		if len(fields) > 0 {
			in["compare_fields"] = fields
		}
		return runJSONTool(cmd, tools.CompareRecords, in)
	},
}

var relatedCmd = &cobra.Command{
	Use:   "related <record-id>",
	Short: "Find records similar to a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("max-results")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		return runJSONTool(cmd, tools.GetRelatedRecords, map[string]any{
			"record_id":            args[0],
			"max_results":          limit,
			"similarity_threshold": threshold,
		})
	},
}

func init() {
	compareCmd.Flags().StringSlice("fields", nil, "fields to compare: title, authors, topics, publication_date (default all)")
	relatedCmd.Flags().Int("max-results", compare.DefaultRelatedMax, "maximum related records")
	relatedCmd.Flags().Float64("threshold", compare.DefaultRelatedThreshold, "minimum similarity (0-1)")

	rootCmd.AddCommand(compareCmd, relatedCmd)
}
