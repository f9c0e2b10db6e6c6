// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zenodo

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// FormatTable writes a search page as a human-readable table to w.
func FormatTable(page *types.SearchPage, w io.Writer) {
	if page == nil || len(page.Records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-10s  %-56s  %-20s  %-4s  %s\n",
		"ID", "Title", "Authors", "Year", "Type")
	fmt.Fprintln(w, strings.Repeat("-", 104))

	for _, r := range page.Records {
		year := ""
		if y := r.Year(); y > 0 {
			year = fmt.Sprintf("%d", y)
		}
		fmt.Fprintf(w, "%-10s  %-56s  %-20s  %-4s  %s\n",
			r.ID, truncate(r.Title, 56), formatAuthors(r.AuthorNames()), year, r.ResourceType.Type)
	}

	fmt.Fprintf(w, "\n%d of %d results (page %d)\n", len(page.Records), page.Total, page.Page)
}

// FormatFilesTable writes a record's files as a table to w.
func FormatFilesTable(files []types.File, w io.Writer) {
	if len(files) == 0 {
		fmt.Fprintln(w, "No files.")
		return
	}

	fmt.Fprintf(w, "%-40s  %12s  %s\n", "File", "Size", "Checksum")
	fmt.Fprintln(w, strings.Repeat("-", 96))
	for _, f := range files {
		fmt.Fprintf(w, "%-40s  %12d  %s\n", truncate(f.Key, 40), f.Size, f.Checksum)
	}
}

// FormatJSON writes v as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
