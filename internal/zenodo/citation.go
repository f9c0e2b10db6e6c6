package zenodo

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// Style selects a citation format.
type Style string

const (
	StyleBibTeX Style = "bibtex"
	StyleAPA    Style = "apa"
	StyleCSL    Style = "csl"
)

// Styles lists the supported citation styles.
var Styles = []Style{StyleBibTeX, StyleAPA, StyleCSL}

// ParseStyle maps a caller-supplied style name to a Style. An empty name
// means BibTeX; matching is case-insensitive.
func ParseStyle(name string) (Style, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return StyleBibTeX, nil
	}
	for _, s := range Styles {
		if string(s) == n {
			return s, nil
		}
	}
	return "", invalid("style", "unsupported citation style %q (use bibtex, apa or csl)", name)
}

// FormatCitation renders rec in style s.
func FormatCitation(rec *types.Record, s Style) (string, error) {
	switch s {
	case StyleBibTeX:
		return formatBibTeX(rec), nil
	case StyleAPA:
		return formatAPA(rec), nil
	case StyleCSL:
		return formatCSL(rec)
	default:
		return "", invalid("style", "unsupported citation style %q", s)
	}
}

// bibtexEscaper escapes the LaTeX special characters in one pass, so the
// backslashes it emits are not escaped again.
var bibtexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`^`, `\^{}`,
	`~`, `\~{}`,
)

// bibtexVerbatim lists fields that biblatex reads verbatim.
var bibtexVerbatim = map[string]bool{"doi": true, "url": true}

func formatBibTeX(rec *types.Record) string {
	entry := "misc"
	switch {
	case rec.ResourceType.Type == "dataset":
		entry = "dataset"
	case rec.ResourceType.Type == "software":
		entry = "software"
	case rec.ResourceType.Subtype == "article":
		entry = "article"
	}

	fields := [][2]string{
		{"author", strings.Join(rec.AuthorNames(), " and ")},
		{"title", rec.Title},
	}
	if y := rec.Year(); y > 0 {
		fields = append(fields, [2]string{"year", strconv.Itoa(y)})
	}
	if entry == "article" && rec.Venue != "" {
		fields = append(fields, [2]string{"journal", rec.Venue})
	}
	fields = append(fields, [2]string{"publisher", "Zenodo"})
	if rec.Version != "" {
		fields = append(fields, [2]string{"version", rec.Version})
	}
	if rec.DOI != "" {
		fields = append(fields,
			[2]string{"doi", rec.DOI},
			[2]string{"url", "https://doi.org/" + rec.DOI})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{zenodo.%s,\n", entry, rec.ID)
	for i, f := range fields {
		value := f[1]
		if !bibtexVerbatim[f[0]] {
			value = bibtexEscaper.Replace(value)
		}
		fmt.Fprintf(&b, "  %-9s = {%s}", f[0], value)
		if i < len(fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

func formatAPA(rec *types.Record) string {
	year := "n.d."
	if y := rec.Year(); y > 0 {
		year = strconv.Itoa(y)
	}

	var b strings.Builder
	if authors := apaAuthors(rec.AuthorNames()); authors != "" {
		b.WriteString(authors + " ")
	}
	fmt.Fprintf(&b, "(%s). %s", year, rec.Title)
	if rec.Version != "" {
		fmt.Fprintf(&b, " (Version %s)", rec.Version)
	}
	switch rec.ResourceType.Type {
	case "dataset":
		b.WriteString(" [Data set]")
	case "software":
		b.WriteString(" [Computer software]")
	}
	b.WriteString(". Zenodo.")
	if rec.DOI != "" {
		b.WriteString(" https://doi.org/" + rec.DOI)
	}
	return b.String()
}

// apaAuthors joins names as "A, B, & C".
func apaAuthors(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + ", & " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
	}
}

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID        string    `yaml:"id"`
	Type      string    `yaml:"type"`
	Title     string    `yaml:"title"`
	Author    []CSLName `yaml:"author,omitempty"`
	Issued    *CSLDate  `yaml:"issued,omitempty"`
	Publisher string    `yaml:"publisher,omitempty"`
	Version   string    `yaml:"version,omitempty"`
	DOI       string    `yaml:"DOI,omitempty"`
	URL       string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

func formatCSL(rec *types.Record) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode([]CSLItem{toCSLItem(rec)}); err != nil {
		return "", fmt.Errorf("encoding CSL: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding CSL: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// toCSLItem converts a Record to a CSLItem.
func toCSLItem(rec *types.Record) CSLItem {
	item := CSLItem{
		ID:        "zenodo." + rec.ID,
		Type:      cslType(rec.ResourceType),
		Title:     rec.Title,
		Publisher: "Zenodo",
		Version:   rec.Version,
		DOI:       rec.DOI,
		URL:       rec.HTMLURL,
	}

	for _, a := range rec.AuthorNames() {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if !rec.PublicationDate.IsZero() {
		d := rec.PublicationDate
		item.Issued = &CSLDate{
			DateParts: [][]int{{d.Year(), int(d.Month()), d.Day()}},
		}
	}
	return item
}

func cslType(rt types.ResourceType) string {
	switch rt.Type {
	case "dataset":
		return "dataset"
	case "software":
		return "software"
	case "publication":
		if rt.Subtype == "article" {
			return "article-journal"
		}
		return "article"
	default:
		return "document"
	}
}

// parseAuthorName splits a creator name into CSL family/given parts. Zenodo
// usually stores "Family, Given"; otherwise the last token is the family
// name. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{
			Family: strings.TrimSpace(family),
			Given:  strings.TrimSpace(given),
		}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
