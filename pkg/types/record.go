// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the zenodo-mcp server:
// Zenodo records and files, search pages, comparison requests and results,
// data-type classifications, and the application configuration.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is a Zenodo deposit as returned by the records API. Records are
// fetched per request and never mutated or persisted locally.
type Record struct {
	// ID is the numeric Zenodo record identifier, kept as a string because
	// it travels through tool arguments and JSON map keys.
	ID string `json:"id" yaml:"id"`

	// DOI is the record DOI without the https://doi.org/ prefix.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Creators    []Creator `json:"creators" yaml:"creators"`

	// Keywords are the free-text subject terms; comparisons call them topics.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// PublicationDate is the date Zenodo reports, zero when absent or
	// unparsable. JSON carries it as YYYY-MM-DD, or "" when zero.
	PublicationDate time.Time `json:"publication_date" yaml:"publication_date"`

	ResourceType ResourceType `json:"resource_type" yaml:"resource_type"`
	License      string       `json:"license,omitempty" yaml:"license,omitempty"`

	// Venue is the journal, meeting, imprint or part-of title, whichever is set first.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// HTMLURL is the landing page of the record.
	HTMLURL string `json:"html_url,omitempty" yaml:"html_url,omitempty"`

	Files []File `json:"files" yaml:"files"`
}

// DateLayout is the JSON form of a publication date.
const DateLayout = "2006-01-02"

// FormatDate renders t as YYYY-MM-DD, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// recordJSON has Record's fields without its methods.
type recordJSON Record

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		recordJSON
		PublicationDate string `json:"publication_date"`
	}{recordJSON(r), FormatDate(r.PublicationDate)})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	aux := struct {
		*recordJSON
		PublicationDate string `json:"publication_date"`
	}{recordJSON: (*recordJSON)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.PublicationDate = time.Time{}
	if aux.PublicationDate == "" {
		return nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, aux.PublicationDate); err == nil {
			r.PublicationDate = t
			return nil
		}
	}
	return fmt.Errorf("publication_date: %q is not a YYYY-MM-DD date", aux.PublicationDate)
}

// AuthorNames returns creator names in source order.
func (r *Record) AuthorNames() []string {
	names := make([]string, 0, len(r.Creators))
	for _, c := range r.Creators {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

// Year returns the publication year, or 0 when the date is unknown.
func (r *Record) Year() int {
	if r.PublicationDate.IsZero() {
		return 0
	}
	return r.PublicationDate.Year()
}

// Creator is one record author.
type Creator struct {
	Name        string `json:"name" yaml:"name"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	ORCID       string `json:"orcid,omitempty" yaml:"orcid,omitempty"`
}

// ResourceType is Zenodo's upload type, e.g. {type: publication, subtype: article}.
type ResourceType struct {
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Subtype string `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
}

// File describes one file attached to a record.
type File struct {
	Key         string `json:"key" yaml:"key"`
	Size        int64  `json:"size" yaml:"size"`
	Checksum    string `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	DownloadURL string `json:"download_url,omitempty" yaml:"download_url,omitempty"`
	MimeType    string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
}

// SearchPage is one page of search hits.
type SearchPage struct {
	Query   string   `json:"query" yaml:"query"`
	Total   int      `json:"total_results" yaml:"total_results"`
	Page    int      `json:"page" yaml:"page"`
	Size    int      `json:"size" yaml:"size"`
	Records []Record `json:"records" yaml:"records"`
}
