// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zenodo

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// Zenodo records API JSON structures. Zenodo has served two file shapes over
// time (legacy "filename"/"links.download" and current "key"/"links.self"),
// so both are decoded.
type zenodoSearchResponse struct {
	Hits struct {
		Hits  []zenodoRecord `json:"hits"`
		Total int            `json:"total"`
	} `json:"hits"`
}

type zenodoRecord struct {
	ID       json.Number       `json:"id"`
	DOI      string            `json:"doi"`
	Metadata zenodoMetadata    `json:"metadata"`
	Files    []zenodoFile      `json:"files"`
	Links    map[string]string `json:"links"`
}

type zenodoMetadata struct {
	Title           string             `json:"title"`
	DOI             string             `json:"doi"`
	Description     string             `json:"description"`
	PublicationDate string             `json:"publication_date"`
	Creators        []zenodoCreator    `json:"creators"`
	Keywords        []string           `json:"keywords"`
	ResourceType    zenodoResourceType `json:"resource_type"`
	License         zenodoLicense      `json:"license"`
	Journal         zenodoTitled       `json:"journal"`
	Meeting         zenodoTitled       `json:"meeting"`
	Imprint         zenodoTitled       `json:"imprint"`
	PartOf          zenodoTitled       `json:"part_of"`
	Version         string             `json:"version"`
}

type zenodoCreator struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation"`
	ORCID       string `json:"orcid"`
}

type zenodoResourceType struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Title   string `json:"title"`
}

type zenodoLicense struct {
	ID string `json:"id"`
}

type zenodoTitled struct {
	Title string `json:"title"`
}

type zenodoFile struct {
	Key      string            `json:"key"`
	Filename string            `json:"filename"`
	Size     int64             `json:"size"`
	Filesize int64             `json:"filesize"`
	Checksum string            `json:"checksum"`
	MimeType string            `json:"mimetype"`
	Links    map[string]string `json:"links"`
}

type zenodoFilesResponse struct {
	Entries []zenodoFile `json:"entries"`
}

// toRecord flattens the API shape into a types.Record.
func (z zenodoRecord) toRecord() types.Record {
	m := z.Metadata
	r := types.Record{
		ID:          z.ID.String(),
		DOI:         stripDOI(firstNonEmpty(z.DOI, m.DOI)),
		Title:       strings.TrimSpace(m.Title),
		Description: m.Description,
		Keywords:    m.Keywords,
		ResourceType: types.ResourceType{
			Type:    m.ResourceType.Type,
			Subtype: m.ResourceType.Subtype,
			Title:   m.ResourceType.Title,
		},
		License: m.License.ID,
		Venue:   firstNonEmpty(m.Journal.Title, m.Meeting.Title, m.Imprint.Title, m.PartOf.Title),
		Version: m.Version,
		HTMLURL: z.Links["html"],
	}
	if r.Keywords == nil {
		r.Keywords = []string{}
	}

	r.Creators = make([]types.Creator, 0, len(m.Creators))
	for _, c := range m.Creators {
		r.Creators = append(r.Creators, types.Creator{
			Name:        strings.TrimSpace(c.Name),
			Affiliation: c.Affiliation,
			ORCID:       c.ORCID,
		})
	}

	r.PublicationDate = parseDate(m.PublicationDate)

	r.Files = make([]types.File, 0, len(z.Files))
	for _, f := range z.Files {
		r.Files = append(r.Files, f.toFile())
	}
	return r
}

func (f zenodoFile) toFile() types.File {
	size := f.Size
	if size == 0 {
		size = f.Filesize
	}
	return types.File{
		Key:         firstNonEmpty(f.Key, f.Filename),
		Size:        size,
		Checksum:    f.Checksum,
		DownloadURL: firstNonEmpty(f.Links["content"], f.Links["download"], f.Links["self"]),
		MimeType:    f.MimeType,
	}
}

// parseDate accepts the full date, year-month, or year forms Zenodo emits.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// stripDOI removes the resolver prefix so only the bare DOI remains.
func stripDOI(doi string) string {
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "doi:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return doi
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsRecordID reports whether id is a bare positive integer, the only form
// Zenodo record IDs take.
func IsRecordID(id string) bool {
	if id == "" {
		return false
	}
	n, err := strconv.ParseUint(id, 10, 64)
	return err == nil && n > 0
}
