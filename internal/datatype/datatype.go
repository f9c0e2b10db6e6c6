// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package datatype classifies a Zenodo record as a dataset, software, an
// article or other. Classification is a fixed, ordered table of weighted
// rules; each rule inspects one metadata signal and votes for at most one
// category.
package datatype

import (
	"fmt"
	"math"
	"path"
	"sort"
	"strings"

	"github.com/pdiddy/zenodo-mcp/pkg/types"
)

// Rule is one detection signal. Eval reports the category the signal votes
// for, a short evidence string, and whether the signal fired at all.
type Rule struct {
	Name   string
	Weight float64
	Eval   func(r *types.Record) (vote types.DataType, detail string, fired bool)
}

// Rules is the detection table in precedence order. Ties between categories
// go to the earliest rule that voted for one of them.
var Rules = []Rule{
	{Name: "resource_type", Weight: 0.50, Eval: resourceTypeRule},
	{Name: "file_extensions", Weight: 0.25, Eval: fileExtensionRule},
	{Name: "publication_venue", Weight: 0.15, Eval: venueRule},
	{Name: "keywords", Weight: 0.10, Eval: keywordRule},
}

// categoryOrder breaks ties inside a single rule.
var categoryOrder = []types.DataType{types.DataTypeSoftware, types.DataTypeDataset, types.DataTypeArticle}

var resourceTypes = map[string]types.DataType{
	"dataset":      types.DataTypeDataset,
	"software":     types.DataTypeSoftware,
	"publication":  types.DataTypeArticle,
	"poster":       types.DataTypeArticle,
	"presentation": types.DataTypeArticle,
}

var extensionIndicators = map[types.DataType][]string{
	types.DataTypeSoftware: {"py", "js", "java", "cpp", "c", "h", "r", "m", "ipynb", "php", "rb", "go", "rs", "swift", "kt", "scala", "jl", "sh"},
	types.DataTypeDataset:  {"csv", "tsv", "json", "xml", "hdf5", "h5", "nc", "npy", "npz", "db", "sqlite", "sql", "xlsx", "xls", "parquet", "avro", "mat"},
	types.DataTypeArticle:  {"pdf", "doc", "docx", "tex", "odt", "rtf", "epub"},
}

var keywordIndicators = map[types.DataType][]string{
	types.DataTypeSoftware: {"software", "code", "program", "library", "package", "tool"},
	types.DataTypeDataset:  {"dataset", "data", "measurement", "survey", "collection"},
	types.DataTypeArticle:  {"article", "paper", "publication", "journal", "conference"},
}

// extensionCategory inverts extensionIndicators.
var extensionCategory = func() map[string]types.DataType {
	m := map[string]types.DataType{}
	for cat, exts := range extensionIndicators {
		for _, e := range exts {
			m[e] = cat
		}
	}
	return m
}()

// Detect classifies rec with the default rule table.
func Detect(rec *types.Record) types.DataTypeResult {
	return DetectWith(Rules, rec)
}

// DetectWith classifies rec with an explicit rule table. The winner is the
// category with the highest summed weight of fired rules. Confidence is
// (agreeing/total) x (agreeing/fired): it grows with the share of the table
// that agrees and shrinks with disagreement among fired rules.
func DetectWith(rules []Rule, rec *types.Record) types.DataTypeResult {
	res := types.DataTypeResult{
		RecordID: rec.ID,
		DataType: types.DataTypeOther,
		Signals:  []types.Signal{},
	}

	var total, fired float64
	votes := map[types.DataType]float64{}
	var firstVote []types.DataType
	for _, rule := range rules {
		total += rule.Weight
		vote, detail, ok := rule.Eval(rec)
		if !ok {
			continue
		}
		fired += rule.Weight
		if _, seen := votes[vote]; !seen {
			firstVote = append(firstVote, vote)
		}
		votes[vote] += rule.Weight
		res.Signals = append(res.Signals, types.Signal{
			Name:   rule.Name,
			Weight: rule.Weight,
			Vote:   vote,
			Detail: detail,
		})
	}
	if fired == 0 || total == 0 {
		return res
	}

	winner := firstVote[0]
	for _, cat := range firstVote[1:] {
		if votes[cat] > votes[winner]+1e-12 {
			winner = cat
		}
	}
	agreeing := votes[winner]
	res.DataType = winner
	res.Confidence = math.Round((agreeing/total)*(agreeing/fired)*1000) / 1000
	return res
}

func resourceTypeRule(r *types.Record) (types.DataType, string, bool) {
	t := strings.ToLower(strings.TrimSpace(r.ResourceType.Type))
	if t == "" {
		return "", "", false
	}
	if cat, ok := resourceTypes[t]; ok {
		return cat, t, true
	}
	return types.DataTypeOther, t, true
}

func fileExtensionRule(r *types.Record) (types.DataType, string, bool) {
	counts := map[types.DataType]int{}
	var exts []string
	seen := map[string]bool{}
	for _, f := range r.Files {
		ext := strings.TrimPrefix(strings.ToLower(path.Ext(f.Key)), ".")
		cat, ok := extensionCategory[ext]
		if !ok {
			continue
		}
		counts[cat]++
		if !seen[ext] {
			seen[ext] = true
			exts = append(exts, ext)
		}
	}
	if len(counts) == 0 {
		return "", "", false
	}
	var best types.DataType
	for _, cat := range categoryOrder {
		if counts[cat] > counts[best] {
			best = cat
		}
	}
	sort.Strings(exts)
	return best, strings.Join(exts, ","), true
}

func venueRule(r *types.Record) (types.DataType, string, bool) {
	if v := strings.TrimSpace(r.Venue); v != "" {
		return types.DataTypeArticle, v, true
	}
	return "", "", false
}

func keywordRule(r *types.Record) (types.DataType, string, bool) {
	kws := make(map[string]bool, len(r.Keywords))
	for _, k := range r.Keywords {
		kws[strings.ToLower(strings.TrimSpace(k))] = true
	}
	for _, cat := range categoryOrder {
		for _, ind := range keywordIndicators[cat] {
			if kws[ind] {
				return cat, fmt.Sprintf("keyword %q", ind), true
			}
		}
	}
	return "", "", false
}
