// Package refextract turns fulltext PDFs or pasted reference text into
// structured reference entries for the record's references list.
package refextract

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"hepflow/internal/models"
	"hepflow/internal/util"
)

// Extractor produces reference entries from a PDF on disk or from raw text.
// Entries carry raw_refs without a source tag; the calling step stamps the
// record's acquisition source on them.
type Extractor interface {
	ExtractFromFile(ctx context.Context, path string) ([]models.Reference, error)
	ExtractFromText(ctx context.Context, text string) ([]models.Reference, error)
}

// FromConfig picks the extractor implementation: the remote service when a URL
// is configured, the in-process one otherwise.
func FromConfig(mode, url string, client *http.Client) Extractor {
	if mode == "service" && url != "" {
		return &Service{URL: url, Client: client}
	}
	return Local{}
}

var (
	headingRe = regexp.MustCompile(`(?im)^\s*(references|bibliography)\s*:?\s*$`)
	markerRe  = regexp.MustCompile(`^\s*(\[\d+\]|\(\d+\)|\d+\.)\s+`)
)

// splitReferenceLines cuts a references section into one string per citation.
// Numbered markers ([1], (1), 1.) start a new entry and unnumbered lines are
// treated as continuations; with no markers at all, every non-blank line is
// its own entry.
func splitReferenceLines(text string) []string {
	if loc := headingRe.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	lines := strings.Split(text, "\n")

	numbered := false
	for _, line := range lines {
		if markerRe.MatchString(line) {
			numbered = true
			break
		}
	}

	out := make([]string, 0, len(lines))
	var current string
	flush := func() {
		current = util.SanitizeText(strings.Join(strings.Fields(current), " "))
		if len(current) >= 10 {
			out = append(out, current)
		}
		current = ""
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if !numbered {
			current = trimmed
			flush()
			continue
		}
		if markerRe.MatchString(line) {
			flush()
		}
		current += " " + trimmed
	}
	flush()
	return out
}

func toReferences(lines []string) []models.Reference {
	refs := make([]models.Reference, 0, len(lines))
	for _, line := range lines {
		refs = append(refs, models.Reference{
			RawRefs: []models.RawRef{{Schema: "text", Value: line}},
		})
	}
	return refs
}
