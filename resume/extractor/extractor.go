// Package extractor turns OCR markdown of a Japanese 履歴書 into structured fields.
//
// Every field is an independent search over the whole document text, first
// match wins. A field whose pattern does not match stays nil.
package extractor

import (
	"errors"
	"strings"
	"unicode"

	"resume-ocr/internal/ocr"
	"resume-ocr/resume/model"
)

// ErrNoPages is returned when the document has no pages to read.
var ErrNoPages = errors.New("document has no pages")

// Extract joins the pages in index order and extracts resume fields from the text.
func Extract(doc ocr.Document) (model.ExtractedResumeData, error) {
	if len(doc.Pages) == 0 {
		return model.ExtractedResumeData{}, ErrNoPages
	}
	return ExtractText(doc.Markdown()), nil
}

// ExtractText extracts resume fields from already joined text.
func ExtractText(text string) model.ExtractedResumeData {
	var data model.ExtractedResumeData
	captured := make(map[model.Field]string, len(compiledScalars))

	for _, r := range compiledScalars {
		haystack := text
		if r.within != "" {
			parent, ok := captured[r.within]
			if !ok {
				continue
			}
			haystack = parent
		}
		value, ok := find(r, haystack)
		if !ok {
			continue
		}
		// a failed integer parse leaves the field unset
		if err := data.Set(r.field, value); err != nil {
			continue
		}
		captured[r.field] = value
	}

	for _, s := range compiledSections {
		m := s.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		s.set(&data, parseEntries(m[1]))
	}
	return data
}

func find(r compiledRule, text string) (string, bool) {
	n := r.occurrence
	if n <= 0 {
		n = 1
	}
	matches := r.re.FindAllStringSubmatch(text, n)
	if len(matches) < n {
		return "", false
	}
	return clean(matches[n-1][1]), true
}

// parseEntries returns one entry per dated row in body. Rows that do not
// decompose into year/month/description keep the raw text as description.
func parseEntries(body string) []model.Entry {
	rows := entryPattern.FindAllString(body, -1)
	entries := make([]model.Entry, 0, len(rows))
	for _, row := range rows {
		row = clean(row)
		parts := entryParts.FindStringSubmatch(row)
		if parts == nil {
			entries = append(entries, model.Entry{Description: row})
			continue
		}
		entries = append(entries, model.Entry{
			Year:        parts[1],
			Month:       parts[2],
			Description: clean(parts[3]),
		})
	}
	return entries
}

func clean(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '|'
	})
}
