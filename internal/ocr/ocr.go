package ocr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyFile is returned when the uploaded file has no bytes.
var ErrEmptyFile = errors.New("empty file")

// Image is an inline image recognised on a page.
type Image struct {
	ID          string `json:"id"`
	ImageBase64 string `json:"imageBase64,omitempty"`
}

// Page is one physical page of recognised text.
type Page struct {
	Index    int     `json:"index"`
	Markdown string  `json:"markdown"`
	Images   []Image `json:"images,omitempty"`
}

// Document is the OCR result for a whole file. An empty page list is valid.
type Document struct {
	Pages []Page `json:"pages"`
	Model string `json:"model,omitempty"`
}

// Performer turns file bytes into a Document.
type Performer interface {
	Perform(ctx context.Context, fileName string, data []byte) (Document, error)
}

// Error is a failure reported by the OCR vendor.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return "ocr: " + e.Message
	}
	return fmt.Sprintf("ocr: status %d: %s", e.StatusCode, e.Message)
}

// SortedPages returns a copy of the pages ordered by index.
func (d Document) SortedPages() []Page {
	pages := append([]Page(nil), d.Pages...)
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Index < pages[j].Index
	})
	return pages
}

// Markdown joins every page's markdown in index order, separated by a blank line.
func (d Document) Markdown() string {
	pages := d.SortedPages()
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = p.Markdown
	}
	return strings.Join(parts, "\n\n")
}
