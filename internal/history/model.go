package history

import (
	"errors"

	"resume-ocr/internal/ocr"
)

var ErrNotFound = errors.New("history entry not found")

// StoredResult is one OCR run kept in a client's history.
type StoredResult struct {
	ID        string       `json:"id"`
	Timestamp int64        `json:"timestamp"`
	Filename  string       `json:"filename"`
	Result    ocr.Document `json:"result"`
}

// Summary is the list view of a StoredResult without page content.
type Summary struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Filename  string `json:"filename"`
	Pages     int    `json:"pages"`
}

func (r StoredResult) Summary() Summary {
	return Summary{ID: r.ID, Timestamp: r.Timestamp, Filename: r.Filename, Pages: len(r.Result.Pages)}
}
