package exports

import (
	"context"
	"errors"
	"strings"

	"resume-ocr/internal/history"
	"resume-ocr/internal/ocr"
)

var (
	ErrInvalidRequest = errors.New("historyId or result is required")
	ErrNotFound       = errors.New("history entry not found")
)

// Request selects the document to export: a history entry or an inline result.
type Request struct {
	HistoryID string        `json:"historyId"`
	Filename  string        `json:"filename"`
	Result    *ocr.Document `json:"result"`
}

// source is a resolved export input.
type source struct {
	filename string
	doc      ocr.Document
}

func resolve(ctx context.Context, hist *history.Service, owner string, req Request) (source, error) {
	if id := strings.TrimSpace(req.HistoryID); id != "" {
		if hist == nil {
			return source{}, ErrNotFound
		}
		entry, err := hist.Get(ctx, owner, id)
		if err != nil {
			return source{}, ErrNotFound
		}
		return source{filename: entry.Filename, doc: entry.Result}, nil
	}
	if req.Result == nil {
		return source{}, ErrInvalidRequest
	}
	return source{filename: req.Filename, doc: *req.Result}, nil
}
