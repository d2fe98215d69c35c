package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-ocr/internal/history"
	"resume-ocr/internal/ocr"
	"resume-ocr/internal/shared/storage/object"
	"resume-ocr/internal/shared/telemetry"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrOCRFailed    = errors.New("ocr failed")
)

// Service uploads a PDF, runs OCR on it and records the result in history.
type Service struct {
	Store   object.ObjectStore
	OCR     ocr.Performer
	History *history.Service
	// PageCounter validates the file before OCR. Nil skips validation.
	PageCounter func([]byte) (int, error)
}

// NewService constructs a Service validating uploads with ocr.PageCount.
func NewService(store object.ObjectStore, performer ocr.Performer, hist *history.Service) *Service {
	return &Service{Store: store, OCR: performer, History: hist, PageCounter: ocr.PageCount}
}

// Upload stores data under the owner's namespace, runs OCR and saves the
// result to history. A failed history write does not fail the upload.
func (s *Service) Upload(ctx context.Context, owner, fileName string, data []byte) (history.StoredResult, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return history.StoredResult{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if len(data) == 0 {
		return history.StoredResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, ocr.ErrEmptyFile)
	}

	pages := 0
	if s.PageCounter != nil {
		n, err := s.PageCounter(data)
		if err != nil {
			return history.StoredResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		pages = n
	}

	if s.Store != nil {
		key, size, mimeType, err := s.Store.Save(ctx, owner, fileName, bytes.NewReader(data))
		if err != nil {
			return history.StoredResult{}, fmt.Errorf("store upload: %w", err)
		}
		telemetry.Info("documents.upload.stored", map[string]any{
			"owner":     owner,
			"key":       key,
			"bytes":     size,
			"mime_type": mimeType,
			"pages":     pages,
		})
	}

	doc, err := s.OCR.Perform(ctx, fileName, data)
	if err != nil {
		return history.StoredResult{}, fmt.Errorf("%w: %w", ErrOCRFailed, err)
	}

	return s.History.Save(ctx, owner, fileName, doc), nil
}
