// Package service composes extraction and template filling into resume exports.
package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"resume-ocr/internal/ocr"
	"resume-ocr/internal/shared/metrics"
	"resume-ocr/internal/shared/storage/object"
	"resume-ocr/internal/shared/telemetry"
	"resume-ocr/resume/extractor"
	"resume-ocr/resume/model"
	"resume-ocr/resume/render"
)

// ExportPrefix is the storage key prefix of published workbooks.
const ExportPrefix = "exports/"

// Service turns OCR documents into ExtractedResumeData and filled workbooks.
type Service struct {
	Template []byte
	Mapping  render.Mapping
	Store    object.ObjectStore
	Now      func() time.Time
}

// Workbook is a filled spreadsheet ready to download.
type Workbook struct {
	Bytes    []byte
	FileName string
	Data     model.ExtractedResumeData
}

// Published is a workbook stored in the object store.
type Published struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

// New loads the template and mapping from disk. Empty paths fall back to the
// embedded mapping and a generated blank template.
func New(templatePath, mappingPath string, store object.ObjectStore) (*Service, error) {
	mapping := render.DefaultMapping()
	if strings.TrimSpace(mappingPath) != "" {
		f, err := os.Open(mappingPath)
		if err != nil {
			return nil, fmt.Errorf("open cell mapping: %w", err)
		}
		defer f.Close()
		mapping, err = render.LoadMapping(f)
		if err != nil {
			return nil, fmt.Errorf("load cell mapping %s: %w", mappingPath, err)
		}
	}

	var template []byte
	if strings.TrimSpace(templatePath) != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
		template = data
	} else {
		data, err := render.DefaultTemplate(mapping)
		if err != nil {
			return nil, fmt.Errorf("build default template: %w", err)
		}
		template = data
	}

	return &Service{Template: template, Mapping: mapping, Store: store}, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Extract runs the field extractor. It fails only for a document without pages.
func (s *Service) Extract(doc ocr.Document) (model.ExtractedResumeData, error) {
	data, err := extractor.Extract(doc)
	if err != nil {
		return model.ExtractedResumeData{}, err
	}
	metrics.IncExtractions()
	return data, nil
}

// BuildWorkbook extracts fields and fills the template.
func (s *Service) BuildWorkbook(doc ocr.Document) (Workbook, error) {
	data, err := s.Extract(doc)
	if err != nil {
		return Workbook{}, err
	}
	out, err := render.Fill(data, s.Template, s.Mapping)
	if err != nil {
		return Workbook{}, err
	}
	metrics.IncWorkbooks()
	return Workbook{Bytes: out, FileName: DownloadName(s.now()), Data: data}, nil
}

// Publish builds the workbook, stores it and returns a link to it.
func (s *Service) Publish(ctx context.Context, doc ocr.Document) (Published, error) {
	if s.Store == nil {
		return Published{}, fmt.Errorf("object store is not configured")
	}
	wb, err := s.BuildWorkbook(doc)
	if err != nil {
		return Published{}, err
	}
	name := StoredName(s.now())
	key := ExportPrefix + name
	if _, err := s.Store.SaveWithKey(ctx, key, render.XLSXContentType, bytes.NewReader(wb.Bytes)); err != nil {
		return Published{}, fmt.Errorf("store workbook: %w", err)
	}
	url, err := s.Store.URL(ctx, key)
	if err != nil {
		return Published{}, fmt.Errorf("link workbook: %w", err)
	}
	telemetry.Info("resume.workbook.published", map[string]any{
		"key":   key,
		"bytes": len(wb.Bytes),
	})
	return Published{URL: url, FileName: name}, nil
}

// DownloadName is the user-facing file name, 履歴書_<YYYY-MM-DD>.xlsx.
func DownloadName(now time.Time) string {
	return "履歴書_" + now.Format("2006-01-02") + ".xlsx"
}

// StoredName is the storage file name, the UTC ISO timestamp with colons dashed.
func StoredName(now time.Time) string {
	iso := now.UTC().Format("2006-01-02T15:04:05.000Z")
	return "resume_" + strings.ReplaceAll(iso, ":", "-") + ".xlsx"
}
