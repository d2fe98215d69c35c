package ocr

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNotPDF is returned when the payload cannot be parsed as a PDF.
var ErrNotPDF = errors.New("file is not a readable PDF")

// PageCount parses the PDF with relaxed validation and returns its page count.
func PageCount(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, ErrEmptyFile
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return 0, ErrNotPDF
	}
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(bytes.NewReader(data), cfg)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}
	return n, nil
}
