package ocr

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"resume-ocr/internal/shared/metrics"
)

// PDFTextModel names documents produced by PDFTextPerformer.
const PDFTextModel = "pdf-text-layer"

// PDFTextPerformer reads the embedded text layer of a PDF, one page per PDF page.
// Scanned PDFs without a text layer yield pages with empty markdown.
type PDFTextPerformer struct{}

// Perform extracts plain text per page.
func (PDFTextPerformer) Perform(ctx context.Context, fileName string, data []byte) (Document, error) {
	if len(data) == 0 {
		return Document{}, ErrEmptyFile
	}
	metrics.IncOCRRequests()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		metrics.IncOCRFailed()
		return Document{}, &Error{Message: fmt.Sprintf("read pdf %s: %v", fileName, err)}
	}

	total := reader.NumPage()
	doc := Document{Model: PDFTextModel, Pages: make([]Page, 0, total)}
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			metrics.IncOCRFailed()
			return Document{}, &Error{Message: fmt.Sprintf("page %d text: %v", i, err)}
		}
		doc.Pages = append(doc.Pages, Page{Index: i - 1, Markdown: strings.TrimSpace(text)})
	}
	metrics.AddOCRPages(len(doc.Pages))
	return doc, nil
}

var _ Performer = PDFTextPerformer{}
