package history

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"resume-ocr/internal/ocr"
)

// Raw HTML in OCR output is not passed through.
var previewMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// RenderPreview renders every page of doc as one HTML document. Image
// references that match a page image id are inlined as data URIs.
func RenderPreview(title string, doc ocr.Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>")
	buf.WriteString(html.EscapeString(title))
	buf.WriteString("</title></head><body>\n")

	for _, page := range doc.SortedPages() {
		fmt.Fprintf(&buf, "<section class=\"page\" data-index=\"%d\">\n", page.Index)
		if err := previewMarkdown.Convert([]byte(inlineImages(page)), &buf); err != nil {
			return nil, fmt.Errorf("render page %d: %w", page.Index, err)
		}
		buf.WriteString("</section>\n")
	}

	buf.WriteString("</body></html>\n")
	return buf.Bytes(), nil
}

func inlineImages(page ocr.Page) string {
	md := page.Markdown
	for _, img := range page.Images {
		if img.ID == "" || img.ImageBase64 == "" {
			continue
		}
		src := img.ImageBase64
		if !strings.HasPrefix(src, "data:") {
			src = "data:" + imageMIME(img.ID) + ";base64," + src
		}
		md = strings.ReplaceAll(md, "]("+img.ID+")", "]("+src+")")
	}
	return md
}

func imageMIME(id string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(id), ".png"):
		return "image/png"
	case strings.HasSuffix(strings.ToLower(id), ".gif"):
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
