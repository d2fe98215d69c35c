package exports

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"resume-ocr/internal/ocr"
	"resume-ocr/internal/shared/util"
)

// ZipMode selects the archive contents.
type ZipMode string

const (
	ZipFull     ZipMode = "full"
	ZipMarkdown ZipMode = "markdown"
)

var ErrInvalidMode = errors.New("invalid zip mode")

const maxDecodeWorkers = 8

// ParseZipMode maps a query value to a ZipMode. Empty means full.
func ParseZipMode(raw string) (ZipMode, error) {
	switch ZipMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ZipFull:
		return ZipFull, nil
	case ZipMarkdown:
		return ZipMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, raw)
	}
}

type decodedImage struct {
	name string
	data []byte
}

// BuildZip packs the document as <base>.md, one pages/page-NNN.md per page
// and, in full mode, every page image under images/.
func BuildZip(ctx context.Context, base string, doc ocr.Document, mode ZipMode, modified time.Time) ([]byte, error) {
	pages := doc.SortedPages()

	var images []decodedImage
	if mode == ZipFull {
		decoded, err := decodeImages(ctx, pages)
		if err != nil {
			return nil, err
		}
		images = decoded
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name string, data []byte) error {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", name, err)
		}
		_, err = w.Write(data)
		return err
	}

	if err := write(base+".md", []byte(doc.Markdown())); err != nil {
		return nil, err
	}
	for i, page := range pages {
		if err := write(fmt.Sprintf("pages/page-%03d.md", i+1), []byte(page.Markdown)); err != nil {
			return nil, err
		}
	}
	for _, img := range images {
		if err := write("images/"+img.name, img.data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeImages decodes every page image concurrently, keeping page order and
// dropping repeated names.
func decodeImages(ctx context.Context, pages []ocr.Page) ([]decodedImage, error) {
	var refs []ocr.Image
	seen := make(map[string]struct{})
	for _, page := range pages {
		for _, img := range page.Images {
			if img.ImageBase64 == "" {
				continue
			}
			name, err := util.SanitizeFileName(img.ID)
			if err != nil {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			refs = append(refs, ocr.Image{ID: name, ImageBase64: img.ImageBase64})
		}
	}

	out := make([]decodedImage, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDecodeWorkers)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := decodeImage(ref.ImageBase64)
			if err != nil {
				return fmt.Errorf("decode image %s: %w", ref.ID, err)
			}
			out[i] = decodedImage{name: ref.ID, data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeImage accepts raw base64 or a data URI.
func decodeImage(raw string) ([]byte, error) {
	if strings.HasPrefix(raw, "data:") {
		_, payload, ok := strings.Cut(raw, ",")
		if !ok {
			return nil, errors.New("malformed data uri")
		}
		raw = payload
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
}
