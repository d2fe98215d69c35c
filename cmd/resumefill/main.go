package main

// Fill the 履歴書 workbook from OCR output without running the server:
//   go run ./cmd/resumefill -out ./out scan.md result.json resume.pdf

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"resume-ocr/internal/ocr"
	"resume-ocr/internal/shared/util"
	resumesvc "resume-ocr/resume/service"
)

type options struct {
	TemplatePath string
	MappingPath  string
	OutDir       string
	PrintJSON    bool
	Inputs       []string
}

func main() {
	opts := parseFlags()
	if len(opts.Inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed, err := run(context.Background(), opts)
	if err != nil {
		log.Fatal(err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.TemplatePath, "template", os.Getenv("RESUME_TEMPLATE_PATH"), "xlsx template path (blank builds a default template)")
	flag.StringVar(&opts.MappingPath, "mapping", os.Getenv("CELL_MAPPING_PATH"), "cell mapping YAML path")
	flag.StringVar(&opts.OutDir, "out", "./out", "output directory")
	flag.BoolVar(&opts.PrintJSON, "json", false, "also write the extracted fields as JSON")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: resumefill [flags] <file.md|file.json|file.pdf>...\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	opts.Inputs = flag.Args()
	return opts
}

func run(ctx context.Context, opts options) (int, error) {
	svc, err := resumesvc.New(opts.TemplatePath, opts.MappingPath, nil)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return 0, err
	}

	bar := progressbar.NewOptions(len(opts.Inputs),
		progressbar.OptionSetDescription(color.BlueString("filling")),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetRenderBlankState(true),
	)

	var written []string
	var failures []string
	for _, input := range opts.Inputs {
		out, err := fill(ctx, svc, input, opts)
		_ = bar.Add(1)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", input, err))
			continue
		}
		written = append(written, out)
	}
	_ = bar.Finish()
	fmt.Println()

	for _, path := range written {
		color.Green("✓ %s\n", path)
	}
	for _, msg := range failures {
		color.Red("✗ %s\n", msg)
	}
	return len(failures), nil
}

func fill(ctx context.Context, svc *resumesvc.Service, input string, opts options) (string, error) {
	doc, err := loadDocument(ctx, input)
	if err != nil {
		return "", err
	}
	wb, err := svc.BuildWorkbook(doc)
	if err != nil {
		return "", err
	}

	base := util.BaseName(input, "resume")
	outPath := filepath.Join(opts.OutDir, base+".xlsx")
	if err := os.WriteFile(outPath, wb.Bytes, 0o644); err != nil {
		return "", err
	}
	if opts.PrintJSON {
		payload, err := json.MarshalIndent(wb.Data, "", "  ")
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(opts.OutDir, base+".json"), payload, 0o644); err != nil {
			return "", err
		}
	}
	return outPath, nil
}

// loadDocument reads markdown as a single page, a JSON OCR document as is,
// or a PDF through its text layer.
func loadDocument(ctx context.Context, path string) (ocr.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ocr.Document{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var doc ocr.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return ocr.Document{}, fmt.Errorf("decode document: %w", err)
		}
		return doc, nil
	case ".pdf":
		return ocr.PDFTextPerformer{}.Perform(ctx, filepath.Base(path), data)
	default:
		return ocr.Document{Pages: []ocr.Page{{Index: 0, Markdown: string(data)}}}, nil
	}
}
