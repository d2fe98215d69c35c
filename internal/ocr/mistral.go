package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-ocr/internal/shared/metrics"
	"resume-ocr/internal/shared/telemetry"
)

const (
	defaultBaseURL = "https://api.mistral.ai"
	defaultModel   = "mistral-ocr-latest"
	maxErrorBody   = 4 << 10
)

// MistralClient implements Performer using the Mistral OCR endpoint.
type MistralClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewMistralClient constructs a client. baseURL and model fall back to the public defaults.
func NewMistralClient(apiKey, baseURL, model string, timeout time.Duration) (*MistralClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("MISTRAL_API_KEY is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &MistralClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type documentURL struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
	Name        string `json:"document_name,omitempty"`
}

type ocrRequest struct {
	Model              string      `json:"model"`
	Document           documentURL `json:"document"`
	IncludeImageBase64 bool        `json:"include_image_base64"`
}

type ocrResponse struct {
	Model string `json:"model"`
	Pages []struct {
		Index    int    `json:"index"`
		Markdown string `json:"markdown"`
		Images   []struct {
			ID          string `json:"id"`
			ImageBase64 string `json:"image_base64"`
		} `json:"images"`
	} `json:"pages"`
	UsageInfo *struct {
		PagesProcessed int `json:"pages_processed"`
		DocSizeBytes   int `json:"doc_size_bytes"`
	} `json:"usage_info,omitempty"`
}

// Perform uploads the PDF inline as a data URI and returns the recognised pages.
func (c *MistralClient) Perform(ctx context.Context, fileName string, data []byte) (Document, error) {
	if len(data) == 0 {
		return Document{}, ErrEmptyFile
	}
	reqBody := ocrRequest{
		Model: c.model,
		Document: documentURL{
			Type:        "document_url",
			DocumentURL: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data),
			Name:        fileName,
		},
		IncludeImageBase64: true,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/ocr", bytes.NewReader(payload))
	if err != nil {
		return Document{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	metrics.IncOCRRequests()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncOCRFailed()
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return Document{}, fmt.Errorf("mistral ocr request timeout: %w", err)
		}
		return Document{}, fmt.Errorf("mistral ocr request: %w", err)
	}
	defer resp.Body.Close()
	metrics.ObserveOCRDurationMs(float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.IncOCRFailed()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		ocrErr := &Error{StatusCode: resp.StatusCode, Message: errorMessage(body, resp.Status)}
		telemetry.Error("ocr.mistral.failed", map[string]any{
			"status":    resp.StatusCode,
			"file_name": fileName,
			"error":     ocrErr.Message,
		})
		return Document{}, ocrErr
	}

	var parsed ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.IncOCRFailed()
		return Document{}, fmt.Errorf("mistral ocr response parse: %w", err)
	}

	doc := Document{Model: parsed.Model, Pages: make([]Page, 0, len(parsed.Pages))}
	for _, p := range parsed.Pages {
		page := Page{Index: p.Index, Markdown: p.Markdown}
		for _, img := range p.Images {
			page.Images = append(page.Images, Image{ID: img.ID, ImageBase64: img.ImageBase64})
		}
		doc.Pages = append(doc.Pages, page)
	}
	metrics.AddOCRPages(len(doc.Pages))
	telemetry.Info("ocr.mistral.complete", map[string]any{
		"file_name":   fileName,
		"model":       doc.Model,
		"pages":       len(doc.Pages),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return doc, nil
}

// errorMessage pulls a human readable message out of a vendor error body.
func errorMessage(body []byte, fallback string) string {
	var parsed struct {
		Message any `json:"message"`
		Detail  any `json:"detail"`
		Error   any `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, candidate := range []any{parsed.Message, parsed.Detail, parsed.Error} {
			if msg := stringify(candidate); msg != "" {
				return msg
			}
		}
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}
	return fallback
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if msg, ok := t["message"].(string); ok {
			return strings.TrimSpace(msg)
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

var _ Performer = (*MistralClient)(nil)
