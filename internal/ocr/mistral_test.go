package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMistralPerformDecodesPages(t *testing.T) {
	var got ocrRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ocr" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key-1" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "mistral-ocr-2505",
			"pages": [
				{"index": 0, "markdown": "氏名：山田太郎", "images": [{"id": "img-0.jpeg", "image_base64": "data:image/jpeg;base64,AAAA"}]},
				{"index": 1, "markdown": "学歴"}
			],
			"usage_info": {"pages_processed": 2, "doc_size_bytes": 10}
		}`))
	}))
	defer srv.Close()

	client, err := NewMistralClient("key-1", srv.URL+"/", "", time.Second)
	if err != nil {
		t.Fatalf("NewMistralClient: %v", err)
	}
	doc, err := client.Perform(context.Background(), "resume.pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}

	if got.Model != defaultModel || !got.IncludeImageBase64 {
		t.Fatalf("unexpected request %+v", got)
	}
	wantURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF-1.4"))
	if got.Document.DocumentURL != wantURL || got.Document.Type != "document_url" {
		t.Fatalf("unexpected document %+v", got.Document)
	}
	if doc.Model != "mistral-ocr-2505" || len(doc.Pages) != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if doc.Pages[0].Markdown != "氏名：山田太郎" {
		t.Fatalf("unexpected markdown %q", doc.Pages[0].Markdown)
	}
	if len(doc.Pages[0].Images) != 1 || doc.Pages[0].Images[0].ID != "img-0.jpeg" {
		t.Fatalf("unexpected images %+v", doc.Pages[0].Images)
	}
}

func TestMistralPerformNon2xxReturnsOCRError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"object":"error","message":"Invalid document","type":"invalid_request_error"}`))
	}))
	defer srv.Close()

	client, err := NewMistralClient("key", srv.URL, "mistral-ocr-latest", time.Second)
	if err != nil {
		t.Fatalf("NewMistralClient: %v", err)
	}
	_, err = client.Perform(context.Background(), "x.pdf", []byte("%PDF"))
	var ocrErr *Error
	if !errors.As(err, &ocrErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if ocrErr.StatusCode != http.StatusUnprocessableEntity || ocrErr.Message != "Invalid document" {
		t.Fatalf("unexpected error %+v", ocrErr)
	}
}

func TestMistralPerformRejectsEmptyFile(t *testing.T) {
	client, err := NewMistralClient("key", "", "", 0)
	if err != nil {
		t.Fatalf("NewMistralClient: %v", err)
	}
	if _, err := client.Perform(context.Background(), "x.pdf", nil); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestNewMistralClientRequiresKey(t *testing.T) {
	if _, err := NewMistralClient(" ", "", "", 0); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message", body: `{"message":"bad"}`, want: "bad"},
		{name: "detail string", body: `{"detail":"Unauthorized"}`, want: "Unauthorized"},
		{name: "nested error", body: `{"error":{"message":"quota"}}`, want: "quota"},
		{name: "plain text", body: "gateway timeout", want: "gateway timeout"},
		{name: "empty", body: "", want: "502 Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorMessage([]byte(tt.body), "502 Bad Gateway"); got != tt.want {
				t.Fatalf("errorMessage(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestDocumentMarkdownOrdersPages(t *testing.T) {
	doc := Document{Pages: []Page{{Index: 1, Markdown: "b"}, {Index: 0, Markdown: "a"}, {Index: 2}}}
	if got := doc.Markdown(); got != "a\n\nb\n\n" {
		t.Fatalf("unexpected markdown %q", got)
	}
	if doc.Pages[0].Index != 1 {
		t.Fatalf("SortedPages must not reorder the receiver")
	}
	if !strings.Contains((&Error{StatusCode: 500, Message: "x"}).Error(), "500") {
		t.Fatalf("expected status in error string")
	}
}
