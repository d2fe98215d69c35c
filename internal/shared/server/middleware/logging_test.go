package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-ocr/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	telemetry.SetOutput(&buf)
	defer telemetry.SetOutput(nil)

	router := gin.New()
	router.Use(RequestID(), Identity(), Logging())
	router.GET("/api/v1/history/:id", func(c *gin.Context) {
		c.Set(HistoryIDKey, c.Param("id"))
		c.Set(FileNameKey, "resume.pdf")
		c.Set(PageCountKey, 2)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history/abc-123", nil)
	req.Header.Set(ClientIDHeader, "client1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last), &payload); err != nil {
		t.Fatalf("decode log json: %v", err)
	}

	required := []string{"request_id", "client_id", "history_id", "file_name", "page_count", "duration_ms", "status", "route"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["client_id"] != "client1" {
		t.Fatalf("unexpected client_id: %v", payload["client_id"])
	}
	if payload["history_id"] != "abc-123" {
		t.Fatalf("unexpected history_id: %v", payload["history_id"])
	}
	if payload["route"] != "/api/v1/history/:id" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
	if payload["page_count"] != float64(2) {
		t.Fatalf("unexpected page_count: %v", payload["page_count"])
	}
}

func TestToSnake(t *testing.T) {
	if got := toSnake("historyId"); got != "history_id" {
		t.Fatalf("unexpected %q", got)
	}
}
