package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	ocrRequestsTotal   atomic.Uint64
	ocrFailedTotal     atomic.Uint64
	ocrPagesTotal      atomic.Uint64
	extractionsTotal   atomic.Uint64
	workbooksTotal     atomic.Uint64
	exportsTotal       atomic.Uint64
	historyErrorsTotal atomic.Uint64

	ocrDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000, 120000})
)

// IncOCRRequests increments the OCR request counter.
func IncOCRRequests() {
	ocrRequestsTotal.Add(1)
}

// IncOCRFailed increments the failed OCR counter.
func IncOCRFailed() {
	ocrFailedTotal.Add(1)
}

// AddOCRPages adds recognized pages to the page counter.
func AddOCRPages(n int) {
	if n > 0 {
		ocrPagesTotal.Add(uint64(n))
	}
}

// IncExtractions increments the resume extraction counter.
func IncExtractions() {
	extractionsTotal.Add(1)
}

// IncWorkbooks increments the generated workbook counter.
func IncWorkbooks() {
	workbooksTotal.Add(1)
}

// IncExports increments the archive/markdown export counter.
func IncExports() {
	exportsTotal.Add(1)
}

// IncHistoryErrors increments the degraded history storage counter.
func IncHistoryErrors() {
	historyErrorsTotal.Add(1)
}

// ObserveOCRDurationMs records an OCR call duration in milliseconds.
func ObserveOCRDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	ocrDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "ocr_requests_total", "Total OCR requests", ocrRequestsTotal.Load())
	writeCounter(&buf, "ocr_failed_total", "Total failed OCR requests", ocrFailedTotal.Load())
	writeCounter(&buf, "ocr_pages_total", "Total pages recognized", ocrPagesTotal.Load())
	writeCounter(&buf, "resume_extractions_total", "Total resume field extractions", extractionsTotal.Load())
	writeCounter(&buf, "resume_workbooks_total", "Total resume workbooks generated", workbooksTotal.Load())
	writeCounter(&buf, "exports_total", "Total markdown and archive exports", exportsTotal.Load())
	writeCounter(&buf, "history_storage_errors_total", "Total degraded history storage operations", historyErrorsTotal.Load())
	writeHistogram(&buf, "ocr_duration_ms", "OCR call duration in milliseconds", ocrDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe records value in the first bucket that holds it; cumulation happens at render time.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
