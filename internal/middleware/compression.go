package middleware

import (
	"bytes"
	"compress/gzip"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for response compression
type CompressionConfig struct {
	MinSize          int      // Minimum response size to compress (bytes)
	CompressionLevel int      // Gzip compression level (1-9, 9 is best compression)
	ContentTypes     []string // Content types to compress
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:          1024,
		CompressionLevel: gzip.DefaultCompression,
		ContentTypes:     []string{"application/json"},
	}
}

// CompressionMiddleware gzips buffered JSON responses for clients that accept it
type CompressionMiddleware struct {
	config CompressionConfig
	stats  CompressionStats
	pool   sync.Pool
}

// NewCompressionMiddleware creates a new compression middleware
func NewCompressionMiddleware(config CompressionConfig) *CompressionMiddleware {
	level := config.CompressionLevel
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}

	cm := &CompressionMiddleware{config: config}
	cm.pool.New = func() any {
		gz, _ := gzip.NewWriterLevel(nil, level)
		return gz
	}
	return cm
}

// Handler returns the gin middleware. Responses are buffered so the size
// threshold can be applied before any byte reaches the client.
func (cm *CompressionMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !clientAcceptsGzip(c.GetHeader("Accept-Encoding")) {
			c.Next()
			return
		}

		original := c.Writer
		buffered := &bufferedWriter{ResponseWriter: original}
		c.Writer = buffered
		// A panic below must leave the real writer in place for recovery.
		defer func() { c.Writer = original }()

		c.Next()

		c.Writer = original
		cm.flush(original, buffered.buf.Bytes())
	}
}

func (cm *CompressionMiddleware) flush(w gin.ResponseWriter, body []byte) {
	if len(body) == 0 {
		return
	}

	header := w.Header()
	if len(body) < cm.config.MinSize || header.Get("Content-Encoding") != "" || !cm.shouldCompress(header.Get("Content-Type")) {
		cm.stats.record(len(body), 0, false)
		_, _ = w.Write(body)
		return
	}

	var compressed bytes.Buffer
	gz := cm.pool.Get().(*gzip.Writer)
	gz.Reset(&compressed)
	_, err := gz.Write(body)
	if err == nil {
		err = gz.Close()
	}
	cm.pool.Put(gz)

	if err != nil {
		cm.stats.record(len(body), 0, false)
		_, _ = w.Write(body)
		return
	}

	header.Set("Content-Encoding", "gzip")
	header.Add("Vary", "Accept-Encoding")
	header.Del("Content-Length")
	cm.stats.record(len(body), compressed.Len(), true)
	_, _ = w.Write(compressed.Bytes())
}

// Stats returns a snapshot of the compression counters.
func (cm *CompressionMiddleware) Stats() CompressionSnapshot {
	return cm.stats.snapshot()
}

func clientAcceptsGzip(acceptEncoding string) bool {
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, params, _ := strings.Cut(part, ";")
		name = strings.TrimSpace(name)
		if name != "gzip" && name != "*" {
			continue
		}
		q, found := strings.CutPrefix(strings.TrimSpace(params), "q=")
		if !found {
			return true
		}
		weight, err := strconv.ParseFloat(q, 64)
		return err == nil && weight > 0
	}
	return false
}

func (cm *CompressionMiddleware) shouldCompress(contentType string) bool {
	for _, ct := range cm.config.ContentTypes {
		if strings.Contains(contentType, ct) {
			return true
		}
	}
	return false
}

// bufferedWriter holds the body until the handler chain returns. Status and
// headers still go to the wrapped writer, which defers sending them.
type bufferedWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

func (w *bufferedWriter) Written() bool {
	return w.buf.Len() > 0 || w.ResponseWriter.Written()
}

func (w *bufferedWriter) Size() int {
	if w.buf.Len() > 0 {
		return w.buf.Len()
	}
	return w.ResponseWriter.Size()
}

// CompressionStats tracks compression statistics
type CompressionStats struct {
	totalResponses      atomic.Int64
	compressedResponses atomic.Int64
	originalBytes       atomic.Int64
	compressedBytes     atomic.Int64
}

// CompressionSnapshot is a point-in-time copy of CompressionStats.
type CompressionSnapshot struct {
	TotalResponses      int64   `json:"total_responses"`
	CompressedResponses int64   `json:"compressed_responses"`
	OriginalBytes       int64   `json:"original_bytes"`
	CompressedBytes     int64   `json:"compressed_bytes"`
	Ratio               float64 `json:"ratio"`
}

func (cs *CompressionStats) record(original, compressed int, didCompress bool) {
	cs.totalResponses.Add(1)
	if didCompress {
		cs.compressedResponses.Add(1)
		cs.originalBytes.Add(int64(original))
		cs.compressedBytes.Add(int64(compressed))
	}
}

func (cs *CompressionStats) snapshot() CompressionSnapshot {
	s := CompressionSnapshot{
		TotalResponses:      cs.totalResponses.Load(),
		CompressedResponses: cs.compressedResponses.Load(),
		OriginalBytes:       cs.originalBytes.Load(),
		CompressedBytes:     cs.compressedBytes.Load(),
	}
	if s.OriginalBytes > 0 {
		s.Ratio = float64(s.CompressedBytes) / float64(s.OriginalBytes)
	}
	return s
}
