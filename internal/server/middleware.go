package server

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	CacheHeader     = "X-Cache"
)

const requestIDKey = "request_id"

// requestID keeps a valid incoming ULID request id or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := ulid.ParseStrict(id); err != nil {
			id = ulid.Make().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("cache", c.Writer.Header().Get(CacheHeader)),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// limitBody reads the request body up to limit bytes and replaces it with
// an in-memory copy. Larger bodies are rejected with 413.
func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, limit))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		c.Set(bodyKey, body)
		c.Next()
	}
}

const bodyKey = "body"

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func cacheKey(c *gin.Context) string {
	h := sha256.New()
	h.Write([]byte(c.Request.Method))
	h.Write([]byte{0})
	h.Write([]byte(c.Request.URL.Path))
	h.Write([]byte{0})
	h.Write([]byte(c.Request.URL.RawQuery))
	h.Write([]byte{0})
	if body, ok := c.Get(bodyKey); ok {
		h.Write(body.([]byte))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// cacheResponses serves repeated requests from store. Only 200 responses
// are stored. A nil store disables caching.
func cacheResponses(store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.Next()
			return
		}
		key := cacheKey(c)
		if v, ok := store.Get(key); ok {
			res := v.(cachedResponse)
			c.Header(CacheHeader, "HIT")
			c.Data(res.status, res.contentType, res.body)
			c.Abort()
			return
		}

		c.Header(CacheHeader, "MISS")
		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() == http.StatusOK {
			store.SetDefault(key, cachedResponse{
				status:      rec.Status(),
				contentType: rec.Header().Get("Content-Type"),
				body:        append([]byte(nil), rec.buf.Bytes()...),
			})
		}
	}
}
