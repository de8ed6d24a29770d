package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// cachePrefix namespaces the response cache keys in redis.
const cachePrefix = "respcache"

// cacheWriter captures the response body while forwarding it to the
// client so a successful response can be stored after the handler
// runs.
type cacheWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// cacheKey builds a stable key from the request path and query.
func cacheKey(c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("%s:%x", cachePrefix, sum)
}

// ResponseCache caches successful GET responses in redis for ttl.
// Availability counts go stale for at most ttl, which is acceptable
// for browsing; the order transaction never reads through this
// cache. When rdb is nil the middleware is a no-op.
func ResponseCache(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	if rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		if cached, err := rdb.Get(c.Request.Context(), key).Bytes(); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		writer := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		if c.Writer.Status() == http.StatusOK && writer.buf.Len() > 0 {
			// Best effort; a write failure just means no cache entry.
			rdb.Set(c.Request.Context(), key, writer.buf.Bytes(), ttl)
		}
	}
}
