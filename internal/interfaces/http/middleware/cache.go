package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tourbook/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// CacheHeader reports HIT or MISS for cacheable responses
const CacheHeader = "X-Cache"

// TagsFunc returns the cache tags of a request
type TagsFunc func(c *gin.Context) []string

// StaticTags returns the same tags for every request
func StaticTags(tags ...string) TagsFunc {
	return func(*gin.Context) []string { return tags }
}

// ParamTags returns the base tags plus prefix+value of a route param
func ParamTags(param, prefix string, base ...string) TagsFunc {
	return func(c *gin.Context) []string {
		tags := append([]string{}, base...)
		if v := c.Param(param); v != "" {
			tags = append(tags, prefix+v)
		}
		return tags
	}
}

type cachedResponse struct {
	Status      int    `msgpack:"s"`
	ContentType string `msgpack:"c"`
	Body        []byte `msgpack:"b"`
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheResponse serves anonymous GET requests from the tag cache and stores
// successful responses under the tags of the route. Cache errors are logged
// and the request is served normally.
func CacheResponse(store cache.TagCache, ttl time.Duration, tags TagsFunc, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || c.GetHeader(AuthHeaderKey) != "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "http:" + c.Request.URL.RequestURI()

		var hit cachedResponse
		found, err := store.Get(ctx, key, &hit)
		if err != nil {
			log.Warn("Response cache read failed", zap.String("key", key), zap.Error(err))
		}
		if found {
			c.Header(CacheHeader, "HIT")
			c.Data(hit.Status, hit.ContentType, hit.Body)
			c.Abort()
			return
		}

		c.Header(CacheHeader, "MISS")
		writer := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		if writer.Status() != http.StatusOK {
			return
		}
		entry := cachedResponse{
			Status:      writer.Status(),
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
		}
		if err := store.Set(ctx, key, entry, ttl, tags(c)...); err != nil {
			log.Warn("Response cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}
