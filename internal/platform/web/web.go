package web

import (
	"crypto/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"peershare-backend/internal/platform/apperr"
	"peershare-backend/internal/platform/metrics"
)

// HeaderUserID carries the caller identity between gateway and server.
const HeaderUserID = "X-Sharer-User-Id"

const headerRequestID = "X-Request-Id"

// RequestID assigns a ULID to requests arriving without one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			entropy := ulid.Monotonic(rand.Reader, 0)
			id = ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
		}
		c.Set("request_id", id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// RequestLogger writes one structured line per finished request and feeds
// the Prometheus collectors.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.ObserveHTTP(c.Request.Method, route, status, elapsed)

		evt := logger.Info()
		if status >= http.StatusInternalServerError {
			evt = logger.Error()
		}
		evt.
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("http request")
	}
}

// CallerID reads the acting user id forwarded by the gateway.
func CallerID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(HeaderUserID)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type errorBody struct {
	Error string `json:"error"`
}

// Fail translates a service error into the response body and status.
func Fail(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), errorBody{Error: err.Error()})
}

// FailMsg writes an explicit status and message, used for binding errors.
func FailMsg(c *gin.Context, status int, msg string) {
	c.JSON(status, errorBody{Error: msg})
}

// MissingCaller is the shared response for an absent or malformed identity
// header.
func MissingCaller(c *gin.Context) {
	if c.GetHeader(HeaderUserID) != "" {
		FailMsg(c, http.StatusBadRequest, HeaderUserID+" header must be a positive integer")
		return
	}
	FailMsg(c, http.StatusBadRequest, HeaderUserID+" header is required")
}
