package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tazhibayda/task-manager/internal/domain"
	applog "github.com/tazhibayda/task-manager/internal/log"
	"github.com/tazhibayda/task-manager/internal/metrics"
	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/ext"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

const (
	HeaderRequestID = "X-Request-ID"

	authUserKey  = "auth.user"
	authTokenKey = "auth.token"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(applog.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// Trace opens one Datadog span per request. With no tracer started the global
// no-op tracer makes this free.
func Trace(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		span, ctx := tracer.StartSpanFromContext(c.Request.Context(), "http.request",
			tracer.ServiceName(service),
			tracer.ResourceName(c.Request.Method+" "+route),
			tracer.SpanType(ext.SpanTypeWeb),
			tracer.Tag(ext.HTTPMethod, c.Request.Method),
			tracer.Tag(ext.HTTPURL, c.Request.URL.Path),
		)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		span.SetTag(ext.HTTPCode, strconv.Itoa(c.Writer.Status()))
		span.Finish()
	}
}

func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l := applog.WithDD(c.Request.Context(), base)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", ClientIP(c)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			l.Warn("request", fields...)
			return
		}
		l.Info("request", fields...)
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.InFlight.Inc()
		start := time.Now()
		c.Next()
		metrics.InFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// TokenVerifier resolves a bearer token to the user it was issued to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.User, string, error)
}

// Authenticate is the gate in front of every user- and task-scoped route.
// A request either leaves it with the user and token on the context or is
// answered with 401 and goes no further.
func Authenticate(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			metrics.AuthFailures.WithLabelValues("missing").Inc()
			abort(c, http.StatusUnauthorized, CodeUnauthorized, "Please authenticate", nil)
			return
		}
		u, tok, err := v.Verify(c.Request.Context(), tok)
		if err != nil {
			applog.WithDD(c.Request.Context(), applog.L()).Debug("authentication rejected", zap.Error(err))
			abort(c, http.StatusUnauthorized, CodeUnauthorized, "Please authenticate", nil)
			return
		}
		c.Set(authUserKey, u)
		c.Set(authTokenKey, tok)
		c.Next()
	}
}

func bearer(h string) (string, bool) {
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

// CurrentUser is only valid behind Authenticate.
func CurrentUser(c *gin.Context) *domain.User {
	return c.MustGet(authUserKey).(*domain.User)
}

func CurrentToken(c *gin.Context) string {
	return c.GetString(authTokenKey)
}
