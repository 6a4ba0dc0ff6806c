package httpapi

import (
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"partshop/internal/auth"
	"partshop/internal/domain"
	"partshop/internal/logging"
	"partshop/internal/service"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
	ctxClaims       = "claims"
	maxRequestIDLen = 64
)

// requestID keeps a caller-supplied id or mints a ULID.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" || len(id) > maxRequestIDLen {
			id = ulid.Make().String()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// requestLogger puts a request-scoped zap logger on the context and logs completion
// with the level picked by status class.
func requestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("request_id", c.GetString(ctxRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		logger := base.With(fields...)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), logger))

		c.Next()

		status := c.Writer.Status()
		done := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int("bytes", c.Writer.Size()),
		}
		if claims, ok := claimsFrom(c); ok {
			done = append(done, zap.String("user_id", claims.ID))
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request completed", done...)
		case status >= http.StatusBadRequest:
			logger.Warn("request completed", done...)
		default:
			logger.Info("request completed", done...)
		}
	}
}

func recovery(fallback *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.FromContext(c.Request.Context(), fallback).Error("panic recovered",
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				abortJSON(c, http.StatusInternalServerError, serverErrorMessage)
			}
		}()
		c.Next()
	}
}

// cors allows any origin; the storefront and the admin panel live on other hosts.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		} else {
			h.Add("Vary", "Origin")
		}
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		h.Set("Access-Control-Expose-Headers", headerRequestID)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// authenticate requires a valid bearer token for an existing account and stores its claims.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.ExtractBearer(c.GetHeader("Authorization"))
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "No auth token, access denied")
			return
		}
		claims, err := s.svc.Users.Authenticate(c.Request.Context(), token)
		if errors.Is(err, service.ErrUnauthenticated) {
			logging.FromContext(c.Request.Context(), s.logger).Debug("token rejected", zap.Error(err))
			abortJSON(c, http.StatusUnauthorized, "Invalid or expired session")
			return
		}
		if err != nil {
			s.fail(c, err)
			return
		}
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// requireRoles must run after authenticate.
func requireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "No auth token, access denied")
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			abortJSON(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}

// claims for handlers mounted behind authenticate
func mustClaims(c *gin.Context) *auth.Claims {
	claims, _ := claimsFrom(c)
	if claims == nil {
		return &auth.Claims{}
	}
	return claims
}
