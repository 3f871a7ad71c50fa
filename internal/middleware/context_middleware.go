package middleware

import (
	"go-vacation/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ContextLogger attaches a logger carrying request_id and company_id to the
// request context, plus trace_id when the request is being traced. Run it
// after RequestID and Tenant.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		if rid == "" {
			rid = uuid.New().String()
			c.Header(RequestIDHeader, rid)
		}
		companyID := contextutil.GetCompanyID(c.Request.Context())

		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("company_id", companyID),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		reqLogger := logger.With(fields...)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
