package apiutil

import (
	"github.com/Aidin1998/apishape/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FaultReporter is the error-handling stage that runs after the exception
// normalizer has answered the client. Every error still recorded on the
// context is an unhandled fault: it is counted and attached to the request
// span, if one is recording.
func FaultReporter() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		faults := c.Errors.ByType(gin.ErrorTypePrivate)
		if len(faults) == 0 {
			return
		}

		path := routePath(c)
		span := trace.SpanFromContext(c.Request.Context())
		for _, fault := range faults {
			metrics.UnhandledFaults.WithLabelValues(path, c.Request.Method).Inc()
			span.RecordError(fault.Err)
		}
		span.SetStatus(codes.Error, faults.Last().Error())
	}
}
