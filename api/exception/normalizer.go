// Package exception turns errors raised by API handlers into failure envelopes.
//
// Handlers report errors with c.Error, by returning them through Handle, or by
// panicking. The Normalizer middleware answers the client and decides whether
// the error travels further down the pipeline:
//
//   - a *errors.DomainError is an expected failure. The client gets its code,
//     message and body, and the error is removed from c.Errors.
//   - anything else is a fault. The client gets a generic 500 and the error
//     stays in c.Errors so the access log and fault reporter see it.
package exception

import (
	"net/http"
	"runtime/debug"

	"github.com/Aidin1998/apishape/api/responses"
	"github.com/Aidin1998/apishape/common/apiutil"
	"github.com/Aidin1998/apishape/common/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultFallbackMessage is sent to clients for unclassified errors
const DefaultFallbackMessage = "Something broke!"

// Normalizer classifies handler errors and writes the failure envelope
type Normalizer struct {
	logger          *zap.Logger
	development     bool
	fallbackMessage string
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithDevelopment enables diagnostic logging of unclassified errors with their
// stack trace. It never changes what the client receives.
func WithDevelopment(development bool) Option {
	return func(n *Normalizer) {
		n.development = development
	}
}

// WithFallbackMessage overrides the message sent for unclassified errors
func WithFallbackMessage(message string) Option {
	return func(n *Normalizer) {
		if message != "" {
			n.fallbackMessage = message
		}
	}
}

// New creates a Normalizer
func New(logger *zap.Logger, opts ...Option) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Normalizer{
		logger:          logger,
		fallbackMessage: DefaultFallbackMessage,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Middleware creates the gin middleware. It must be installed after
// responses.Shape and before the route handlers.
func (n *Normalizer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		stack := n.next(c)

		if len(c.Errors) == 0 {
			return
		}
		n.handle(c, c.Errors.Last(), stack)
	}
}

// next runs the rest of the chain and turns a panic into a recorded error.
// The returned stack is only captured for panics.
func (n *Normalizer) next(c *gin.Context) (stack []byte) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if rec == http.ErrAbortHandler {
			panic(rec)
		}
		stack = debug.Stack()
		c.Abort()
		_ = c.Error(errors.FromPanic(rec))
	}()
	c.Next()
	return nil
}

func (n *Normalizer) handle(c *gin.Context, ginErr *gin.Error, stack []byte) {
	classified := errors.Classify(ginErr.Err)
	responder := responses.From(c)

	status := classified.Status(http.StatusInternalServerError)

	if classified.IsDomain() {
		// Handled: later stages must not treat it as a fault. Errors recorded
		// while writing the envelope stay.
		dropError(c, ginErr)
		if !responder.Written() {
			responder.Failed(status, classified.Domain.Message, classified.Body())
		}
		return
	}

	if n.development {
		fields := []zap.Field{
			zap.Error(ginErr.Err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("trace_id", apiutil.GetTraceID(c)),
		}
		if stack != nil {
			fields = append(fields, zap.ByteString("stack", stack))
		} else {
			// only panics carry the stack of their origin
			fields = append(fields, zap.StackSkip("normalizer_stack", 2))
		}
		n.logger.Error("Unhandled error", fields...)
	}

	if !responder.Written() {
		responder.Failed(status, n.fallbackMessage, classified.Body())
	}
	ginErr.Type = gin.ErrorTypePrivate
}

func dropError(c *gin.Context, target *gin.Error) {
	kept := c.Errors[:0]
	for _, e := range c.Errors {
		if e != target {
			kept = append(kept, e)
		}
	}
	c.Errors = kept
}
