package responses

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const responderKey = "apishape.responder"

// Responder writes envelopes for a single request. A new Responder is bound to
// each request by Shape; it must not be shared across requests.
//
// Calling more than one write method on the same request is not supported:
// gin appends the second body to the first. The Responder logs a warning when
// that happens but still writes.
type Responder struct {
	c      *gin.Context
	logger *zap.Logger
}

// Shape returns a middleware that binds a Responder to every request
func Shape(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Set(responderKey, &Responder{c: c, logger: logger})
		c.Next()
	}
}

// From returns the Responder bound to c. If Shape was not installed a
// Responder without logging is created and bound on the fly.
func From(c *gin.Context) *Responder {
	if v, ok := c.Get(responderKey); ok {
		if r, ok := v.(*Responder); ok {
			return r
		}
	}
	r := &Responder{c: c, logger: zap.NewNop()}
	c.Set(responderKey, r)
	return r
}

// OK - 200, successful response with a JSON body
func (r *Responder) OK(data any, opts ...Option) {
	r.write(NewOK(data, opts...))
}

// Created - 201, used for created resources
func (r *Responder) Created(data any, opts ...Option) {
	r.write(NewCreated(data, opts...))
}

// Found - 200, like OK
func (r *Responder) Found(data any, opts ...Option) {
	r.write(NewFound(data, opts...))
}

// Updated - 200, like OK
func (r *Responder) Updated(data any, opts ...Option) {
	r.write(NewUpdated(data, opts...))
}

// Destroyed - 200, response after a resource has been removed
func (r *Responder) Destroyed(opts ...Option) {
	r.write(NewDestroyed(opts...))
}

// Failed - 4xx/5xx, used when a request has failed. It neither aborts nor
// continues the handler chain. If err cannot be encoded the envelope is sent
// with a null error and the encoding error stays in c.Errors.
func (r *Responder) Failed(status int, message string, err any) {
	r.write(NewFailed(status, message, err))
}

// Written reports whether a response body was already sent
func (r *Responder) Written() bool {
	return r.c.Writer.Written()
}

func (r *Responder) write(resp Response) {
	if r.Written() {
		r.logger.Warn("Response already written, writing again",
			zap.String("path", r.c.FullPath()),
			zap.Int("previous_status", r.c.Writer.Status()),
			zap.Int("status", resp.Status))
	}
	err := Write(r.c, resp)
	if err == nil {
		return
	}
	failure, ok := resp.Body.(FailureEnvelope)
	if !ok || failure.Error == nil {
		return
	}
	r.logger.Warn("Failure payload could not be encoded, sending it as null",
		zap.String("path", r.c.FullPath()),
		zap.Int("status", resp.Status),
		zap.Error(err))
	failure.Error = nil
	_ = Write(r.c, Response{Status: resp.Status, Body: failure})
}
