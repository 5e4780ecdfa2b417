package responses

import (
	"net/http"
	"strconv"

	"github.com/Aidin1998/apishape/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// SuccessEnvelope is the body of a successful response
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Links   []Link `json:"links,omitempty"`
	Data    any    `json:"data"`
}

// FailureEnvelope is the body of a failed response. Error is always encoded,
// as null when no payload was given.
type FailureEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   any    `json:"error"`
}

// Link references a resource related to the response data. It is passed
// through to the client unmodified.
type Link struct {
	Rel    string `json:"rel"`
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

// Response is a status code and envelope ready to be written
type Response struct {
	Status int
	Body   any
}

// Options holds the optional parts of a success envelope
type Options struct {
	Message string
	Links   []Link
}

// Option configures a success envelope
type Option func(*Options)

// WithMessage attaches a human-readable message. An empty message is ignored.
func WithMessage(message string) Option {
	return func(o *Options) {
		if message != "" {
			o.Message = message
		}
	}
}

// WithLinks attaches related-resource references. Links accumulate across
// multiple WithLinks options.
func WithLinks(links ...Link) Option {
	return func(o *Options) {
		o.Links = append(o.Links, links...)
	}
}

// NewOK builds a 200 response
func NewOK(data any, opts ...Option) Response {
	return Response{Status: http.StatusOK, Body: BodySuccessful(data, opts...)}
}

// NewCreated builds a 201 response for a created resource
func NewCreated(data any, opts ...Option) Response {
	return Response{Status: http.StatusCreated, Body: BodySuccessful(data, opts...)}
}

// NewFound builds the response for a retrieved resource, same as NewOK
func NewFound(data any, opts ...Option) Response {
	return NewOK(data, opts...)
}

// NewUpdated builds the response for a modified resource, same as NewOK
func NewUpdated(data any, opts ...Option) Response {
	return NewOK(data, opts...)
}

// NewDestroyed builds the response for a removed resource. Options are
// accepted for signature symmetry but are not applied: the body is always
// {"success": true, "data": null}.
func NewDestroyed(opts ...Option) Response {
	return Response{Status: http.StatusOK, Body: BodySuccessful(nil)}
}

// NewFailed builds a failure response with a caller-chosen status code
func NewFailed(status int, message string, err any) Response {
	return Response{Status: status, Body: BodyFailed(message, err)}
}

// BodySuccessful builds a success envelope
func BodySuccessful(data any, opts ...Option) SuccessEnvelope {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	env := SuccessEnvelope{Success: true, Message: o.Message, Data: data}
	if len(o.Links) > 0 {
		env.Links = o.Links
	}
	return env
}

// BodyFailed builds a failure envelope
func BodyFailed(message string, err any) FailureEnvelope {
	return FailureEnvelope{Success: false, Message: message, Error: err}
}

// Write sends r as JSON on c. When the body cannot be encoded nothing is
// sent; gin records the encoding error in c.Errors and it is returned.
func Write(c *gin.Context, r Response) error {
	before := len(c.Errors)
	c.JSON(r.Status, r.Body)
	if len(c.Errors) > before && !c.Writer.Written() {
		return c.Errors.Last().Err
	}
	metrics.ResponsesTotal.WithLabelValues(strconv.Itoa(r.Status), outcome(r.Body)).Inc()
	return nil
}

func outcome(body any) string {
	switch body.(type) {
	case SuccessEnvelope, *SuccessEnvelope:
		return "success"
	case FailureEnvelope, *FailureEnvelope:
		return "failure"
	default:
		return "other"
	}
}
