package errors

import (
	"fmt"
)

// Kind tells whether an error was raised on purpose by application code
type Kind int

const (
	// KindUnclassified is any error that is not a DomainError
	KindUnclassified Kind = iota
	// KindDomain is an error with a *DomainError in its chain
	KindDomain
)

// BodyCarrier is implemented by errors that are not domain errors but still
// expose a client-safe payload for the failure envelope.
type BodyCarrier interface {
	ErrorBody() any
}

// Classified is the result of classifying an error. Exactly one of Domain and
// Err is the relevant value, selected by Kind.
type Classified struct {
	Kind   Kind
	Domain *DomainError
	Err    error
}

// Classify inspects err and reports whether it is a domain error. Domain
// errors wrapped with fmt.Errorf("...: %w") are still recognized.
func Classify(err error) Classified {
	if de, ok := AsDomain(err); ok {
		return Classified{Kind: KindDomain, Domain: de, Err: err}
	}
	return Classified{Kind: KindUnclassified, Err: err}
}

// IsDomain reports whether the error was classified as a domain error
func (c Classified) IsDomain() bool {
	return c.Kind == KindDomain
}

// Status returns the HTTP status code to answer with. Unclassified errors and
// domain errors whose code is outside 400-599 get fallback.
func (c Classified) Status(fallback int) int {
	if c.IsDomain() && c.Domain.Code >= 400 && c.Domain.Code <= 599 {
		return c.Domain.Code
	}
	return fallback
}

// Body returns the payload for the envelope's "error" value, or nil.
func (c Classified) Body() any {
	if c.IsDomain() {
		return c.Domain.Body
	}
	var carrier BodyCarrier
	if c.Err != nil && As(c.Err, &carrier) {
		return carrier.ErrorBody()
	}
	return nil
}

// AsDomain returns the first *DomainError in err's chain
func AsDomain(err error) (*DomainError, bool) {
	if err == nil {
		return nil, false
	}
	var de *DomainError
	if As(err, &de) && de != nil {
		return de, true
	}
	return nil, false
}

// FromPanic converts a recovered panic value into an error. Errors are
// returned as is so a panicking *DomainError stays classified.
func FromPanic(v any) error {
	switch e := v.(type) {
	case nil:
		return nil
	case error:
		return e
	case string:
		return &PanicError{Value: v, msg: e}
	default:
		return &PanicError{Value: v, msg: fmt.Sprint(e)}
	}
}

// PanicError wraps a recovered panic value that was not an error
type PanicError struct {
	Value any
	msg   string
}

func (e *PanicError) Error() string {
	return "panic: " + e.msg
}
