package form

import (
	"context"
	"net/url"
)

// Request describes where and how an encoded form is sent.
type Request struct {
	URL    *url.URL
	Header Header
}

// Submitter sends an encoded form body and returns a handle for the request,
// typically the response.
type Submitter[R any] interface {
	Submit(ctx context.Context, req *Request, body []byte) (R, error)
}

// SubmitterFunc adapts a function to a Submitter.
type SubmitterFunc[R any] func(ctx context.Context, req *Request, body []byte) (R, error)

// Submit calls fn(ctx, req, body).
func (fn SubmitterFunc[R]) Submit(ctx context.Context, req *Request, body []byte) (R, error) {
	return fn(ctx, req, body)
}

// Submit encodes f and passes it to s, returning whatever s returns. It
// returns ErrInvalidDestination without calling s when f has no usable
// destination.
func Submit[R any](ctx context.Context, f *Form, s Submitter[R]) (R, error) {
	var zero R
	p, err := f.Encode()
	if err != nil {
		return zero, err
	}
	return s.Submit(ctx, p.Request(), p.Body)
}
