package http

import (
	"context"
	"net/http"
	"net/url"
)

// Request represents an artifact download
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
}

// NewRequest creates a GET request for the given URL
func NewRequest(rawURL string) *Request {
	return &Request{
		Method:  http.MethodGet,
		URL:     rawURL,
		Headers: make(map[string]string),
	}
}

// WithHeader adds a header to the request
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// Build constructs an http.Request bound to ctx
func (r *Request) Build(ctx context.Context) (*http.Request, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u.String(), nil)
	if err != nil {
		return nil, err
	}

	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}
