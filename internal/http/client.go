// Package http downloads the remote scripts and templates a target refers to.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

const defaultUserAgent = "covergen/0.1"

// Client represents an HTTP client with customizable options
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	maxBody    int64
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new HTTP client with the given options
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: map[string]string{
			"User-Agent": defaultUserAgent,
		},
		maxBody: 32 << 20,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithTimeout sets the timeout for the client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHeader adds a header sent with every request
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return WithHeader("User-Agent", ua)
}

// WithHTTPClient replaces the underlying http.Client. The configured
// timeout is kept unless hc sets its own.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc.Timeout == 0 {
			hc.Timeout = c.httpClient.Timeout
		}
		c.httpClient = hc
	}
}

// WithMaxBodySize limits how many bytes of a response body are read
func WithMaxBodySize(n int64) ClientOption {
	return func(c *Client) {
		c.maxBody = n
	}
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Get downloads url. Non-2xx responses are returned together with a
// *StatusError.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, NewRequest(url))
}

// Do executes a request and reads the whole body
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := req.Build(ctx)
	if err != nil {
		return nil, err
	}

	for key, value := range c.headers {
		if httpReq.Header.Get(key) == "" {
			httpReq.Header.Set(key, value)
		}
	}

	start := time.Now()
	var firstByte time.Duration
	trace := &httptrace.ClientTrace{
		GotFirstResponseByte: func() {
			firstByte = time.Since(start)
		},
	}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), trace))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", req.URL, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("body of %s exceeds %d bytes", req.URL, c.maxBody)
	}

	resp := &Response{
		URL:             req.URL,
		StatusCode:      httpResp.StatusCode,
		Status:          httpResp.Status,
		Headers:         httpResp.Header,
		Body:            body,
		ResponseTime:    time.Since(start),
		TimeToFirstByte: firstByte,
	}

	if !resp.IsSuccess() {
		return resp, &StatusError{URL: req.URL, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp, nil
}
