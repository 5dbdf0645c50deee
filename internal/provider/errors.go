package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Response is the part of an upstream HTTP response kept for error reporting.
type Response struct {
	StatusCode int
	Header     http.Header
	URL        string
	Body       []byte
}

// Host returns the hostname of the request URL.
func (r *Response) Host() string {
	if r == nil || r.URL == "" {
		return ""
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// JSON decodes the body as a JSON object, or returns nil.
func (r *Response) JSON() map[string]any {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(r.Body, &out); err != nil {
		return nil
	}
	return out
}

// FlatHeaders returns the first value of every header.
func (r *Response) FlatHeaders() map[string]string {
	if r == nil || len(r.Header) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Header))
	for k := range r.Header {
		out[k] = r.Header.Get(k)
	}
	return out
}

// ResponseError is returned by clients when the provider answered with a
// non-success status.
type ResponseError struct {
	Op       string
	Response *Response
	Err      error
}

func (e *ResponseError) Error() string {
	status := 0
	if e.Response != nil {
		status = e.Response.StatusCode
	}
	msg := fmt.Sprintf("%s: upstream returned status %d", e.Op, status)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// AsResponseError extracts a ResponseError from err's chain.
func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
