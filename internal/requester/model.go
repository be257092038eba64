package requester

import (
	"io"
	"net/http"
)

// Request describes a single outbound call
type Request struct {
	Method      string
	URL         string
	Body        io.Reader
	ContentType string
	Headers     map[string]string
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
	Headers    http.Header
}

// OK reports whether the status code is 2xx
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
