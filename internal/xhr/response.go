package xhr

import (
	"strings"

	"github.com/bytedance/sonic"
)

// Format identifies which decoding applied to a response body
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Response is the normalized outcome of one request. It is immutable once built.
type Response struct {
	request    Handle
	status     int
	statusText string
	data       any
	format     Format
}

func newResponse(h Handle, status int, statusText string, data any, format Format) *Response {
	return &Response{
		request:    h,
		status:     status,
		statusText: statusText,
		data:       data,
		format:     format,
	}
}

// Request returns the underlying handle, for introspection only
func (r *Response) Request() Handle { return r.request }

// Status returns the transport status code
func (r *Response) Status() int { return r.status }

// StatusText returns the status line reason phrase
func (r *Response) StatusText() string { return r.statusText }

// Data returns the decoded body: *xmlquery.Node, a JSON value, or a string
func (r *Response) Data() any { return r.data }

// Format returns which decoding produced Data
func (r *Response) Format() Format { return r.format }

// IsSuccess returns true if the status code is 2xx
func (r *Response) IsSuccess() bool {
	return r.status >= 200 && r.status < 300
}

// IsClientError returns true if the status code is 4xx
func (r *Response) IsClientError() bool {
	return r.status >= 400 && r.status < 500
}

// IsServerError returns true if the status code is 5xx
func (r *Response) IsServerError() bool {
	return r.status >= 500 && r.status < 600
}

// decodeResponse sniffs the body of a finished handle: xml, then json, then text
func decodeResponse(h Handle) (any, Format) {
	if doc := h.ResponseXML(); doc != nil {
		return doc, FormatXML
	}

	text := h.ResponseText()
	if v, ok := parseJSON(text); ok {
		return v, FormatJSON
	}
	return text, FormatText
}

// parseJSON accepts any JSON value, null included; blank input is not JSON
func parseJSON(text string) (any, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	var v any
	if err := sonic.ConfigStd.UnmarshalFromString(text, &v); err != nil {
		return nil, false
	}
	return v, true
}
