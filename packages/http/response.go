package http

import (
	"mime"
	"strings"
	"time"
)

// Response is a fully read HTTP response to a form submission.
type Response struct {
	// URL is the final URL after redirects.
	URL        string
	StatusCode int
	Status     string
	// Headers holds the first value of each response header.
	Headers  map[string]string
	Body     []byte
	Duration time.Duration
}

func (r *Response) BodyString() string {
	return string(r.Body)
}

// Header looks up a response header case-insensitively.
func (r *Response) Header(key string) string {
	if v, ok := r.Headers[key]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// IsJSON reports whether the media type is application/json or a +json suffix type.
func (r *Response) IsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.Header("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func (r *Response) statusClass() int {
	return r.StatusCode / 100
}

func (r *Response) IsSuccess() bool     { return r.statusClass() == 2 }
func (r *Response) IsRedirect() bool    { return r.statusClass() == 3 }
func (r *Response) IsClientError() bool { return r.statusClass() == 4 }
func (r *Response) IsServerError() bool { return r.statusClass() >= 5 }

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
