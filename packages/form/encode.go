package form

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// ContentTypeURLEncoded is the media type of bodies without attachments.
	ContentTypeURLEncoded = "application/x-www-form-urlencoded"
	// ContentTypeMultipart is the media type of bodies with attachments.
	ContentTypeMultipart = "multipart/form-data"
)

// ErrAttachment wraps every attachment failure reported by a strict form.
var ErrAttachment = errors.New("form: attachment unreadable")

// SkippedFile is an attachment that was left out of a multipart body.
type SkippedFile struct {
	Name string
	Path string
	Err  error
}

// Payload is an encoded form, ready to hand to a Submitter.
type Payload struct {
	URL    *url.URL
	Header Header
	Body   []byte

	// Multipart is true when Body is multipart/form-data, in which case
	// Boundary holds the delimiter token and Parts the number of parts.
	Multipart bool
	Boundary  string
	Parts     int

	// Skipped lists attachments that could not be read.
	Skipped []SkippedFile
}

// Request returns the descriptor passed to a Submitter.
func (p *Payload) Request() *Request {
	return &Request{URL: p.URL, Header: p.Header.Clone()}
}

// Encode serializes the form. Attachments are read from disk on every call.
// The headers stored on the form are not modified; the payload carries its
// own copy with Content-Type (multipart only) and Content-Length set.
func (f *Form) Encode() (*Payload, error) {
	if f.destErr != nil {
		return nil, f.destErr
	}

	p := &Payload{
		URL:    f.Destination(),
		Header: f.header.Clone(),
	}

	var buf bytes.Buffer
	if f.Multipart() {
		if err := f.encodeMultipart(&buf, p); err != nil {
			return nil, err
		}
		p.Header.Set("Content-Type", contentTypeFor(p.Boundary))
	} else {
		f.encodeURLEncoded(&buf)
	}

	p.Body = buf.Bytes()
	p.Header.Set("Content-Length", strconv.Itoa(len(p.Body)))
	return p, nil
}

func (f *Form) encodeMultipart(buf *bytes.Buffer, p *Payload) error {
	boundary := f.boundary()
	if !ValidBoundary(boundary) {
		return fmt.Errorf("form: invalid boundary %q", boundary)
	}
	p.Multipart = true
	p.Boundary = boundary

	for _, file := range f.files.items {
		data, err := f.readFile(file.Value)
		if err != nil {
			p.Skipped = append(p.Skipped, SkippedFile{Name: file.Name, Path: file.Value, Err: err})
			continue
		}

		typ := f.registry.TypeByExtension(extension(file.Value))
		buf.WriteString("--" + boundary + "\r\n")
		buf.WriteString(`Content-Disposition: form-data; name="` + file.Name + `"; filename="` + filepath.Base(file.Value) + "\";\r\n")
		buf.WriteString("Content-Type: " + typ + "\r\n\r\n")
		buf.Write(data)
		buf.WriteString("\r\n")
		p.Parts++
	}

	if f.strict && len(p.Skipped) > 0 {
		errs := make([]error, len(p.Skipped))
		for i, s := range p.Skipped {
			errs[i] = fmt.Errorf("%w: %q: %w", ErrAttachment, s.Name, s.Err)
		}
		return errors.Join(errs...)
	}

	for _, field := range f.fields.items {
		buf.WriteString("--" + boundary + "\r\n")
		buf.WriteString(`Content-Disposition: form-data; name="` + field.Name + "\"\r\n\r\n")
		buf.WriteString(field.Value)
		buf.WriteString("\r\n")
		p.Parts++
	}

	buf.WriteString("--" + boundary + "--\r\n")
	return nil
}

func (f *Form) encodeURLEncoded(buf *bytes.Buffer) {
	for i, field := range f.fields.items {
		if i > 0 {
			buf.WriteByte('&')
		}
		name, value := field.Name, field.Value
		if f.escape {
			name, value = url.QueryEscape(name), url.QueryEscape(value)
		}
		buf.WriteString(name)
		buf.WriteByte('=')
		buf.WriteString(value)
	}
}

func (f *Form) readFile(path string) ([]byte, error) {
	file, err := f.opener.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// extension returns the text after the last dot of the file name, as is.
func extension(path string) string {
	base := filepath.Base(path)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		return base[i+1:]
	}
	return ""
}
