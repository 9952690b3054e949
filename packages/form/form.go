package form

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"github.com/abdul-hamid-achik/formpost/packages/mime"
)

// DefaultUserAgent is the value set by SetDefaultUserAgent.
const DefaultUserAgent = "Mozilla/5.0"

// ErrInvalidDestination is returned when a form is encoded or submitted
// without a usable absolute destination URL.
var ErrInvalidDestination = errors.New("form: invalid destination")

// FileOpener opens attachment paths for reading. *os.File satisfies fs.File,
// and so does fstest.MapFS, which makes it easy to swap the filesystem out.
type FileOpener interface {
	Open(name string) (fs.File, error)
}

type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// Form is a set of fields and files bound to a destination URL.
type Form struct {
	destination *url.URL
	destErr     error

	header Header
	fields pairs
	files  pairs

	forceMultipart bool

	registry *mime.Registry
	opener   FileOpener
	boundary func() string
	strict   bool
	escape   bool
}

// Option configures a Form.
type Option func(*Form)

// WithRegistry sets the registry used to pick attachment media types.
func WithRegistry(r *mime.Registry) Option {
	return func(f *Form) {
		f.registry = r
	}
}

// WithFS sets where attachment paths are opened from. The default is the
// local filesystem.
func WithFS(opener FileOpener) Option {
	return func(f *Form) {
		f.opener = opener
	}
}

// WithBoundary replaces the boundary generator. The generator must return
// strings accepted by ValidBoundary.
func WithBoundary(gen func() string) Option {
	return func(f *Form) {
		f.boundary = gen
	}
}

// WithStrictFiles makes encoding fail when an attachment cannot be read,
// instead of leaving it out of the body.
func WithStrictFiles() Option {
	return func(f *Form) {
		f.strict = true
	}
}

// WithEscaping percent-encodes names and values in urlencoded bodies. Without
// it they are written as given.
func WithEscaping() Option {
	return func(f *Form) {
		f.escape = true
	}
}

// New returns a form that submits to destination. The Referer header is
// seeded with the destination host. A destination that is not an absolute
// URL does not fail here; Encode and Submit report ErrInvalidDestination.
func New(destination string, opts ...Option) *Form {
	f := &Form{
		registry: mime.Default(),
		opener:   osFS{},
		boundary: Boundary,
	}

	u, err := url.Parse(destination)
	switch {
	case err != nil:
		f.destErr = fmt.Errorf("%w: %v", ErrInvalidDestination, err)
	case !u.IsAbs() || u.Host == "":
		f.destErr = fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidDestination, destination)
	}
	if err == nil {
		f.destination = u
		if host := u.Hostname(); host != "" {
			f.SetReferer(host)
		}
	}

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Destination returns the URL the form submits to, or nil when the
// destination could not be parsed.
func (f *Form) Destination() *url.URL {
	if f.destination == nil {
		return nil
	}
	u := *f.destination
	return &u
}

// AddField sets the value of the field called name.
func (f *Form) AddField(name, value string) {
	f.fields.set(name, value)
}

// AddFields adds names[i]=values[i] for every index both slices share.
// Entries past the end of the shorter slice are ignored.
func (f *Form) AddFields(names, values []string) {
	f.fields.setAll(names, values)
}

// AddFile attaches the file at path under name. The path is not touched
// until the form is encoded.
func (f *Form) AddFile(name, path string) {
	f.files.set(name, path)
}

// AddFiles attaches paths[i] under names[i] for every index both slices
// share.
func (f *Form) AddFiles(names, paths []string) {
	f.files.setAll(names, paths)
}

// Field returns the value of the field called name.
func (f *Form) Field(name string) (string, bool) {
	return f.fields.get(name)
}

// File returns the path attached under name.
func (f *Form) File(name string) (string, bool) {
	return f.files.get(name)
}

// Fields returns the fields in insertion order.
func (f *Form) Fields() []Pair {
	return f.fields.list()
}

// Files returns the attachments in insertion order.
func (f *Form) Files() []Pair {
	return f.files.list()
}

// ClearFields removes every field. Files, headers and the multipart flag are
// left alone.
func (f *Form) ClearFields() {
	f.fields.clear()
}

// ClearFiles removes every attachment.
func (f *Form) ClearFiles() {
	f.files.clear()
}

// Clear removes every field and every attachment.
func (f *Form) Clear() {
	f.ClearFiles()
	f.ClearFields()
}

// SetHeader sets a raw request header.
func (f *Form) SetHeader(name, value string) {
	f.header.Set(name, value)
}

// SetReferer sets the Referer header.
func (f *Form) SetReferer(referer string) {
	f.header.Set("Referer", referer)
}

// SetDefaultUserAgent sets the User-Agent header to DefaultUserAgent.
func (f *Form) SetDefaultUserAgent() {
	f.header.Set("User-Agent", DefaultUserAgent)
}

// Header returns a copy of the headers set on the form.
func (f *Form) Header() Header {
	return f.header.Clone()
}

// ForceMultipart makes the form encode as multipart/form-data even when it
// has no attachments.
func (f *Form) ForceMultipart() {
	f.forceMultipart = true
}

// RemoveMultipart undoes ForceMultipart. It has no effect while the form has
// attachments.
func (f *Form) RemoveMultipart() {
	f.forceMultipart = false
}

// Multipart reports whether the form would currently encode as
// multipart/form-data.
func (f *Form) Multipart() bool {
	return f.files.len() > 0 || f.forceMultipart
}

// Clone returns a deep copy of f that can be used independently.
func (f *Form) Clone() *Form {
	c := *f
	c.destination = f.Destination()
	c.header = f.header.Clone()
	c.fields = f.fields.clone()
	c.files = f.files.clone()
	return &c
}
