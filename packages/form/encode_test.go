package form

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	stdmime "mime"
	"mime/multipart"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/formpost/packages/mime"
)

func fixedBoundary(b string) Option {
	return WithBoundary(func() string { return b })
}

func TestEncode_URLEncoded(t *testing.T) {
	f := New("http://example.com/login")
	f.AddField("user", "alice")
	f.AddField("pass", "secret")

	p, err := f.Encode()
	require.NoError(t, err)

	assert.Equal(t, "user=alice&pass=secret", string(p.Body))
	assert.Equal(t, "22", p.Header.Get("Content-Length"))
	_, hasContentType := p.Header.Lookup("Content-Type")
	assert.False(t, hasContentType)
	assert.False(t, p.Multipart)
	assert.Empty(t, p.Boundary)
	assert.Equal(t, "example.com", p.Header.Get("Referer"))
}

func TestEncode_URLEncodedNotEscaped(t *testing.T) {
	f := New("http://example.com")
	f.AddField("q", "a b&c")

	p, err := f.Encode()
	require.NoError(t, err)
	assert.Equal(t, "q=a b&c", string(p.Body))
}

func TestEncode_URLEncodedEscaping(t *testing.T) {
	f := New("http://example.com", WithEscaping())
	f.AddField("full name", "a b&c=d")
	f.AddField("mail", "x@y.z")

	p, err := f.Encode()
	require.NoError(t, err)
	assert.Equal(t, "full+name=a+b%26c%3Dd&mail=x%40y.z", string(p.Body))
}

func TestEncode_Empty(t *testing.T) {
	p, err := New("http://example.com").Encode()
	require.NoError(t, err)
	assert.Empty(t, p.Body)
	assert.Equal(t, "0", p.Header.Get("Content-Length"))
}

func TestEncode_MultipartWireFormat(t *testing.T) {
	fsys := fstest.MapFS{
		"upload.txt": {Data: []byte("xyz")},
	}
	f := New("http://example.com", WithFS(fsys), fixedBoundary("BOUNDARY"))
	f.AddField("caption", "hi")
	f.AddFile("upload", "upload.txt")

	p, err := f.Encode()
	require.NoError(t, err)

	expected := "--BOUNDARY\r\n" +
		"Content-Disposition: form-data; name=\"upload\"; filename=\"upload.txt\";\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"xyz\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Disposition: form-data; name=\"caption\"\r\n" +
		"\r\n" +
		"hi\r\n" +
		"--BOUNDARY--\r\n"

	assert.Equal(t, expected, string(p.Body))
	assert.Equal(t, "multipart/form-data; boundary=BOUNDARY", p.Header.Get("Content-Type"))
	assert.Equal(t, strconv.Itoa(len(expected)), p.Header.Get("Content-Length"))
	assert.True(t, p.Multipart)
	assert.Equal(t, 2, p.Parts)
	assert.Empty(t, p.Skipped)
}

func TestEncode_MultipartParsesWithRandomBoundary(t *testing.T) {
	fsys := fstest.MapFS{
		"dir/photo.jpg": {Data: []byte{0xff, 0xd8, 0xff}},
		"notes.txt":     {Data: []byte("xyz")},
	}
	f := New("http://example.com", WithFS(fsys))
	f.AddFile("photo", "dir/photo.jpg")
	f.AddFile("upload", "notes.txt")
	f.AddField("caption", "hi")

	p, err := f.Encode()
	require.NoError(t, err)
	require.Len(t, p.Boundary, BoundaryLength)
	assert.True(t, bytes.HasSuffix(p.Body, []byte("--"+p.Boundary+"--\r\n")))
	assert.Equal(t, strconv.Itoa(len(p.Body)), p.Header.Get("Content-Length"))

	mediaType, params, err := stdmime.ParseMediaType(p.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, ContentTypeMultipart, mediaType)
	assert.Equal(t, p.Boundary, params["boundary"])

	type part struct {
		name, filename, contentType, body string
	}
	var parts []part
	r := multipart.NewReader(bytes.NewReader(p.Body), params["boundary"])
	for {
		mp, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		body, err := io.ReadAll(mp)
		require.NoError(t, err)
		parts = append(parts, part{mp.FormName(), mp.FileName(), mp.Header.Get("Content-Type"), string(body)})
	}

	assert.Equal(t, []part{
		{"photo", "photo.jpg", "image/jpeg", "\xff\xd8\xff"},
		{"upload", "notes.txt", "text/plain", "xyz"},
		{"caption", "", "", "hi"},
	}, parts)
}

func TestEncode_ForcedMultipartWithoutFiles(t *testing.T) {
	f := New("http://example.com", fixedBoundary("b"))
	f.AddField("a", "1")
	f.ForceMultipart()

	p, err := f.Encode()
	require.NoError(t, err)
	assert.Equal(t, "--b\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n1\r\n--b--\r\n", string(p.Body))
	assert.Equal(t, 1, p.Parts)

	f.RemoveMultipart()
	p, err = f.Encode()
	require.NoError(t, err)
	assert.Equal(t, "a=1", string(p.Body))
	assert.Empty(t, p.Header.Get("Content-Type"))
}

func TestEncode_MIMEFallbackAndRegistry(t *testing.T) {
	fsys := fstest.MapFS{
		"data.unknownext123": {Data: []byte("1")},
		"IMAGE.JPG":          {Data: []byte("2")},
		"noext":              {Data: []byte("3")},
		"pic.webp":           {Data: []byte("4")},
	}

	tests := []struct {
		path     string
		registry *mime.Registry
		expected string
	}{
		{"data.unknownext123", nil, "text/plain"},
		{"IMAGE.JPG", nil, "text/plain"},
		{"noext", nil, "text/plain"},
		{"pic.webp", nil, "text/plain"},
		{"pic.webp", mime.New(map[string]string{"webp": "image/webp"}), "image/webp"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			opts := []Option{WithFS(fsys), fixedBoundary("b")}
			if tt.registry != nil {
				opts = append(opts, WithRegistry(tt.registry))
			}
			f := New("http://example.com", opts...)
			f.AddFile("file", tt.path)

			p, err := f.Encode()
			require.NoError(t, err)
			assert.Contains(t, string(p.Body), "Content-Type: "+tt.expected+"\r\n")
		})
	}
}

func TestEncode_SkipsUnreadableFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"ok.txt": {Data: []byte("ok")},
	}
	f := New("http://example.com", WithFS(fsys), fixedBoundary("b"))
	f.AddFile("missing", "missing.txt")
	f.AddFile("present", "ok.txt")
	f.AddField("a", "1")

	p, err := f.Encode()
	require.NoError(t, err)

	assert.Equal(t, 2, p.Parts)
	assert.NotContains(t, string(p.Body), `name="missing"`)
	assert.Contains(t, string(p.Body), `name="present"`)
	require.Len(t, p.Skipped, 1)
	assert.Equal(t, "missing", p.Skipped[0].Name)
	assert.Equal(t, "missing.txt", p.Skipped[0].Path)
	assert.ErrorIs(t, p.Skipped[0].Err, fs.ErrNotExist)
}

func TestEncode_AllFilesMissingStillMultipart(t *testing.T) {
	f := New("http://example.com", WithFS(fstest.MapFS{}), fixedBoundary("b"))
	f.AddFile("missing", "missing.txt")

	p, err := f.Encode()
	require.NoError(t, err)
	assert.True(t, p.Multipart)
	assert.Equal(t, "--b--\r\n", string(p.Body))
}

func TestEncode_StrictFiles(t *testing.T) {
	f := New("http://example.com", WithFS(fstest.MapFS{}), WithStrictFiles())
	f.AddFile("one", "one.txt")
	f.AddFile("two", "two.txt")

	p, err := f.Encode()
	assert.Nil(t, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAttachment)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), `"one"`)
	assert.Contains(t, err.Error(), `"two"`)
}

func TestEncode_RereadsFilesEachTime(t *testing.T) {
	fsys := fstest.MapFS{
		"a.txt": {Data: []byte("first")},
	}
	f := New("http://example.com", WithFS(fsys))
	f.AddFile("a", "a.txt")

	p, err := f.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(p.Body), "first")

	fsys["a.txt"] = &fstest.MapFile{Data: []byte("second")}
	p, err = f.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(p.Body), "second")
	assert.NotContains(t, string(p.Body), "first")
}

func TestEncode_DoesNotMutateStoredHeaders(t *testing.T) {
	f := New("http://example.com", WithFS(fstest.MapFS{"a.txt": {Data: []byte("a")}}))
	f.AddFile("a", "a.txt")
	f.AddField("x", "1")

	_, err := f.Encode()
	require.NoError(t, err)

	f.ClearFiles()
	p, err := f.Encode()
	require.NoError(t, err)

	assert.Empty(t, f.Header().Get("Content-Type"))
	assert.Empty(t, f.Header().Get("Content-Length"))
	assert.Empty(t, p.Header.Get("Content-Type"))
	assert.Equal(t, "x=1", string(p.Body))
}

func TestEncode_UserContentTypeKeptForURLEncoded(t *testing.T) {
	f := New("http://example.com", fixedBoundary("b"))
	f.SetHeader("Content-Type", ContentTypeURLEncoded+"; charset=utf-8")
	f.AddField("a", "1")

	p, err := f.Encode()
	require.NoError(t, err)
	assert.Equal(t, ContentTypeURLEncoded+"; charset=utf-8", p.Header.Get("Content-Type"))

	f.ForceMultipart()
	p, err = f.Encode()
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data; boundary=b", p.Header.Get("Content-Type"))
}

func TestEncode_InvalidBoundary(t *testing.T) {
	f := New("http://example.com", fixedBoundary("has space"))
	f.ForceMultipart()

	_, err := f.Encode()
	assert.Error(t, err)
}

func TestEncode_InvalidDestination(t *testing.T) {
	for _, dest := range []string{"", "not a url", "/relative/path", "http://", "::"} {
		t.Run(dest, func(t *testing.T) {
			f := New(dest)
			f.AddField("a", "1")

			_, err := f.Encode()
			assert.ErrorIs(t, err, ErrInvalidDestination)

			called := false
			s := SubmitterFunc[string](func(ctx context.Context, req *Request, body []byte) (string, error) {
				called = true
				return "sent", nil
			})
			res, err := Submit[string](context.Background(), f, s)
			assert.ErrorIs(t, err, ErrInvalidDestination)
			assert.Empty(t, res)
			assert.False(t, called)
		})
	}
}

func TestSubmit_PassesRequestAndBody(t *testing.T) {
	f := New("https://example.com/form")
	f.AddFields([]string{"user", "pass"}, []string{"alice", "secret"})
	f.SetDefaultUserAgent()

	var gotReq *Request
	var gotBody []byte
	s := SubmitterFunc[int](func(ctx context.Context, req *Request, body []byte) (int, error) {
		gotReq, gotBody = req, body
		return 42, nil
	})

	res, err := Submit[int](context.Background(), f, s)
	require.NoError(t, err)
	assert.Equal(t, 42, res)
	assert.Equal(t, "user=alice&pass=secret", string(gotBody))
	assert.Equal(t, "https://example.com/form", gotReq.URL.String())
	assert.Equal(t, strconv.Itoa(len(gotBody)), gotReq.Header.Get("Content-Length"))
	assert.Equal(t, "Mozilla/5.0", gotReq.Header.Get("User-Agent"))
}

func TestSubmit_ReturnsSubmitterError(t *testing.T) {
	boom := errors.New("boom")
	s := SubmitterFunc[*struct{}](func(ctx context.Context, req *Request, body []byte) (*struct{}, error) {
		return nil, boom
	})

	_, err := Submit[*struct{}](context.Background(), New("http://example.com"), s)
	assert.ErrorIs(t, err, boom)
}

func TestBoundary(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		b := Boundary()
		require.Len(t, b, BoundaryLength)
		for _, c := range b {
			require.True(t, strings.ContainsRune(BoundaryAlphabet, c), "unexpected %q in boundary", c)
		}
		assert.True(t, ValidBoundary(b))
		assert.False(t, seen[b], "boundary repeated")
		seen[b] = true
	}
}

func TestValidBoundary(t *testing.T) {
	assert.True(t, ValidBoundary("a"))
	assert.True(t, ValidBoundary(strings.Repeat("a", 70)))
	assert.False(t, ValidBoundary(""))
	assert.False(t, ValidBoundary(strings.Repeat("a", 71)))
	assert.False(t, ValidBoundary("a b"))
	assert.False(t, ValidBoundary(`a"b`))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "multipart/form-data; boundary=abc_123", contentTypeFor("abc_123"))
	assert.Equal(t, `multipart/form-data; boundary="a/b:c"`, contentTypeFor("a/b:c"))
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"a.txt":            "txt",
		"dir.d/archive.gz": "gz",
		"a.tar.gz":         "gz",
		"noext":            "",
		"dir.d/noext":      "",
		"UPPER.JPG":        "JPG",
		".bashrc":          "bashrc",
	}
	for in, want := range tests {
		assert.Equal(t, want, extension(in), in)
	}
}
