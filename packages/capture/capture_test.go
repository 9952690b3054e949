package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/formpost/packages/http"
)

func TestParse(t *testing.T) {
	tests := []struct {
		expr    string
		want    *Capture
		wantErr bool
	}{
		{expr: "id=data.id", want: &Capture{Name: "id", Source: SourceBody, Path: "data.id"}},
		{expr: "raw=body", want: &Capture{Name: "raw", Source: SourceBody}},
		{expr: "loc = header:Location", want: &Capture{Name: "loc", Source: SourceHeader, Path: "Location"}},
		{expr: "code=status", want: &Capture{Name: "code", Source: SourceStatus}},
		{expr: "took=duration", want: &Capture{Name: "took", Source: SourceDuration}},
		{expr: "missing", wantErr: true},
		{expr: "=data.id", wantErr: true},
		{expr: "h=header:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Parse(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAll(t *testing.T) {
	resp := &http.Response{
		StatusCode: 201,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Location":     "/uploads/7",
		},
		Body:     []byte(`{"data": {"id": 7, "files": [{"name": "a.txt"}]}}`),
		Duration: 120 * time.Millisecond,
	}

	captures := []*Capture{
		{Name: "id", Source: SourceBody, Path: "data.id"},
		{Name: "first", Source: SourceBody, Path: "data.files.0.name"},
		{Name: "loc", Source: SourceHeader, Path: "location"},
		{Name: "status", Source: SourceStatus},
		{Name: "ms", Source: SourceDuration},
		{Name: "gone", Source: SourceBody, Path: "data.nope"},
		{Name: "nohdr", Source: SourceHeader, Path: "X-Missing"},
	}

	values, missing := ExtractAll(resp, captures)

	assert.Equal(t, float64(7), values["id"])
	assert.Equal(t, "a.txt", values["first"])
	assert.Equal(t, "/uploads/7", values["loc"])
	assert.Equal(t, 201, values["status"])
	assert.Equal(t, int64(120), values["ms"])
	assert.Equal(t, []string{"gone", "nohdr"}, missing)
}

func TestExtract_NonJSONBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "text/html"},
		Body:       []byte("<p>thanks</p>"),
	}
	e := NewExtractor(resp)

	v, ok := e.Extract(&Capture{Name: "raw", Source: SourceBody})
	require.True(t, ok)
	assert.Equal(t, "<p>thanks</p>", v)

	_, ok = e.Extract(&Capture{Name: "x", Source: SourceBody, Path: "a.b"})
	assert.False(t, ok)
}
