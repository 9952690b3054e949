package form

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OrderedMap is a YAML mapping of strings that keeps document order.
type OrderedMap []Pair

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *OrderedMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	out := make(OrderedMap, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: expected a scalar key and value", key.Line)
		}
		out = append(out, Pair{Name: key.Value, Value: value.Value})
	}
	*m = out
	return nil
}

// Definition describes a form in a YAML document:
//
//	url: https://example.com/upload
//	multipart: false
//	userAgent: true
//	referer: example.com
//	headers:
//	  X-Token: abc
//	fields:
//	  user: alice
//	files:
//	  avatar: ./avatar.png
type Definition struct {
	URL       string     `yaml:"url"`
	Multipart bool       `yaml:"multipart"`
	UserAgent bool       `yaml:"userAgent"`
	Referer   string     `yaml:"referer"`
	Headers   OrderedMap `yaml:"headers"`
	Fields    OrderedMap `yaml:"fields"`
	Files     OrderedMap `yaml:"files"`

	// BaseDir is used to resolve relative file paths. LoadDefinition sets it
	// to the directory of the definition file.
	BaseDir string `yaml:"-"`
}

// ParseDefinition decodes a YAML form definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("form: parsing definition: %w", err)
	}
	return &d, nil
}

// LoadDefinition reads and decodes the YAML form definition at path.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("form: reading definition: %w", err)
	}
	d, err := ParseDefinition(data)
	if err != nil {
		return nil, err
	}
	d.BaseDir = filepath.Dir(path)
	return d, nil
}

// Build creates a form from the definition. Every string is passed through
// resolve first, which may be nil.
func (d *Definition) Build(resolve func(string) string, opts ...Option) *Form {
	if resolve == nil {
		resolve = func(s string) string { return s }
	}

	f := New(resolve(d.URL), opts...)
	if d.Referer != "" {
		f.SetReferer(resolve(d.Referer))
	}
	if d.UserAgent {
		f.SetDefaultUserAgent()
	}
	for _, h := range d.Headers {
		f.SetHeader(h.Name, resolve(h.Value))
	}
	for _, field := range d.Fields {
		f.AddField(field.Name, resolve(field.Value))
	}
	for _, file := range d.Files {
		path := resolve(file.Value)
		if !filepath.IsAbs(path) && d.BaseDir != "" {
			path = filepath.Join(d.BaseDir, path)
		}
		f.AddFile(file.Name, path)
	}
	if d.Multipart {
		f.ForceMultipart()
	}
	return f
}
