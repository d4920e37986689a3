package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/graphina/panel"
)

// ErrUnknownPanel is returned when a requested name is not in the registry
var ErrUnknownPanel = errors.New("unknown panel")

// Entry is one named panel definition, in file order
type Entry struct {
	Name    string
	Options panel.Options
}

// Registry is the ordered set of named panel definitions
type Registry struct {
	Path    string
	Entries []Entry
}

// LoadRegistry reads and validates the registry at path
// A missing file yields an empty registry
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		path = PanelsPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Registry{Path: path}, nil
		}
		return nil, fmt.Errorf("reading panels: %w", err)
	}
	entries, err := ParseRegistry(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Registry{Path: path, Entries: entries}, nil
}

// ParseRegistry decodes a top-level mapping of name to attributes
// Key order is preserved and unknown attribute keys are rejected
func ParseRegistry(data []byte) ([]Entry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	n := &root
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, nil
		}
		n = n.Content[0]
	}
	if n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null") {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of panel names", n.Line)
	}

	entries := make([]Entry, 0, len(n.Content)/2)
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		name := key.Value
		if seen[name] {
			return nil, fmt.Errorf("line %d: duplicate panel %q", key.Line, name)
		}
		seen[name] = true

		opts, err := decodeOptions(val)
		if err != nil {
			return nil, fmt.Errorf("panel %q: %w", name, err)
		}
		entries = append(entries, Entry{Name: name, Options: opts})
	}
	return entries, nil
}

// decodeOptions strictly decodes one attribute mapping
func decodeOptions(n *yaml.Node) (panel.Options, error) {
	var opts panel.Options
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return opts, nil
	}
	if n.Kind != yaml.MappingNode {
		return opts, fmt.Errorf("line %d: expected attribute mapping", n.Line)
	}
	if err := checkKeys(n); err != nil {
		return opts, err
	}

	raw, err := yaml.Marshal(n)
	if err != nil {
		return opts, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// checkKeys strips the leading colon of symbol-style keys and rejects
// names outside the attribute schema
func checkKeys(n *yaml.Node) error {
	known := make(map[string]bool)
	for _, name := range panel.AttributeNames() {
		known[name] = true
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		k.Value = strings.TrimPrefix(k.Value, ":")
		if !known[k.Value] {
			return fmt.Errorf("line %d: %w %q", k.Line, panel.ErrUnknownAttribute, k.Value)
		}
	}
	return nil
}

// Names lists entry names in file order
func (r *Registry) Names() []string {
	names := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the options stored under name
func (r *Registry) Lookup(name string) (panel.Options, error) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e.Options, nil
		}
	}
	return panel.Options{}, fmt.Errorf("%w %q in %s", ErrUnknownPanel, name, r.Path)
}

// Build constructs the named panels, applying overrides on top of each entry
func (r *Registry) Build(names []string, overrides panel.Options) ([]*panel.Panel, error) {
	out := make([]*panel.Panel, 0, len(names))
	for _, name := range names {
		opts, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}
		p, err := panel.New(opts, overrides)
		if err != nil {
			return nil, fmt.Errorf("panel %q: %w", name, err)
		}
		out = append(out, p)
	}
	return out, nil
}
