// Package preset loads the chart preset table: for each role-combination key,
// the ordered list of chart templates that can be drawn from it.
package preset

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/barnabashub/vizzu-builder/pkg/vizzubuilder/models"
)

// Version is the preset file format version understood by Parse.
const Version = 1

//go:embed presets.json
var embedded []byte

// ErrInvalidPreset is wrapped by every validation failure of Parse.
var ErrInvalidPreset = errors.New("invalid preset")

// Set is an immutable preset table.
type Set struct {
	byKey map[string][]models.Template
}

type presetFile struct {
	Version int                                     `json:"version"`
	Presets map[string][]map[string]json.RawMessage `json:"presets"`
}

// reserved names are template entries that are not animation channels.
var reserved = map[string]bool{
	"chart":       true,
	"y_range_min": true,
	"y_range_max": true,
}

// literalOnly fields must be plain strings without placeholders.
var literalOnly = map[string]bool{
	"coordSystem": true,
	"geometry":    true,
	"align":       true,
	"orientation": true,
}

// Default returns the preset table compiled into the binary.
func Default() (*Set, error) {
	return Parse(embedded)
}

// Load reads a preset table from path, or the embedded table if path is empty.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a preset table. Every key must be one of
// models.ValidKeys, and templates may only reference roles named by their key.
func Parse(data []byte) (*Set, error) {
	var f presetFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidPreset, f.Version)
	}

	s := &Set{byKey: make(map[string][]models.Template, len(f.Presets))}
	for key, entries := range f.Presets {
		if !models.IsValidKey(key) {
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidPreset, key)
		}
		allowed := keyRoles(key)
		templates := make([]models.Template, 0, len(entries))
		for i, entry := range entries {
			tmpl, err := parseTemplate(entry, allowed)
			if err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %v", ErrInvalidPreset, key, i, err)
			}
			templates = append(templates, tmpl)
		}
		s.byKey[key] = templates
	}
	return s, nil
}

func keyRoles(key string) map[models.Role]bool {
	out := make(map[models.Role]bool)
	for _, part := range strings.Split(key, ", ") {
		if r, ok := models.ParseRole(part); ok {
			out[r] = true
		}
	}
	return out
}

func parseTemplate(entry map[string]json.RawMessage, allowed map[models.Role]bool) (models.Template, error) {
	var tmpl models.Template
	raw, ok := entry["chart"]
	if !ok {
		return tmpl, errors.New("missing chart title")
	}
	if err := json.Unmarshal(raw, &tmpl.Chart); err != nil || tmpl.Chart == "" {
		return tmpl, errors.New("chart title must be a non-empty string")
	}

	var err error
	if tmpl.YRangeMin, err = parseRange(entry["y_range_min"]); err != nil {
		return tmpl, fmt.Errorf("y_range_min: %w", err)
	}
	if tmpl.YRangeMax, err = parseRange(entry["y_range_max"]); err != nil {
		return tmpl, fmt.Errorf("y_range_max: %w", err)
	}

	names := make([]string, 0, len(entry))
	for name := range entry {
		if !reserved[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		var v any
		if err := json.Unmarshal(entry[name], &v); err != nil {
			return tmpl, fmt.Errorf("%s: %w", name, err)
		}
		if v == nil {
			continue
		}
		value, err := parseValue(v, allowed)
		if err != nil {
			return tmpl, fmt.Errorf("%s: %w", name, err)
		}
		if literalOnly[name] && (value.List || len(value.Slots) != 1 || value.Slots[0].Role != models.RoleNone) {
			return tmpl, fmt.Errorf("%s must be a literal string", name)
		}
		tmpl.Fields = append(tmpl.Fields, models.Field{Name: name, Value: value})
	}

	for _, required := range []string{"coordSystem", "geometry"} {
		if _, ok := tmpl.Field(required); !ok {
			return tmpl, fmt.Errorf("missing %s", required)
		}
	}
	return tmpl, nil
}

func parseRange(raw json.RawMessage) (any, error) {
	if raw == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case nil, string, float64:
		return v, nil
	default:
		return nil, fmt.Errorf("expected string or number, got %T", v)
	}
}

func parseValue(v any, allowed map[models.Role]bool) (models.Value, error) {
	switch v := v.(type) {
	case string:
		slot, err := parseSlot(v, allowed)
		if err != nil {
			return models.Value{}, err
		}
		return models.Value{Slots: []models.Slot{slot}}, nil
	case []any:
		out := models.Value{List: true}
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return models.Value{}, fmt.Errorf("list items must be strings, got %T", item)
			}
			slot, err := parseSlot(s, allowed)
			if err != nil {
				return models.Value{}, err
			}
			out.Slots = append(out.Slots, slot)
		}
		return out, nil
	case bool, float64:
		return models.Value{Scalar: v}, nil
	default:
		return models.Value{}, fmt.Errorf("unsupported value of type %T", v)
	}
}

// parseSlot accepts a placeholder only as the whole string. A literal that
// embeds a token ("Cat10", "my Value1") is rejected since substituting into it
// would be ambiguous.
func parseSlot(s string, allowed map[models.Role]bool) (models.Slot, error) {
	if r, ok := models.ParseRole(s); ok {
		if !allowed[r] {
			return models.Slot{}, fmt.Errorf("placeholder %s not provided by key", r)
		}
		return models.Slot{Role: r}, nil
	}
	for _, r := range models.Roles {
		if strings.Contains(s, r.String()) {
			return models.Slot{}, fmt.Errorf("literal %q embeds placeholder %s", s, r)
		}
	}
	return models.Slot{Text: s}, nil
}

// Lookup returns the templates registered for key, in preset order.
func (s *Set) Lookup(key string) ([]models.Template, bool) {
	t, ok := s.byKey[key]
	return t, ok
}

// Keys returns the keys present in the set in models.ValidKeys order.
func (s *Set) Keys() []string {
	var out []string
	for _, k := range models.ValidKeys {
		if _, ok := s.byKey[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Len returns the total number of templates.
func (s *Set) Len() int {
	n := 0
	for _, t := range s.byKey {
		n += len(t)
	}
	return n
}
