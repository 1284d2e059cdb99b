package models

import "strings"

// Role is a named slot a user assigns a column to.
type Role int

const (
	// RoleNone marks a literal (non-placeholder) template slot.
	RoleNone Role = iota
	// RoleCat1 is the mandatory categorical slot.
	RoleCat1
	// RoleCat2 is the optional categorical slot.
	RoleCat2
	// RoleValue1 is the mandatory numeric slot.
	RoleValue1
	// RoleValue2 is the optional numeric slot.
	RoleValue2
)

// Roles lists the placeholder roles in key order.
var Roles = []Role{RoleCat1, RoleCat2, RoleValue1, RoleValue2}

func (r Role) String() string {
	switch r {
	case RoleCat1:
		return "Cat1"
	case RoleCat2:
		return "Cat2"
	case RoleValue1:
		return "Value1"
	case RoleValue2:
		return "Value2"
	default:
		return ""
	}
}

// ParseRole maps a placeholder token to its role. Only exact tokens match.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if s == r.String() {
			return r, true
		}
	}
	return RoleNone, false
}

// ValidKeys are the role-combination keys presets are registered under.
var ValidKeys = []string{
	"Cat1, Value1",
	"Cat1, Value1, Value2",
	"Cat1, Cat2, Value1",
	"Cat1, Cat2, Value1, Value2",
}

// IsValidKey reports whether key is one of ValidKeys.
func IsValidKey(key string) bool {
	for _, k := range ValidKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Selection holds the column chosen for each role. Empty means unselected.
type Selection struct {
	Cat1   string `json:"cat1,omitempty" yaml:"cat1"`
	Cat2   string `json:"cat2,omitempty" yaml:"cat2"`
	Value1 string `json:"value1,omitempty" yaml:"value1"`
	Value2 string `json:"value2,omitempty" yaml:"value2"`
	// Label is an optional label column; it must be one of the selected role columns.
	Label string `json:"label,omitempty" yaml:"label"`
}

// Column returns the column bound to a role.
func (s Selection) Column(r Role) string {
	switch r {
	case RoleCat1:
		return s.Cat1
	case RoleCat2:
		return s.Cat2
	case RoleValue1:
		return s.Value1
	case RoleValue2:
		return s.Value2
	default:
		return ""
	}
}

// Key enumerates the populated roles in fixed order, e.g. "Cat1, Value1".
func (s Selection) Key() string {
	var parts []string
	for _, r := range Roles {
		if s.Column(r) != "" {
			parts = append(parts, r.String())
		}
	}
	return strings.Join(parts, ", ")
}

// LabelOptions returns the columns eligible as label, in role order.
func (s Selection) LabelOptions() []string {
	var out []string
	for _, r := range Roles {
		if c := s.Column(r); c != "" {
			out = append(out, c)
		}
	}
	return out
}
