package models

// Slot is a single string position in a template value: either a role
// placeholder or literal text.
type Slot struct {
	// Role is the placeholder role, RoleNone for literal text.
	Role Role
	// Text is the literal text when Role is RoleNone.
	Text string
}

// Value is a template field value.
type Value struct {
	// Slots holds the string slots of a string or list-of-string value.
	Slots []Slot
	// List is true when the value is a list of strings.
	List bool
	// Scalar holds non-string values (bool, float64).
	Scalar any
}

// Field is a named template field.
type Field struct {
	// Name is the animation channel or option name (x, y, color, geometry...).
	Name string
	// Value is the parameterized value.
	Value Value
}

// Template is a partially-parameterized chart configuration.
type Template struct {
	// Chart is the display title of the chart shape.
	Chart string
	// Fields are the non-null configuration fields, sorted by name.
	Fields []Field
	// YRangeMin is the optional y-axis minimum (string like "110%" or float64).
	YRangeMin any
	// YRangeMax is the optional y-axis maximum.
	YRangeMax any
}

// Field returns the field with the given name.
func (t Template) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
