package mapper

// The accessors below assume the Values came out of Map with a matching field
// declaration; asking for an undeclared field returns the zero value.

// String returns a required string field.
func (v Values) String(name string) string {
	s, _ := v[name].(string)

	return s
}

// OptionalString returns a string field, or nil when it was absent.
func (v Values) OptionalString(name string) *string {
	s, ok := v[name].(string)
	if !ok {
		return nil
	}

	return &s
}

// Int returns a required integer field.
func (v Values) Int(name string) int64 {
	n, _ := v[name].(int64)

	return n
}

// OptionalInt returns an integer field, or nil when it was absent.
func (v Values) OptionalInt(name string) *int64 {
	n, ok := v[name].(int64)
	if !ok {
		return nil
	}

	return &n
}

// Float returns a float field.
func (v Values) Float(name string) float64 {
	f, _ := v[name].(float64)

	return f
}

// Bool returns a bool field.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)

	return b
}

// Strings returns a list field. An absent optional list yields nil, an empty
// list yields a non-nil empty slice.
func (v Values) Strings(name string) []string {
	s, _ := v[name].([]string)

	return s
}

// Node returns a nested node field, or nil when it was absent.
func (v Values) Node(name string) Values {
	n, _ := v[name].(Values)

	return n
}

// Present reports whether the field carried a non-null value.
func (v Values) Present(name string) bool {
	return v[name] != nil
}
