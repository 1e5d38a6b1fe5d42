package settings

// Secret is a string that must never leak into logs, rendered docs, or
// serialized output. Use Value to read the actual content.
type Secret string

const redacted = "[REDACTED]"

// String renders the redaction marker for non-empty secrets.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// Value returns the actual secret content.
func (s Secret) Value() string {
	return string(s)
}

// MarshalJSON always marshals the redacted form.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// MarshalText always marshals the redacted form.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
