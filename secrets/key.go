// Package secrets holds sensitive values that must never reach logs or
// workflow output.
//
// A Key renders as "[REDACTED]" through every formatting path (fmt verbs,
// slog attributes, text marshalling). The raw value is only available through
// Reveal, which is meant for handing the value to a subprocess environment.
package secrets

import (
	"log/slog"
)

// Redacted is the placeholder printed in place of a set secret.
const Redacted = "[REDACTED]"

// Key is a secret API key.
type Key struct {
	value []byte
}

// NewKey wraps value. An empty value yields an unset key.
func NewKey(value string) Key {
	if value == "" {
		return Key{}
	}
	return Key{value: []byte(value)}
}

// IsSet reports whether the key holds a value.
func (k Key) IsSet() bool {
	return len(k.value) > 0
}

// Reveal returns a copy of the raw value.
func (k Key) Reveal() string {
	return string(k.value)
}

// Clear zeros the key in memory. Copies of the Key made before Clear share
// the same backing storage and are cleared too.
func (k *Key) Clear() {
	for i := range k.value {
		k.value[i] = 0
	}
	k.value = nil
}

func (k Key) redacted() string {
	if !k.IsSet() {
		return ""
	}
	return Redacted
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return k.redacted()
}

// GoString implements fmt.GoStringer so %#v is redacted as well.
func (k Key) GoString() string {
	return k.redacted()
}

// LogValue implements slog.LogValuer.
func (k Key) LogValue() slog.Value {
	return slog.StringValue(k.redacted())
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.redacted()), nil
}
