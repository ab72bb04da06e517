package xopat

import "strings"

const (
	// MetadataPrefix marks fields that carry metadata of a bridged
	// logger. The metadata is already part of the scope or event
	// so these fields are never stored.
	MetadataPrefix = "log."

	// RawPrefix lets a call site use a field name that collides with
	// a reserved word. The prefix is removed before storage.
	RawPrefix = "r#"
)

// NormalizeKey applies the field naming policy. It returns false
// if the field must not be stored.
func NormalizeKey(k string) (string, bool) {
	switch {
	case strings.HasPrefix(k, MetadataPrefix):
		return "", false
	case strings.HasPrefix(k, RawPrefix):
		return k[len(RawPrefix):], true
	default:
		return k, true
	}
}
