package mapping

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidPath is returned for malformed member paths.
var ErrInvalidPath = errors.New("invalid member path")

// FieldPath represents a parsed member path like "Address.City".
type FieldPath struct {
	Segments []string
}

// ParsePath parses a member path string into a FieldPath.
// Supports: "Field" and "Nested.Field".
func ParsePath(path string) (FieldPath, error) {
	if path == "" {
		return FieldPath{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var segments []string

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return FieldPath{}, fmt.Errorf("%w %q: empty segment", ErrInvalidPath, path)
		}

		// Validate identifier (basic check)
		if !isValidIdent(part) {
			return FieldPath{}, fmt.Errorf("%w %q: invalid identifier %q", ErrInvalidPath, path, part)
		}

		segments = append(segments, part)
	}

	return FieldPath{Segments: segments}, nil
}

// MustParsePath is ParsePath for paths known to be valid.
func MustParsePath(path string) FieldPath {
	fp, err := ParsePath(path)
	if err != nil {
		panic(err)
	}

	return fp
}

// String returns the path as a string.
func (p FieldPath) String() string {
	return strings.Join(p.Segments, ".")
}

// IsSimple returns true if this is a single member path.
func (p FieldPath) IsSimple() bool {
	return len(p.Segments) == 1
}

// Root returns the first segment.
func (p FieldPath) Root() string {
	if len(p.Segments) == 0 {
		return ""
	}

	return p.Segments[0]
}

// IsEmpty returns true if the path has no segments.
func (p FieldPath) IsEmpty() bool {
	return len(p.Segments) == 0
}

// isValidIdent checks if a string is a valid Go identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			// First character must be letter or underscore
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
		} else if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			// Subsequent characters can be letter, digit, or underscore
			return false
		}
	}

	return true
}
