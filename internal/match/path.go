package match

import (
	"strings"

	"caster-planner/internal/analyze"
)

// MemberPath is an ordered member access chain starting at a root type,
// e.g. Customer.Address.City.
type MemberPath struct {
	Root    *analyze.TypeInfo
	Members []*analyze.FieldInfo
}

// IsEmpty reports whether the path has no members and denotes the root itself.
func (p MemberPath) IsEmpty() bool {
	return len(p.Members) == 0
}

// FullName returns the dot separated member names.
func (p MemberPath) FullName() string {
	names := make([]string, len(p.Members))
	for i, m := range p.Members {
		names[i] = m.Name
	}

	return strings.Join(names, ".")
}

// String returns the full name.
func (p MemberPath) String() string {
	return p.FullName()
}

// Member returns the final member, or nil for the empty path.
func (p MemberPath) Member() *analyze.FieldInfo {
	if p.IsEmpty() {
		return nil
	}

	return p.Members[len(p.Members)-1]
}

// Type returns the type of the final member, or the root type for the empty path.
func (p MemberPath) Type() *analyze.TypeInfo {
	if m := p.Member(); m != nil {
		return m.Type
	}

	return p.Root
}

// ObjectPath returns every member but the final one.
func (p MemberPath) ObjectPath() []*analyze.FieldInfo {
	if p.IsEmpty() {
		return nil
	}

	return p.Members[:len(p.Members)-1]
}

// IsAnyNullable reports whether any member on the path, the final one
// included, has a nullable type.
func (p MemberPath) IsAnyNullable() bool {
	for _, m := range p.Members {
		if m.Type.IsNullable() {
			return true
		}
	}

	return false
}

// IsAnyObjectPathNullable reports whether a member before the final one has
// a nullable type.
func (p MemberPath) IsAnyObjectPathNullable() bool {
	for _, m := range p.ObjectPath() {
		if m.Type.IsNullable() {
			return true
		}
	}

	return false
}

// NullablePrefixes returns the full names of every nullable prefix of the
// path in access order. "Customer.Address.City" with a nullable Customer
// and Address yields ["Customer", "Customer.Address"].
func (p MemberPath) NullablePrefixes() []string {
	var out []string

	for i, m := range p.Members {
		if m.Type.IsNullable() {
			out = append(out, MemberPath{Root: p.Root, Members: p.Members[:i+1]}.FullName())
		}
	}

	return out
}

// Append returns a new path extended by m. The receiver is not modified.
func (p MemberPath) Append(m *analyze.FieldInfo) MemberPath {
	members := make([]*analyze.FieldInfo, len(p.Members), len(p.Members)+1)
	copy(members, p.Members)

	return MemberPath{Root: p.Root, Members: append(members, m)}
}
