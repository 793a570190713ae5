package match

import (
	"strings"

	"caster-planner/internal/analyze"
)

// TryResolve resolves the first candidate that denotes an existing member
// path on root. Each candidate is tried with exact names first and, when
// ignoreCase is set, case insensitively right after. Names in ignored only
// exclude the first segment of a path; deeper segments are unaffected.
// Nullable members are looked through while walking the path.
func TryResolve(
	root *analyze.TypeInfo,
	candidates [][]string,
	ignored map[string]bool,
	ignoreCase bool,
) (MemberPath, bool) {
	for _, candidate := range candidates {
		if p, ok := resolve(root, candidate, ignored, false); ok {
			return p, true
		}

		if ignoreCase {
			if p, ok := resolve(root, candidate, ignored, true); ok {
				return p, true
			}
		}
	}

	return MemberPath{}, false
}

// TryResolveName resolves a single member name including its flattened decompositions.
func TryResolveName(root *analyze.TypeInfo, name string, ignored map[string]bool, ignoreCase bool) (MemberPath, bool) {
	return TryResolve(root, BuildCandidates(name), ignored, ignoreCase)
}

// TryResolvePath resolves an explicitly configured path, matching names exactly.
func TryResolvePath(root *analyze.TypeInfo, segments []string) (MemberPath, bool) {
	return resolve(root, segments, nil, false)
}

func resolve(root *analyze.TypeInfo, segments []string, ignored map[string]bool, ignoreCase bool) (MemberPath, bool) {
	if root == nil || len(segments) == 0 {
		return MemberPath{}, false
	}

	path := MemberPath{Root: root, Members: make([]*analyze.FieldInfo, 0, len(segments))}
	current := root

	for i, seg := range segments {
		m := FindMember(current, seg, ignoreCase)
		if m == nil {
			return MemberPath{}, false
		}

		if i == 0 && ignored[m.Name] {
			return MemberPath{}, false
		}

		path.Members = append(path.Members, m)
		current = m.Type
	}

	return path, true
}

// FindMember returns the accessible member of t (or of a type t embeds)
// with the given name. Nullable wrappers around t are looked through.
// An exact match always wins over a case-insensitive one.
func FindMember(t *analyze.TypeInfo, name string, ignoreCase bool) *analyze.FieldInfo {
	if t == nil {
		return nil
	}

	t = t.NonNullable()

	var fold *analyze.FieldInfo

	for cur := t; cur != nil; cur = cur.Base {
		for _, m := range cur.AccessibleFields() {
			if m.Embedded {
				continue
			}

			if m.Name == name {
				return m
			}

			if ignoreCase && fold == nil && strings.EqualFold(m.Name, name) {
				fold = m
			}
		}
	}

	return fold
}

// Members returns every accessible member of t, including
// members promoted from embedded types, in declaration order.
func Members(t *analyze.TypeInfo) []*analyze.FieldInfo {
	if t == nil {
		return nil
	}

	seen := map[string]bool{}

	var out []*analyze.FieldInfo

	for cur := t.NonNullable(); cur != nil; cur = cur.Base {
		for _, m := range cur.AccessibleFields() {
			if m.Embedded || seen[m.Name] {
				continue
			}

			seen[m.Name] = true
			out = append(out, m)
		}
	}

	return out
}
