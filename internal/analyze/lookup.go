package analyze

import (
	"fmt"
	"sort"
	"strings"
)

// Lookup resolves a type name as written in configuration.
// Accepted forms: a basic type name ("int"), a fully qualified name
// ("caster-planner/store.Order"), a package-alias qualified name ("store.Order"),
// and the composite forms "*T", "[]T" and "map[K]V" over any of those.
func (g *TypeGraph) Lookup(name string) (*TypeInfo, error) {
	name = strings.TrimSpace(name)

	switch {
	case name == "":
		return nil, fmt.Errorf("%w: empty type name", ErrTypeNotFound)

	case name == "any":
		return Object, nil

	case strings.HasPrefix(name, "*"):
		elem, err := g.Lookup(name[1:])
		if err != nil {
			return nil, err
		}

		return g.PointerTo(elem), nil

	case strings.HasPrefix(name, "[]"):
		elem, err := g.Lookup(name[2:])
		if err != nil {
			return nil, err
		}

		return g.SliceOf(elem), nil

	case strings.HasPrefix(name, "map["):
		closing := strings.Index(name, "]")
		if closing < 0 {
			return nil, fmt.Errorf("%w: malformed map type %q", ErrTypeNotFound, name)
		}

		key, err := g.Lookup(name[4:closing])
		if err != nil {
			return nil, err
		}

		val, err := g.Lookup(name[closing+1:])
		if err != nil {
			return nil, err
		}

		return g.MapOf(key, val), nil
	}

	for k, n := range basicNames {
		if n == name {
			return Basic(k), nil
		}
	}

	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return g.lookupUnqualified(name)
	}

	pkg, typeName := name[:dot], name[dot+1:]
	if t := g.Types[TypeID{PkgPath: pkg, Name: typeName}]; t != nil {
		return t, nil
	}

	var matches []*TypeInfo

	for id, t := range g.Types {
		if id.Name == typeName && (g.packageName(id.PkgPath) == pkg || strings.HasSuffix(id.PkgPath, "/"+pkg)) {
			matches = append(matches, t)
		}
	}

	return pickOne(name, matches)
}

func (g *TypeGraph) lookupUnqualified(name string) (*TypeInfo, error) {
	var matches []*TypeInfo

	for id, t := range g.Types {
		if id.Name == name {
			matches = append(matches, t)
		}
	}

	return pickOne(name, matches)
}

func (g *TypeGraph) packageName(path string) string {
	if p, ok := g.Packages[path]; ok && p.Name != "" {
		return p.Name
	}

	return path
}

func pickOne(name string, matches []*TypeInfo) (*TypeInfo, error) {
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID.String()
		}

		sort.Strings(ids)

		return nil, fmt.Errorf("ambiguous type name %q: %s", name, strings.Join(ids, ", "))
	}
}
