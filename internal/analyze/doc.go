// Package analyze provides the type descriptors the planner works on and
// a loader that extracts them from Go packages.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build a canonical in-memory model of types, their members,
// constructors and conversion capabilities.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (basic/struct/pointer/slice/array/map/enum/...),
//     collection shape, constructors, parse/format capabilities
//   - FieldInfo: describes member name, type, tags and accessibility
//   - TypeGraph: named types plus canonical composite types (PointerTo, SliceOf, MapOf)
//
// The loader recognises a few conventions:
//   - constants of a named basic type turn it into an enum; a "caster:flags"
//     directive on the type marks a flags enum
//   - func New<Type>(...) <Type> or *<Type> is a constructor; a "caster:constructor"
//     directive marks the preferred one
//   - func Parse<Type>(string) (<Type>, error) parses strings into the type
//   - a String() string method formats the type; a To<Other>() <Other> method
//     is an explicit conversion
//   - `caster:"required,init,readonly,-"` struct tags and "Deprecated:" doc
//     comments set member markers
package analyze
