package analyze

import (
	"errors"
	"go/types"
	"reflect"

	"caster-planner/internal/common"
)

// ErrTypeNotFound is returned when a type lookup by name fails.
var ErrTypeNotFound = errors.New("type not found")

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "caster-planner/store"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the package-alias qualified name, e.g. "store.Order".
func (t TypeID) Short() string {
	if alias := common.PkgAlias(t.PkgPath); alias != "" {
		return alias + "." + t.Name
	}

	return t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, etc.
	TypeKindStruct             // struct type
	TypeKindPointer            // pointer to another type, the nullable wrapper
	TypeKindSlice              // slice of another type
	TypeKindArray              // array of another type
	TypeKindMap                // keyed map
	TypeKindEnum               // named type with a closed set of constant values
	TypeKindInterface          // interface type
	TypeKindTypeParam          // open type parameter
	TypeKindTuple              // ordered, optionally named elements
	TypeKindFunc               // function (delegate) type
	TypeKindExternal           // external/opaque type (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindEnum:
		return "enum"
	case TypeKindInterface:
		return "interface"
	case TypeKindTypeParam:
		return "type_param"
	case TypeKindTuple:
		return "tuple"
	case TypeKindFunc:
		return "func"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a type in the type graph.
// Descriptors are read-only once the graph is built.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Basic      BasicKind   // For basic types and enum underlying types
	Underlying *TypeInfo   // For named types, the underlying type
	ElemType   *TypeInfo   // For pointers, collections and maps (value type), the element type
	KeyType    *TypeInfo   // For maps, the key type
	Len        int         // For arrays, the length
	TypeArgs   []*TypeInfo // Generic arguments of an instantiated type
	Fields     []FieldInfo // For structs and tuples, the list of members
	GoType     types.Type  // The original go/types.Type (nil for descriptors built by hand)

	// Collection is set for every sequence or map shaped type.
	Collection *CollectionInfo
	// Enum is set for TypeKindEnum.
	Enum *EnumInfo
	// Constructors lists the ways to create an instance of the type.
	Constructors []Constructor
	// Conversions lists user defined conversion operators declared by the type.
	Conversions []ConversionOp

	// Stringer is true when the type has a String() method.
	Stringer bool
	// Formattable is true when the type formats with a format string and provider.
	Formattable bool
	// ParseFunc names the function parsing a string into the type.
	ParseFunc string

	// Base is the type this type derives from (if any).
	Base *TypeInfo
	// Interfaces are the interfaces implemented by the type.
	Interfaces []*TypeInfo
	// Abstract types cannot be instantiated.
	Abstract bool

	// ValueType is true for types with copy semantics (structs, arrays, basics, enums).
	ValueType bool
	// Immutable types can be shared between source and target without cloning.
	Immutable bool
	// Obsolete marks deprecated types.
	Obsolete bool
	// IsGenerated is true if the type was synthesized instead of loaded.
	IsGenerated bool
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// IsNullable returns true for the nullable wrapper kind.
func (t *TypeInfo) IsNullable() bool {
	return t != nil && t.Kind == TypeKindPointer
}

// NonNullable strips the nullable wrapper, if any.
func (t *TypeInfo) NonNullable() *TypeInfo {
	if t.IsNullable() && t.ElemType != nil {
		return t.ElemType
	}

	return t
}

// IsReferenceType returns true for types without copy semantics.
func (t *TypeInfo) IsReferenceType() bool {
	switch t.Kind {
	case TypeKindPointer, TypeKindSlice, TypeKindMap, TypeKindInterface, TypeKindFunc:
		return true
	case TypeKindTypeParam:
		return false
	default:
		return !t.ValueType
	}
}

// IsString returns true for the basic string type.
func (t *TypeInfo) IsString() bool {
	return t.Kind == TypeKindBasic && t.Basic == BasicString
}

// IsEnum returns true for enum types.
func (t *TypeInfo) IsEnum() bool {
	return t.Kind == TypeKindEnum && t.Enum != nil
}

// IsCollection returns true for sequence shaped types (not maps).
func (t *TypeInfo) IsCollection() bool {
	return t.Collection != nil && !t.Collection.Kind.IsMap()
}

// IsDictionary returns true for map shaped types.
func (t *TypeInfo) IsDictionary() bool {
	return t.Collection != nil && t.Collection.Kind.IsMap()
}

// IsTuple returns true for tuple types.
func (t *TypeInfo) IsTuple() bool {
	return t.Kind == TypeKindTuple
}

// IsDelegate returns true for function types.
func (t *TypeInfo) IsDelegate() bool {
	return t.Kind == TypeKindFunc
}

// IsObject returns true for the empty interface, which every type is assignable to.
func (t *TypeInfo) IsObject() bool {
	return t.Kind == TypeKindInterface && len(t.Fields) == 0 && !t.IsNamed()
}

// IsImmutable reports whether values of the type can be shared instead of cloned.
func (t *TypeInfo) IsImmutable() bool {
	switch {
	case t.Immutable:
		return true
	case t.Kind == TypeKindBasic, t.Kind == TypeKindEnum:
		return true
	case t.Collection != nil:
		return t.Collection.Kind.IsImmutable()
	default:
		return false
	}
}

// IsPrimitive reports whether the type is treated as a primitive by the
// map-only-primitives policy.
func (t *TypeInfo) IsPrimitive() bool {
	nn := t.NonNullable()

	return nn.Kind == TypeKindBasic || nn.Kind == TypeKindEnum || nn.Immutable
}

// CanFormat reports whether the type can be converted to a string.
func (t *TypeInfo) CanFormat() bool {
	return (t.Kind == TypeKindBasic && t.Basic != BasicString) || t.Stringer || t.Formattable
}

// CanParse reports whether a string can be parsed into the type.
func (t *TypeInfo) CanParse() bool {
	return (t.Kind == TypeKindBasic && t.Basic != BasicString) || t.ParseFunc != ""
}

// Field returns the member with the given name, or nil.
func (t *TypeInfo) Field(name string) *FieldInfo {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}

	return nil
}

// AccessibleFields returns the instance members that can be read or written from outside.
func (t *TypeInfo) AccessibleFields() []*FieldInfo {
	var out []*FieldInfo

	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Exported && !f.Static {
			out = append(out, f)
		}
	}

	return out
}

// ParameterlessConstructor returns the accessible constructor without parameters, or nil.
func (t *TypeInfo) ParameterlessConstructor() *Constructor {
	for i := range t.Constructors {
		c := &t.Constructors[i]
		if c.Accessible && len(c.Params) == 0 {
			return c
		}
	}

	return nil
}

// HasParameterlessConstructor reports whether an instance can be created without arguments.
func (t *TypeInfo) HasParameterlessConstructor() bool {
	return t.ParameterlessConstructor() != nil
}

// FieldInfo describes a struct member.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct

	ReadOnly  bool // cannot be assigned after construction
	WriteOnly bool // cannot be read
	InitOnly  bool // can only be assigned while constructing
	Required  bool // must be assigned while constructing
	Static    bool // belongs to the type, not the instance
	Obsolete  bool // deprecated
	Ignored   bool // carries an ignore marker
	Accessor  bool // read through a method that returns a copy
}

// NewField returns an exported, readable and settable member.
func NewField(name string, typ *TypeInfo) FieldInfo {
	return FieldInfo{Name: name, Exported: true, Type: typ}
}

// CanGet reports whether the member can be read.
func (f *FieldInfo) CanGet() bool {
	return f.Exported && !f.WriteOnly
}

// CanSet reports whether the member can be assigned on an existing instance.
func (f *FieldInfo) CanSet() bool {
	return f.Exported && !f.ReadOnly && !f.InitOnly
}

// CanInit reports whether the member can be assigned while constructing.
func (f *FieldInfo) CanInit() bool {
	return f.Exported && !f.ReadOnly
}

// JSONName returns the JSON tag name if present, otherwise the field name.
func (f *FieldInfo) JSONName() string {
	if tag := f.Tag.Get("json"); tag != "" && tag != "-" {
		// Parse first part before comma
		for i := range len(tag) {
			if tag[i] == ',' {
				return tag[:i]
			}
		}

		return tag
	}

	return f.Name
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	return f.Tag.Get(key) != ""
}

// GetTag returns the value of the specified tag.
func (f *FieldInfo) GetTag(key string) string {
	return f.Tag.Get(key)
}

// Constructor describes one way of creating an instance.
type Constructor struct {
	// Name of the constructor function; empty for a composite literal.
	Name       string
	Params     []Param
	Accessible bool
	Obsolete   bool
	// Preferred marks the constructor selected by a marker.
	Preferred bool
}

// RequiredParams returns the number of parameters without a default.
func (c *Constructor) RequiredParams() int {
	n := 0

	for _, p := range c.Params {
		if !p.Optional {
			n++
		}
	}

	return n
}

// Param is a constructor parameter.
type Param struct {
	Name     string
	Type     *TypeInfo
	Optional bool
}

// ConversionOp is a user defined conversion between two types.
type ConversionOp struct {
	Name     string
	From     *TypeInfo
	To       *TypeInfo
	Explicit bool
}

// EnumInfo describes the values of an enum type.
type EnumInfo struct {
	Underlying *TypeInfo
	Values     []EnumValue
	// Flags enums combine values bitwise.
	Flags bool
}

// Value returns the enum value with the given name.
func (e *EnumInfo) Value(name string) (EnumValue, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v, true
		}
	}

	return EnumValue{}, false
}

// Bits returns the union of all value bits.
func (e *EnumInfo) Bits() uint64 {
	var bits uint64
	for _, v := range e.Values {
		bits |= uint64(v.Value)
	}

	return bits
}

// EnumValue is one named constant of an enum.
type EnumValue struct {
	Name string
	// Value is the integer value, zero for string backed enums.
	Value int64
	// Literal is the constant as written, e.g. "1" or "\"PAID\"".
	Literal  string
	Obsolete bool
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo

	derived map[string]*TypeInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
		derived:  make(map[string]*TypeInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Add registers a named type.
func (g *TypeGraph) Add(t *TypeInfo) *TypeInfo {
	g.Types[t.ID] = t

	pkg, ok := g.Packages[t.ID.PkgPath]
	if !ok {
		pkg = &PackageInfo{Path: t.ID.PkgPath, Name: common.PkgAlias(t.ID.PkgPath)}
		g.Packages[t.ID.PkgPath] = pkg
	}

	pkg.Types = append(pkg.Types, t.ID)

	return t
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}
