package analyze

import (
	"go/types"

	"caster-planner/internal/common"
)

// BasicKind enumerates the predeclared scalar types.
type BasicKind int

const (
	BasicInvalid BasicKind = iota
	BasicBool
	BasicInt
	BasicInt8
	BasicInt16
	BasicInt32
	BasicInt64
	BasicUint
	BasicUint8
	BasicUint16
	BasicUint32
	BasicUint64
	BasicFloat32
	BasicFloat64
	BasicString
)

var basicNames = map[BasicKind]string{
	BasicBool:    "bool",
	BasicInt:     "int",
	BasicInt8:    "int8",
	BasicInt16:   "int16",
	BasicInt32:   "int32",
	BasicInt64:   "int64",
	BasicUint:    "uint",
	BasicUint8:   "uint8",
	BasicUint16:  "uint16",
	BasicUint32:  "uint32",
	BasicUint64:  "uint64",
	BasicFloat32: "float32",
	BasicFloat64: "float64",
	BasicString:  "string",
}

// String returns the Go spelling of the basic kind.
func (k BasicKind) String() string {
	if name, ok := basicNames[k]; ok {
		return name
	}

	return common.UnknownStr
}

// IsNumeric reports whether the kind is an integer or float.
func (k BasicKind) IsNumeric() bool {
	return k >= BasicInt && k <= BasicFloat64
}

// IsInteger reports whether the kind is a signed or unsigned integer.
func (k BasicKind) IsInteger() bool {
	return k >= BasicInt && k <= BasicUint64
}

var basics = func() map[BasicKind]*TypeInfo {
	m := make(map[BasicKind]*TypeInfo, len(basicNames))
	for k := range basicNames {
		m[k] = &TypeInfo{
			ID:        TypeID{Name: k.String()},
			Kind:      TypeKindBasic,
			Basic:     k,
			ValueType: true,
			Immutable: true,
		}
	}

	return m
}()

// Basic returns the canonical descriptor of a basic kind.
func Basic(k BasicKind) *TypeInfo {
	return basics[k]
}

// basicFromGo maps a go/types basic kind to BasicKind.
func basicFromGo(b *types.Basic) BasicKind {
	switch b.Kind() {
	case types.Bool, types.UntypedBool:
		return BasicBool
	case types.Int, types.UntypedInt:
		return BasicInt
	case types.Int8:
		return BasicInt8
	case types.Int16:
		return BasicInt16
	case types.Int32, types.UntypedRune:
		return BasicInt32
	case types.Int64:
		return BasicInt64
	case types.Uint:
		return BasicUint
	case types.Uint8:
		return BasicUint8
	case types.Uint16:
		return BasicUint16
	case types.Uint32:
		return BasicUint32
	case types.Uint64, types.Uintptr:
		return BasicUint64
	case types.Float32:
		return BasicFloat32
	case types.Float64, types.UntypedFloat:
		return BasicFloat64
	case types.String, types.UntypedString:
		return BasicString
	default:
		return BasicInvalid
	}
}

// Object is the empty interface every type is assignable to.
var Object = &TypeInfo{Kind: TypeKindInterface}

// PointerTo returns the canonical nullable wrapper of t.
func (g *TypeGraph) PointerTo(t *TypeInfo) *TypeInfo {
	if t.IsNullable() {
		return t
	}

	return g.canonical(&TypeInfo{Kind: TypeKindPointer, ElemType: t})
}

// SliceOf returns the canonical slice of t.
func (g *TypeGraph) SliceOf(t *TypeInfo) *TypeInfo {
	return g.canonical(&TypeInfo{
		Kind:       TypeKindSlice,
		ElemType:   t,
		Collection: &CollectionInfo{Kind: CollectionSlice},
	})
}

// ArrayOf returns the canonical array of n elements of t.
func (g *TypeGraph) ArrayOf(t *TypeInfo, n int) *TypeInfo {
	return g.canonical(&TypeInfo{
		Kind:       TypeKindArray,
		ElemType:   t,
		Len:        n,
		ValueType:  true,
		Collection: &CollectionInfo{Kind: CollectionArray},
	})
}

// MapOf returns the canonical map from k to v.
func (g *TypeGraph) MapOf(k, v *TypeInfo) *TypeInfo {
	return g.canonical(&TypeInfo{
		Kind:       TypeKindMap,
		KeyType:    k,
		ElemType:   v,
		Collection: &CollectionInfo{Kind: CollectionMap},
	})
}

// TupleOf returns the canonical tuple with the given elements.
func (g *TypeGraph) TupleOf(elems ...FieldInfo) *TypeInfo {
	t := &TypeInfo{Kind: TypeKindTuple, Fields: elems, ValueType: true}

	params := make([]Param, len(elems))
	for i, e := range elems {
		params[i] = Param{Name: e.Name, Type: e.Type}
	}

	t.Constructors = []Constructor{{Params: params, Accessible: true}}

	return g.canonical(t)
}

// canonical returns the registered descriptor structurally equal to t,
// registering t when none exists.
func (g *TypeGraph) canonical(t *TypeInfo) *TypeInfo {
	if g.derived == nil {
		g.derived = make(map[string]*TypeInfo)
	}

	key := t.Key()
	if existing, ok := g.derived[key]; ok {
		return existing
	}

	g.derived[key] = t

	return t
}
