package analyze

import (
	"strconv"
	"strings"
)

// String returns a human-readable representation of a TypeInfo,
// qualifying named types with their package alias.
// Examples: "store.Order", "*store.Customer", "[]int", "map[string]store.Product".
func (t *TypeInfo) String() string {
	return t.format(TypeID.Short)
}

// Key returns the structural identity of a type. Two descriptors with equal
// keys describe the same type.
func (t *TypeInfo) Key() string {
	return t.format(TypeID.String)
}

func (t *TypeInfo) format(name func(TypeID) string) string {
	if t == nil {
		return "<nil>"
	}

	if t.IsNamed() && t.Kind != TypeKindPointer {
		n := name(t.ID)
		if len(t.TypeArgs) > 0 {
			args := make([]string, len(t.TypeArgs))
			for i, a := range t.TypeArgs {
				args[i] = a.format(name)
			}

			n += "[" + strings.Join(args, ",") + "]"
		}

		return n
	}

	switch t.Kind {
	case TypeKindBasic:
		return t.Basic.String()

	case TypeKindPointer:
		return "*" + t.ElemType.format(name)

	case TypeKindSlice:
		return "[]" + t.ElemType.format(name)

	case TypeKindArray:
		return "[" + strconv.Itoa(t.Len) + "]" + t.ElemType.format(name)

	case TypeKindMap:
		return "map[" + t.KeyType.format(name) + "]" + t.ElemType.format(name)

	case TypeKindTuple:
		parts := make([]string, len(t.Fields))
		for i := range t.Fields {
			parts[i] = t.Fields[i].Name + " " + t.Fields[i].Type.format(name)
		}

		return "(" + strings.Join(parts, ", ") + ")"

	case TypeKindInterface:
		if len(t.Fields) == 0 {
			return "any"
		}

		return "interface{...}"

	case TypeKindStruct:
		parts := make([]string, len(t.Fields))
		for i := range t.Fields {
			parts[i] = t.Fields[i].Name + " " + t.Fields[i].Type.format(name)
		}

		return "struct{" + strings.Join(parts, "; ") + "}"

	case TypeKindFunc:
		return "func"

	default:
		if t.GoType != nil {
			return t.GoType.String()
		}

		return "<" + t.Kind.String() + ">"
	}
}
