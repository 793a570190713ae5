package analyze

import "caster-planner/internal/common"

// ConversionKind classifies a built-in or user defined conversion between two types.
type ConversionKind int

const (
	ConversionNone ConversionKind = iota
	ConversionIdentity
	// ConversionNumeric converts between numeric kinds (a value conversion).
	ConversionNumeric
	// ConversionEnumeration converts between an enum and a numeric kind.
	ConversionEnumeration
	// ConversionImplicitReference is an always-safe upcast.
	ConversionImplicitReference
	// ConversionExplicitReference is a downcast checked at runtime.
	ConversionExplicitReference
	// ConversionUserDefined calls a conversion operator.
	ConversionUserDefined
)

// String returns a human-readable representation of the ConversionKind.
func (k ConversionKind) String() string {
	switch k {
	case ConversionNone:
		return "none"
	case ConversionIdentity:
		return "identity"
	case ConversionNumeric:
		return "numeric"
	case ConversionEnumeration:
		return "enumeration"
	case ConversionImplicitReference:
		return "implicit_reference"
	case ConversionExplicitReference:
		return "explicit_reference"
	case ConversionUserDefined:
		return "user_defined"
	default:
		return common.UnknownStr
	}
}

// Conversion is the result of classifying a conversion.
type Conversion struct {
	Kind ConversionKind
	// Operator is set for ConversionUserDefined.
	Operator *ConversionOp
}

// IsValue reports whether the conversion converts a value without a runtime type check.
func (c Conversion) IsValue() bool {
	return c.Kind == ConversionNumeric || c.Kind == ConversionEnumeration
}

// Identical reports whether two descriptors denote the same type.
func Identical(a, b *TypeInfo) bool {
	if a == b {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	return a.Key() == b.Key()
}

// AssignableTo reports whether a value of src can be stored in dst without a conversion.
func AssignableTo(src, dst *TypeInfo) bool {
	if Identical(src, dst) || dst.IsObject() {
		return true
	}

	if src.IsNullable() && dst.IsNullable() {
		return derivesFrom(src.ElemType, dst.ElemType)
	}

	if dst.Kind == TypeKindTypeParam {
		return dst.Underlying == nil || AssignableTo(src, dst.Underlying)
	}

	return derivesFrom(src, dst)
}

// Implements reports whether t implements iface directly or through a base type.
func Implements(t, iface *TypeInfo) bool {
	for cur := t; cur != nil; cur = cur.Base {
		for _, i := range cur.Interfaces {
			if Identical(i, iface) {
				return true
			}
		}
	}

	return false
}

func derivesFrom(src, dst *TypeInfo) bool {
	if src == nil || dst == nil {
		return false
	}

	for cur := src; cur != nil; cur = cur.Base {
		if Identical(cur, dst) {
			return true
		}
	}

	return dst.Kind == TypeKindInterface && Implements(src, dst)
}

// ClassifyConversion determines how src can be converted to dst.
func ClassifyConversion(src, dst *TypeInfo) Conversion {
	if Identical(src, dst) {
		return Conversion{Kind: ConversionIdentity}
	}

	if op := FindConversionOp(src, dst); op != nil {
		return Conversion{Kind: ConversionUserDefined, Operator: op}
	}

	switch {
	case src.Kind == TypeKindBasic && dst.Kind == TypeKindBasic:
		if src.Basic.IsNumeric() && dst.Basic.IsNumeric() {
			return Conversion{Kind: ConversionNumeric}
		}

		return Conversion{Kind: ConversionNone}

	case src.IsEnum() && dst.Kind == TypeKindBasic && dst.Basic.IsNumeric() && src.Enum.Underlying.Basic.IsNumeric(),
		dst.IsEnum() && src.Kind == TypeKindBasic && src.Basic.IsNumeric() && dst.Enum.Underlying.Basic.IsNumeric():
		return Conversion{Kind: ConversionEnumeration}
	}

	if AssignableTo(src, dst) {
		return Conversion{Kind: ConversionImplicitReference}
	}

	if AssignableTo(dst, src) && src.IsReferenceType() {
		return Conversion{Kind: ConversionExplicitReference}
	}

	return Conversion{Kind: ConversionNone}
}

// FindConversionOp returns a user defined conversion from src to dst
// declared on either side, or nil.
func FindConversionOp(src, dst *TypeInfo) *ConversionOp {
	for _, owner := range []*TypeInfo{src, dst} {
		for i := range owner.Conversions {
			op := &owner.Conversions[i]
			if Identical(op.From, src) && Identical(op.To, dst) {
				return op
			}
		}
	}

	return nil
}
