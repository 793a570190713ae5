package match

import (
	"caster-planner/internal/analyze"
	"caster-planner/internal/common"
)

// TypeCompatibility represents how easily a value of one type maps to another.
type TypeCompatibility int

const (
	// TypeIncompatible means no automatic conversion is likely.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsMapping means a nested mapping (object, collection, enum,
	// parse or format) can probably convert the value.
	TypeNeedsMapping
	// TypeConvertible means a cast or conversion operator converts the value.
	TypeConvertible
	// TypeAssignable means the value can be stored directly.
	TypeAssignable
	// TypeIdentical means the types are the same.
	TypeIdentical
)

const (
	VerdictIdentical    = "identical"
	VerdictAssignable   = "assignable"
	VerdictConvertible  = "convertible"
	VerdictNeedsMapping = "needs_mapping"
	VerdictIncompatible = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsMapping:
		return VerdictNeedsMapping
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return common.UnknownStr
	}
}

// weight normalizes the level to the 0-1 range.
func (c TypeCompatibility) weight() float64 {
	switch c {
	case TypeIdentical:
		return 1.0
	case TypeAssignable:
		return 0.9
	case TypeConvertible:
		return 0.7
	case TypeNeedsMapping:
		return 0.4
	default:
		return 0.0
	}
}

// ScoreTypeCompatibility estimates how source maps to target. Nullable
// wrappers are looked through; a nullable source never scores better than
// convertible for a non-nullable target.
func ScoreTypeCompatibility(source, target *analyze.TypeInfo) TypeCompatibility {
	if source == nil || target == nil {
		return TypeIncompatible
	}

	if analyze.Identical(source, target) {
		return TypeIdentical
	}

	if analyze.AssignableTo(source, target) {
		return TypeAssignable
	}

	if source.IsNullable() || target.IsNullable() {
		inner := ScoreTypeCompatibility(source.NonNullable(), target.NonNullable())
		if source.IsNullable() != target.IsNullable() {
			return min(inner, TypeConvertible)
		}

		return inner
	}

	conv := analyze.ClassifyConversion(source, target)
	if conv.IsValue() || conv.Kind == analyze.ConversionUserDefined {
		return TypeConvertible
	}

	if needsMapping(source, target) {
		return TypeNeedsMapping
	}

	return TypeIncompatible
}

// needsMapping reports whether a nested mapping strategy can plausibly convert source to target.
func needsMapping(source, target *analyze.TypeInfo) bool {
	switch {
	case source.IsEnum() && target.IsEnum():
		return true
	case target.IsString() && source.CanFormat():
		return true
	case source.IsString() && target.CanParse():
		return true
	case source.IsDictionary() && target.IsDictionary():
		return true
	case source.IsCollection() && target.IsCollection():
		return ScoreTypeCompatibility(source.ElemType, target.ElemType) > TypeIncompatible
	case source.Kind == analyze.TypeKindStruct && target.Kind == analyze.TypeKindStruct:
		return true
	default:
		return false
	}
}
