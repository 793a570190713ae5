package mapping

import "slices"

// NameMatching controls how member names are compared.
type NameMatching string

const (
	NameMatchingCaseSensitive   NameMatching = "case_sensitive"
	NameMatchingCaseInsensitive NameMatching = "case_insensitive"
)

// IsValid returns true if the value is known.
func (n NameMatching) IsValid() bool {
	return n == NameMatchingCaseSensitive || n == NameMatchingCaseInsensitive
}

// EnumStrategy selects how enum values are paired.
type EnumStrategy string

const (
	// EnumByValue casts the underlying value.
	EnumByValue EnumStrategy = "by_value"
	// EnumByName pairs values with equal names.
	EnumByName EnumStrategy = "by_name"
	// EnumByValueCheckDefined casts the underlying value after checking
	// that it is defined on the target, using the fallback otherwise.
	EnumByValueCheckDefined EnumStrategy = "by_value_check_defined"
	// EnumExplicit only uses the configured value table.
	EnumExplicit EnumStrategy = "explicit"
)

// IsValid returns true if the value is known.
func (e EnumStrategy) IsValid() bool {
	switch e {
	case EnumByValue, EnumByName, EnumByValueCheckDefined, EnumExplicit:
		return true
	default:
		return false
	}
}

// Sides selects the source side, the target side, both or neither.
type Sides string

const (
	SidesNone   Sides = "none"
	SidesSource Sides = "source"
	SidesTarget Sides = "target"
	SidesBoth   Sides = "both"
)

// IsValid returns true if the value is known.
func (s Sides) IsValid() bool {
	switch s {
	case SidesNone, SidesSource, SidesTarget, SidesBoth:
		return true
	default:
		return false
	}
}

// Source reports whether the source side is selected.
func (s Sides) Source() bool {
	return s == SidesSource || s == SidesBoth
}

// Target reports whether the target side is selected.
func (s Sides) Target() bool {
	return s == SidesTarget || s == SidesBoth
}

// NullFallback is the value substituted when a nullable source is null.
type NullFallback string

const (
	// NullFallbackDefault uses the zero value (nil for nullable targets).
	NullFallbackDefault NullFallback = "default"
	// NullFallbackEmptyString uses "" for string targets.
	NullFallbackEmptyString NullFallback = "empty_string"
	// NullFallbackCreateInstance creates a new instance with the parameterless constructor.
	NullFallbackCreateInstance NullFallback = "create_instance"
	// NullFallbackThrow raises a runtime error naming the null path.
	NullFallbackThrow NullFallback = "throw"
)

// IsValid returns true if the value is known.
func (n NullFallback) IsValid() bool {
	switch n {
	case NullFallbackDefault, NullFallbackEmptyString, NullFallbackCreateInstance, NullFallbackThrow:
		return true
	default:
		return false
	}
}

// ConversionType names one family of automatic conversions.
type ConversionType string

const (
	ConversionExplicitCast ConversionType = "explicit_cast"
	ConversionParse        ConversionType = "parse"
	ConversionToString     ConversionType = "to_string"
	ConversionEnumToEnum   ConversionType = "enum_to_enum"
	ConversionEnumToString ConversionType = "enum_to_string"
	ConversionStringToEnum ConversionType = "string_to_enum"
	ConversionCollection   ConversionType = "collection"
	ConversionDictionary   ConversionType = "dictionary"
	ConversionObject       ConversionType = "object"
	ConversionTuple        ConversionType = "tuple"
)

// AllConversions lists every conversion type.
var AllConversions = []ConversionType{
	ConversionExplicitCast,
	ConversionParse,
	ConversionToString,
	ConversionEnumToEnum,
	ConversionEnumToString,
	ConversionStringToEnum,
	ConversionCollection,
	ConversionDictionary,
	ConversionObject,
	ConversionTuple,
}

// IsValid returns true if the value is known.
func (c ConversionType) IsValid() bool {
	return slices.Contains(AllConversions, c)
}
