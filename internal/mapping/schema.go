package mapping

import (
	"slices"
)

// MappingFile represents the root of a YAML mapping configuration file.
type MappingFile struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Options apply to every mapping unless a type mapping overrides them.
	Options MapperOptions `yaml:"options,omitempty"`

	// TypeMappings configure individual source/target type pairs.
	TypeMappings []TypeMapping `yaml:"mappings"`

	// UserMappings declare hand-written mapping functions the planner must reuse.
	UserMappings []UserMapping `yaml:"user_mappings,omitempty"`
}

// MapperOptions are the mapper-wide switches. Every field is optional so a
// type mapping can override a subset of them.
type MapperOptions struct {
	// DeepCloning forces new instances even for identical source and target types.
	DeepCloning *bool `yaml:"deep_cloning,omitempty"`
	// ReferenceHandling preserves object identity across cyclic graphs.
	ReferenceHandling *bool `yaml:"reference_handling,omitempty"`
	// NameMatching selects case sensitive or insensitive member matching.
	NameMatching *NameMatching `yaml:"name_matching,omitempty" jsonschema:"enum=case_sensitive,enum=case_insensitive"`
	// PreferParameterlessConstructors breaks constructor ties in favour of
	// the constructor with fewer parameters.
	PreferParameterlessConstructors *bool `yaml:"prefer_parameterless_constructors,omitempty"`
	// EnumStrategy is the default enum-to-enum strategy.
	EnumStrategy *EnumStrategy `yaml:"enum_strategy,omitempty" jsonschema:"enum=by_value,enum=by_name,enum=by_value_check_defined,enum=explicit"`
	// EnumIgnoreCase makes by-name enum matching case insensitive.
	EnumIgnoreCase *bool `yaml:"enum_ignore_case,omitempty"`
	// RequiredMapping selects which side must be fully mapped.
	RequiredMapping *Sides `yaml:"required_mapping,omitempty" jsonschema:"enum=none,enum=source,enum=target,enum=both"`
	// IgnoreObsolete selects which side ignores deprecated members.
	IgnoreObsolete *Sides `yaml:"ignore_obsolete,omitempty" jsonschema:"enum=none,enum=source,enum=target,enum=both"`
	// MapOnlyPrimitives restricts automatic member mapping to primitive members.
	MapOnlyPrimitives *bool `yaml:"map_only_primitives,omitempty"`
	// NullFallback overrides the fallback used when a nullable source is null.
	NullFallback *NullFallback `yaml:"null_fallback,omitempty" jsonschema:"enum=default,enum=empty_string,enum=create_instance,enum=throw"`
	// ThrowOnNullMismatch throws when a null source meets a non-nullable
	// reference target instead of using a lenient fallback.
	ThrowOnNullMismatch *bool `yaml:"throw_on_null_mismatch,omitempty"`
	// MaxDepth bounds nested mapping requests.
	MaxDepth *int `yaml:"max_depth,omitempty"`
	// Conversions lists the enabled automatic conversions; empty enables all.
	Conversions []ConversionType `yaml:"conversions,omitempty"`
}

// TypeMapping configures one source/target type pair.
type TypeMapping struct {
	// Source type identifier (e.g., "store.Order" or full path).
	Source string `yaml:"source"`

	// Target type identifier (e.g., "warehouse.Order" or full path).
	Target string `yaml:"target"`

	// Options override the mapper-wide options for this pair.
	Options MapperOptions `yaml:"options,omitempty"`

	// IgnoreSources lists source members that are not mapped.
	IgnoreSources StringOrArray `yaml:"ignore_sources,omitempty"`

	// IgnoreTargets lists target members that are not mapped.
	IgnoreTargets StringOrArray `yaml:"ignore_targets,omitempty"`

	// Members pairs source and target member paths explicitly.
	Members []MemberMapping `yaml:"members,omitempty"`

	// Nested lists source member paths whose members are matched as if
	// they were declared on the source root.
	Nested StringOrArray `yaml:"nested,omitempty"`

	// Enum configures enum-to-enum mappings.
	Enum *EnumMapping `yaml:"enum,omitempty"`

	// Derived declares the concrete subtypes dispatched at runtime.
	Derived []DerivedType `yaml:"derived,omitempty"`

	// Expression requires the mapping to be a single expression.
	Expression bool `yaml:"expression,omitempty"`

	// Requires lists extra values the mapping function receives. They
	// satisfy constructor parameters and members with the same name.
	Requires []ArgDef `yaml:"requires,omitempty"`
}

// ArgDef is an extra argument of a mapping function.
type ArgDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// MemberMapping is an explicit source/target member pairing with optional
// conversion hints.
type MemberMapping struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	// Format is passed to the format operation when converting to a string.
	Format string `yaml:"format,omitempty"`
	// FormatProvider names the provider passed along with Format.
	FormatProvider string `yaml:"format_provider,omitempty"`
	// Use names the user mapping converting the member.
	Use string `yaml:"use,omitempty"`
}

// IsValid reports whether the configuration is consistent: a named
// converter and format hints are mutually exclusive.
func (m MemberMapping) IsValid() bool {
	return m.Use == "" || (m.Format == "" && m.FormatProvider == "")
}

// Hints returns the conversion hints of the member mapping.
func (m MemberMapping) Hints() MemberHints {
	return MemberHints{Format: m.Format, FormatProvider: m.FormatProvider, Use: m.Use}
}

// EnumMapping configures how enum values are paired.
type EnumMapping struct {
	Strategy *EnumStrategy `yaml:"strategy,omitempty" jsonschema:"enum=by_value,enum=by_name,enum=by_value_check_defined,enum=explicit"`
	// IgnoreCase makes by-name matching case insensitive.
	IgnoreCase *bool `yaml:"ignore_case,omitempty"`
	// Fallback is the target value used for unmatched source values.
	Fallback string `yaml:"fallback,omitempty"`
	// IgnoreSources and IgnoreTargets exclude values from completeness checks.
	IgnoreSources StringOrArray `yaml:"ignore_sources,omitempty"`
	IgnoreTargets StringOrArray `yaml:"ignore_targets,omitempty"`
	// Values pairs source and target values explicitly.
	Values []EnumValuePair `yaml:"values,omitempty"`
	// Required overrides the required mapping strictness for this enum.
	Required *Sides `yaml:"required,omitempty" jsonschema:"enum=none,enum=source,enum=target,enum=both"`
}

// EnumValuePair maps one source enum value to one target enum value.
type EnumValuePair struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// DerivedType pairs a concrete source subtype with its target type.
type DerivedType struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// UserMapping declares a hand-written mapping function.
type UserMapping struct {
	// Name of the function, e.g. "mappers.MoneyToCents".
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	// ExistingTarget marks a function updating an existing target instance.
	ExistingTarget bool `yaml:"existing_target,omitempty"`
	// Default selects this function when several exist for the same pair.
	Default bool `yaml:"default,omitempty"`
}

// StringOrArray accepts either a single string or a list in YAML.
type StringOrArray []string

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}
