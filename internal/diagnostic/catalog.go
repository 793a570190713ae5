package diagnostic

import "fmt"

// Descriptor describes one kind of diagnostic: its stable code, its default
// severity and the message template its positional arguments are rendered into.
type Descriptor struct {
	Code     string
	Severity DiagnosticSeverity
	Template string
}

// Report renders desc with args and appends it.
func (d *Diagnostics) Report(desc Descriptor, typePair, fieldPath string, args ...any) {
	d.ReportWithSuggestions(desc, typePair, fieldPath, nil, args...)
}

// ReportWithSuggestions is Report with a list of likely fixes attached.
func (d *Diagnostics) ReportWithSuggestions(
	desc Descriptor,
	typePair, fieldPath string,
	suggestions []string,
	args ...any,
) {
	d.Add(Diagnostic{
		Severity:    desc.Severity,
		Code:        desc.Code,
		Message:     fmt.Sprintf(desc.Template, args...),
		Args:        args,
		TypePair:    typePair,
		FieldPath:   fieldPath,
		Suggestions: suggestions,
	})
}

// Mapping engine diagnostics.
var (
	// Resolution and recursion.
	MaxDepthExceeded = Descriptor{"max_depth_exceeded", DiagnosticError,
		"mapping from %s to %s exceeds the maximum depth of %d"}
	CouldNotCreateMapping = Descriptor{"could_not_create_mapping", DiagnosticError,
		"could not create mapping from %s to %s"}
	CouldNotMapMember = Descriptor{"could_not_map_member", DiagnosticError,
		"could not map member %s of type %s to %s of type %s"}
	SourceMemberNotFound = Descriptor{"source_member_not_found", DiagnosticWarning,
		"the member %s on the mapping target type %s was not found on the mapping source type %s"}
	SourceMemberNotMapped = Descriptor{"source_member_not_mapped", DiagnosticInfo,
		"the member %s on the mapping source type %s is not mapped to any member on the mapping target type %s"}
	RequiredMemberNotMapped = Descriptor{"required_member_not_mapped", DiagnosticError,
		"required member %s on the mapping target type %s was not found on the mapping source type %s"}
	NoMemberMappings = Descriptor{"no_member_mappings", DiagnosticWarning,
		"no members are mapped in the object mapping from %s to %s"}
	UserMappingNotApplicable = Descriptor{"user_mapping_not_applicable", DiagnosticError,
		"user mapping %s cannot map %s to %s"}

	// Configuration.
	ConfiguredTargetMemberNotFound = Descriptor{"configured_target_member_not_found", DiagnosticError,
		"specified member %s on mapping target type %s was not found"}
	ConfiguredSourceMemberNotFound = Descriptor{"configured_source_member_not_found", DiagnosticError,
		"specified member %s on mapping source type %s was not found"}
	ConfiguredNestedMemberNotFound = Descriptor{"configured_nested_member_not_found", DiagnosticError,
		"specified nested member %s on mapping source type %s was not found"}
	NestedMemberNotUsed = Descriptor{"nested_member_not_used", DiagnosticWarning,
		"the nested member %s on the mapping source type %s is not used"}
	IgnoredTargetMemberNotFound = Descriptor{"ignored_target_member_not_found", DiagnosticInfo,
		"ignored target member %s was not found on the mapping target type %s"}
	IgnoredSourceMemberNotFound = Descriptor{"ignored_source_member_not_found", DiagnosticInfo,
		"ignored source member %s was not found on the mapping source type %s"}
	IgnoredTargetMemberExplicitlyMapped = Descriptor{"ignored_target_member_explicitly_mapped", DiagnosticWarning,
		"the target member %s on %s is ignored, but is also mapped explicitly"}
	IgnoredSourceMemberExplicitlyMapped = Descriptor{"ignored_source_member_explicitly_mapped", DiagnosticWarning,
		"the source member %s on %s is ignored, but is also mapped explicitly"}
	InvalidMemberConfiguration = Descriptor{"invalid_member_configuration", DiagnosticError,
		"the member configuration for %s combines a named converter with format hints"}
	MemberConfigOnEnumMapping = Descriptor{"member_config_on_enum_mapping", DiagnosticError,
		"member configurations are not supported on the enum mapping from %s to %s"}
	EnumConfigOnNonEnumMapping = Descriptor{"enum_config_on_non_enum_mapping", DiagnosticError,
		"enum configuration is only supported on enum mappings, %s to %s is not one"}
	DerivedSourceNotAssignable = Descriptor{"derived_source_not_assignable", DiagnosticError,
		"derived source type %s is not assignable to %s"}
	DerivedTargetNotAssignable = Descriptor{"derived_target_not_assignable", DiagnosticError,
		"derived target type %s is not assignable to %s"}
	DerivedSourceDuplicated = Descriptor{"derived_source_duplicated", DiagnosticError,
		"derived source type %s is declared more than once"}

	// Constructors and init-only members.
	NoConstructorFound = Descriptor{"no_constructor_found", DiagnosticError,
		"%s has no accessible constructor with mappable arguments"}
	CannotMapToConfiguredConstructor = Descriptor{"cannot_map_to_configured_constructor", DiagnosticError,
		"cannot map from %s to the preferred constructor of %s"}
	MultipleConfigurationsForCtorParameter = Descriptor{"multiple_configurations_for_ctor_parameter", DiagnosticError,
		"multiple configurations target the constructor parameter %s of %s"}
	CtorParameterDoesNotSupportPaths = Descriptor{"ctor_parameter_does_not_support_paths", DiagnosticError,
		"the constructor parameter %s of %s cannot be targeted by a member path"}
	MultipleConfigurationsForInitOnlyMember = Descriptor{"multiple_configurations_for_init_only_member", DiagnosticError,
		"multiple configurations target the init only member %s of %s"}
	InitOnlyMemberDoesNotSupportPaths = Descriptor{"init_only_member_does_not_support_paths", DiagnosticError,
		"the init only member %s of %s cannot be targeted by a member path"}
	RequiredInitMemberNotMapped = Descriptor{"required_init_member_not_mapped", DiagnosticError,
		"the required init only member %s on %s has no mappable source"}
	OptionalInitMemberNotMapped = Descriptor{"optional_init_member_not_mapped", DiagnosticWarning,
		"the init only member %s on %s has no mappable source and keeps its default value"}
	ReferenceLoopInCtorMapping = Descriptor{"reference_loop_in_ctor_mapping", DiagnosticError,
		"the constructor parameter %s of %s references %s recursively, reference handling cannot resolve it"}
	ReferenceLoopInInitOnlyMapping = Descriptor{"reference_loop_in_init_only_mapping", DiagnosticError,
		"the init only member %s of %s references %s recursively, reference handling cannot resolve it"}

	// Member path legality.
	CannotMapToReadOnlyMember = Descriptor{"cannot_map_to_read_only_member", DiagnosticError,
		"cannot map to the read only member path %s of %s"}
	CannotMapFromWriteOnlyMember = Descriptor{"cannot_map_from_write_only_member", DiagnosticError,
		"cannot map from the write only member path %s of %s"}
	CannotMapToWriteOnlyMemberPath = Descriptor{"cannot_map_to_write_only_member_path", DiagnosticError,
		"cannot map to the member path %s of %s because %s is not readable"}
	CannotMapToTemporarySourceMember = Descriptor{"cannot_map_to_temporary_source_member", DiagnosticError,
		"cannot map to member path %s of %s because %s is a value type that would be modified as a copy"}
	CannotMapToInitOnlyMemberPath = Descriptor{"cannot_map_to_init_only_member_path", DiagnosticError,
		"cannot map to the init only member path %s of %s"}

	// Enums.
	EnumSourceValueNotMapped = Descriptor{"enum_source_value_not_mapped", DiagnosticWarning,
		"enum member %s (%s) on %s not found on target enum %s"}
	EnumTargetValueNotMapped = Descriptor{"enum_target_value_not_mapped", DiagnosticWarning,
		"enum member %s (%s) on %s is not mapped from any source member of %s"}
	EnumExplicitValueDuplicated = Descriptor{"enum_explicit_value_duplicated", DiagnosticError,
		"enum source value %s of %s is mapped more than once"}
	EnumExplicitValueNotFound = Descriptor{"enum_explicit_value_not_found", DiagnosticError,
		"enum value %s configured for the mapping from %s to %s does not exist"}
	EnumUnderlyingIncompatible = Descriptor{"enum_underlying_incompatible", DiagnosticWarning,
		"enum %s cannot be cast to %s by value, their underlying types differ; mapping by name"}
	EnumFlagsBitsUnmatched = Descriptor{"enum_flags_bits_unmatched", DiagnosticWarning,
		"flags enum %s uses bits %#x that have no counterpart in %s"}
	EnumFallbackInvalid = Descriptor{"enum_fallback_invalid", DiagnosticError,
		"enum fallback value %s is not a member of %s"}

	// Null handling.
	NullableSourceToNonNullableTarget = Descriptor{"nullable_source_to_non_nullable_target", DiagnosticInfo,
		"mapping the nullable source %s to the non-nullable target %s uses the %s fallback"}

	// Derived types.
	DerivedTypeMappingMissing = Descriptor{"derived_type_mapping_missing", DiagnosticError,
		"no mapping found from derived type %s to %s"}
)
