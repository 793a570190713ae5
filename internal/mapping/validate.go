package mapping

import (
	"fmt"

	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
)

// Validate validates a mapping file against the given type graph.
// This is a structural validation step only: option values, path syntax,
// type names and cross references. Member paths are resolved against the
// types while planning.
func Validate(mf *MappingFile, graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	validateOptions(res, "", "options", mf.Options)

	userNames := map[string]struct{}{}

	for _, um := range mf.UserMappings {
		tpStr := fmt.Sprintf("%s->%s", um.Source, um.Target)

		if _, ok := userNames[um.Name]; ok {
			res.AddError("duplicate_user_mapping", fmt.Sprintf("duplicate user mapping %q", um.Name), tpStr, um.Name)
			continue
		}

		userNames[um.Name] = struct{}{}

		validateTypeName(res, "source_type_not_found", um.Source, tpStr, graph)
		validateTypeName(res, "target_type_not_found", um.Target, tpStr, graph)
	}

	seenPairs := map[string]struct{}{}

	for i := range mf.TypeMappings {
		tm := &mf.TypeMappings[i]
		tpStr := fmt.Sprintf("%s->%s", tm.Source, tm.Target)

		if _, ok := seenPairs[tpStr]; ok {
			res.AddError("duplicate_type_mapping", fmt.Sprintf("type pair %s is configured twice", tpStr), tpStr, "")
			continue
		}

		seenPairs[tpStr] = struct{}{}

		validateTypeName(res, "source_type_not_found", tm.Source, tpStr, graph)
		validateTypeName(res, "target_type_not_found", tm.Target, tpStr, graph)
		validateOptions(res, tpStr, "options", tm.Options)

		for _, m := range tm.Members {
			validateMember(res, tpStr, m, userNames)
		}

		for _, p := range tm.IgnoreSources {
			validatePath(res, "invalid_ignore_path", tpStr, p)
		}

		for _, p := range tm.IgnoreTargets {
			validatePath(res, "invalid_ignore_path", tpStr, p)
		}

		for _, p := range tm.Nested {
			validatePath(res, "invalid_nested_path", tpStr, p)
		}

		if tm.Enum != nil {
			validateEnum(res, tpStr, tm.Enum)
		}

		for _, d := range tm.Derived {
			validateTypeName(res, "derived_type_not_found", d.Source, tpStr, graph)
			validateTypeName(res, "derived_type_not_found", d.Target, tpStr, graph)
		}

		argNames := map[string]struct{}{}

		for _, a := range tm.Requires {
			if _, ok := argNames[a.Name]; ok || !isValidIdent(a.Name) {
				res.AddError("invalid_requires", fmt.Sprintf("invalid or duplicate argument name %q", a.Name), tpStr, a.Name)
			}

			argNames[a.Name] = struct{}{}

			validateTypeName(res, "requires_type_not_found", a.Type, tpStr, graph)
		}
	}

	return res
}

func validateTypeName(res *diagnostic.Diagnostics, code, name, typePair string, graph *analyze.TypeGraph) {
	if _, err := graph.Lookup(name); err != nil {
		res.AddError(code, err.Error(), typePair, name)
	}
}

func validatePath(res *diagnostic.Diagnostics, code, typePair, path string) {
	if _, err := ParsePath(path); err != nil {
		res.AddError(code, err.Error(), typePair, path)
	}
}

func validateMember(res *diagnostic.Diagnostics, typePair string, m MemberMapping, userNames map[string]struct{}) {
	validatePath(res, "invalid_source_path", typePair, m.Source)
	validatePath(res, "invalid_target_path", typePair, m.Target)

	if !m.IsValid() {
		res.Report(diagnostic.InvalidMemberConfiguration, typePair, m.Target, m.Target)
	}

	if m.Use != "" {
		if _, ok := userNames[m.Use]; !ok {
			res.AddError("unknown_user_mapping",
				fmt.Sprintf("member %s uses unknown user mapping %q", m.Target, m.Use), typePair, m.Target)
		}
	}
}

func validateEnum(res *diagnostic.Diagnostics, typePair string, em *EnumMapping) {
	if em.Strategy != nil && !em.Strategy.IsValid() {
		res.AddError("invalid_option", fmt.Sprintf("enum.strategy: unknown value %q", *em.Strategy), typePair, "enum")
	}

	if em.Required != nil && !em.Required.IsValid() {
		res.AddError("invalid_option", fmt.Sprintf("enum.required: unknown value %q", *em.Required), typePair, "enum")
	}

	seen := map[string]struct{}{}

	for _, v := range em.Values {
		if _, ok := seen[v.Source]; ok {
			res.Report(diagnostic.EnumExplicitValueDuplicated, typePair, "enum", v.Source, typePair)
			continue
		}

		seen[v.Source] = struct{}{}
	}
}

func validateOptions(res *diagnostic.Diagnostics, typePair, path string, o MapperOptions) {
	invalid := func(name string, value any) {
		res.AddError("invalid_option", fmt.Sprintf("%s.%s: unknown value %q", path, name, value), typePair, path)
	}

	if o.NameMatching != nil && !o.NameMatching.IsValid() {
		invalid("name_matching", *o.NameMatching)
	}

	if o.EnumStrategy != nil && !o.EnumStrategy.IsValid() {
		invalid("enum_strategy", *o.EnumStrategy)
	}

	if o.RequiredMapping != nil && !o.RequiredMapping.IsValid() {
		invalid("required_mapping", *o.RequiredMapping)
	}

	if o.IgnoreObsolete != nil && !o.IgnoreObsolete.IsValid() {
		invalid("ignore_obsolete", *o.IgnoreObsolete)
	}

	if o.NullFallback != nil && !o.NullFallback.IsValid() {
		invalid("null_fallback", *o.NullFallback)
	}

	if o.MaxDepth != nil && *o.MaxDepth <= 0 {
		res.AddError("invalid_option", fmt.Sprintf("%s.max_depth: must be positive, got %d", path, *o.MaxDepth), typePair, path)
	}

	for _, c := range o.Conversions {
		if !c.IsValid() {
			invalid("conversions", c)
		}
	}
}
