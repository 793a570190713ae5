package plan

import (
	"strings"

	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
	"caster-planner/internal/mapping"
)

func buildEnum(req *Request) Plan {
	src, dst := req.Source, req.Target
	opts := req.Options()

	switch {
	case src.IsEnum() && dst.IsEnum():
		if !opts.Enabled(mapping.ConversionEnumToEnum) {
			return nil
		}

		return buildEnumToEnum(req)

	case src.IsEnum() && dst.IsString():
		if !opts.Enabled(mapping.ConversionEnumToString) {
			return nil
		}

		return buildEnumToString(req)

	case src.IsString() && dst.IsEnum():
		if !opts.Enabled(mapping.ConversionStringToEnum) {
			return nil
		}

		return buildStringToEnum(req)
	}

	return nil
}

func buildEnumToEnum(req *Request) Plan {
	src, dst := req.Source, req.Target
	ec := req.Config.Enum

	em := &EnumMapping{
		Types:      req.types(),
		Direction:  EnumToEnum,
		Strategy:   ec.Strategy,
		IgnoreCase: ec.IgnoreCase,
		Fallback:   enumFallback(req),
	}

	explicit := explicitEnumCases(req)

	if ec.Strategy == mapping.EnumByName || ec.Strategy == mapping.EnumExplicit {
		return mapEnumByName(req, em, explicit)
	}

	if !enumUnderlyingCompatible(src, dst) {
		req.Report(diagnostic.EnumUnderlyingIncompatible, "", src, dst)

		em.Strategy = mapping.EnumByName

		return mapEnumByName(req, em, explicit)
	}

	if src.Enum.Flags || dst.Enum.Flags {
		if extra := src.Enum.Bits() &^ dst.Enum.Bits(); extra != 0 {
			req.Report(diagnostic.EnumFlagsBitsUnmatched, "", src, extra, dst)
		}
	}

	em.Cases = explicit

	if ec.Strategy == mapping.EnumByValueCheckDefined {
		for _, v := range dst.Enum.Values {
			em.Defined = append(em.Defined, v.Name)
		}
	}

	return em
}

// mapEnumByName pairs values by name. Explicit cases win over names; the
// explicit strategy uses nothing else.
func mapEnumByName(req *Request, em *EnumMapping, explicit []EnumCase) Plan {
	src, dst := req.Source, req.Target
	ec := req.Config.Enum
	ignoredSources := nameSet(ec.IgnoreSources)
	ignoredTargets := nameSet(ec.IgnoreTargets)

	bySource := make(map[string]string, len(explicit))
	for _, c := range explicit {
		bySource[c.Source] = c.Target
	}

	targeted := map[string]bool{}
	if em.Fallback != "" {
		targeted[em.Fallback] = true
	}

	for _, v := range src.Enum.Values {
		if ignoredSources[v.Name] {
			continue
		}

		if t, ok := bySource[v.Name]; ok {
			em.Cases = append(em.Cases, EnumCase{Source: v.Name, Target: t})
			targeted[t] = true

			continue
		}

		if em.Strategy != mapping.EnumExplicit {
			if t, ok := findEnumValue(dst.Enum, v.Name, ec.IgnoreCase); ok && !ignoredTargets[t.Name] {
				em.Cases = append(em.Cases, EnumCase{Source: v.Name, Target: t.Name})
				targeted[t.Name] = true

				continue
			}
		}

		if em.Fallback == "" && ec.Required.Source() {
			req.Report(diagnostic.EnumSourceValueNotMapped, v.Name, v.Name, v.Literal, src, dst)
		}
	}

	if ec.Required.Target() {
		for _, v := range dst.Enum.Values {
			if !targeted[v.Name] && !ignoredTargets[v.Name] {
				req.Report(diagnostic.EnumTargetValueNotMapped, v.Name, v.Name, v.Literal, dst, src)
			}
		}
	}

	return em
}

func buildEnumToString(req *Request) Plan {
	ignored := nameSet(req.Config.Enum.IgnoreSources)
	em := &EnumMapping{Types: req.types(), Direction: EnumToString, Strategy: mapping.EnumByName}

	for _, v := range req.Source.Enum.Values {
		if !ignored[v.Name] {
			em.Cases = append(em.Cases, EnumCase{Source: v.Name, Target: v.Name})
		}
	}

	return em
}

func buildStringToEnum(req *Request) Plan {
	ec := req.Config.Enum
	ignored := nameSet(ec.IgnoreTargets)

	em := &EnumMapping{
		Types:      req.types(),
		Direction:  StringToEnum,
		Strategy:   mapping.EnumByName,
		IgnoreCase: ec.IgnoreCase,
		Fallback:   enumFallback(req),
	}

	for _, v := range req.Target.Enum.Values {
		if !ignored[v.Name] {
			em.Cases = append(em.Cases, EnumCase{Source: v.Name, Target: v.Name})
		}
	}

	return em
}

// explicitEnumCases returns the configured value pairs that exist on both
// enums. The first pair of a source value wins.
func explicitEnumCases(req *Request) []EnumCase {
	src, dst := req.Source, req.Target

	var (
		cases []EnumCase
		seen  = map[string]bool{}
	)

	for _, v := range req.Config.Enum.Values {
		_, srcOK := src.Enum.Value(v.Source)
		if !srcOK {
			req.Report(diagnostic.EnumExplicitValueNotFound, v.Source, v.Source, src, dst)
		}

		_, dstOK := dst.Enum.Value(v.Target)
		if !dstOK {
			req.Report(diagnostic.EnumExplicitValueNotFound, v.Target, v.Target, src, dst)
		}

		if seen[v.Source] {
			req.Report(diagnostic.EnumExplicitValueDuplicated, v.Source, v.Source, req.TypePair())
			continue
		}

		if !srcOK || !dstOK {
			continue
		}

		seen[v.Source] = true
		cases = append(cases, EnumCase{Source: v.Source, Target: v.Target})
	}

	return cases
}

func enumFallback(req *Request) string {
	fb := req.Config.Enum.Fallback
	if fb == "" {
		return ""
	}

	if _, ok := req.Target.Enum.Value(fb); !ok {
		req.Report(diagnostic.EnumFallbackInvalid, "", fb, req.Target)
		return ""
	}

	return fb
}

func findEnumValue(e *analyze.EnumInfo, name string, ignoreCase bool) (analyze.EnumValue, bool) {
	if v, ok := e.Value(name); ok {
		return v, true
	}

	if ignoreCase {
		for _, v := range e.Values {
			if strings.EqualFold(v.Name, name) {
				return v, true
			}
		}
	}

	return analyze.EnumValue{}, false
}

// enumUnderlyingCompatible reports whether a value cast between the enums
// keeps the value intact.
func enumUnderlyingCompatible(src, dst *analyze.TypeInfo) bool {
	a, b := src.Enum.Underlying, dst.Enum.Underlying
	if a == nil || b == nil {
		return a == b
	}

	if a.Kind == analyze.TypeKindBasic && b.Kind == analyze.TypeKindBasic {
		return (a.Basic.IsNumeric() && b.Basic.IsNumeric()) || a.Basic == b.Basic
	}

	return analyze.Identical(a, b)
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}

	return set
}
