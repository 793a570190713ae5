package plan

import (
	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
	"caster-planner/internal/mapping"
)

// BuilderFunc returns the plan of a request, or nil when its strategy does
// not apply. Builders must return an untyped nil.
type BuilderFunc func(*Request) Plan

// DefaultBuilders returns the strategy builders in priority order.
func DefaultBuilders() []BuilderFunc {
	return []BuilderFunc{
		buildUserDefined,
		buildIdentity,
		buildNullable,
		buildExplicitCast,
		buildParseFormat,
		buildEnum,
		buildDictionary,
		buildCollection,
		buildDerivedTypes,
		buildObject,
	}
}

// ExistingTargetBuilders returns the builders of mappings updating an
// existing target, in priority order.
func ExistingTargetBuilders() []BuilderFunc {
	return []BuilderFunc{
		buildExistingUserDefined,
		buildExistingNullable,
		buildExistingDictionary,
		buildExistingCollection,
		buildExistingObject,
	}
}

func buildUserDefined(req *Request) Plan {
	cfg := req.ctx.config

	if use := req.Config.Hints.Use; use != "" {
		um := cfg.UserMappingByName(use)

		switch {
		case um == nil || um.ExistingTarget:
		case applicable(um, req.Source, req.Target):
			return &UserDefined{Types: req.types(), Name: um.Name}
		case (req.Source.IsNullable() || req.Target.IsNullable()) &&
			applicable(um, req.Source.NonNullable(), req.Target.NonNullable()):
			// The named mapping converts the wrapped types; the nullable
			// builder passes the hint on to them.
			if p := buildNullable(req); p != nil {
				return p
			}

			req.Abort()

			return nil
		}

		req.Report(diagnostic.UserMappingNotApplicable, "", use, req.Source, req.Target)
		req.Abort()

		return nil
	}

	if um := cfg.UserMapping(req.Source, req.Target, false); um != nil {
		return &UserDefined{Types: req.types(), Name: um.Name}
	}

	return nil
}

func applicable(um *mapping.UserMappingDef, src, dst *analyze.TypeInfo) bool {
	return analyze.AssignableTo(src, um.Source) && analyze.AssignableTo(um.Target, dst)
}

func buildExistingUserDefined(req *Request) Plan {
	if um := req.ctx.config.UserMapping(req.Source, req.Target, true); um != nil {
		return &UserDefined{Types: req.types(), Name: um.Name, ExistingTarget: true}
	}

	return nil
}

// buildIdentity passes equal types through. Deep cloning only lets
// immutable types through. Implicit reference conversions (upcasts and
// conversions to the empty interface) are passed through as well when
// no clone is requested.
func buildIdentity(req *Request) Plan {
	src, dst := req.Source, req.Target
	deep := req.Options().DeepCloning

	if analyze.Identical(src, dst) {
		if deep && !src.IsImmutable() {
			return nil
		}

		return &DirectAssignment{Types: req.types()}
	}

	if deep || src.IsNullable() != dst.IsNullable() {
		return nil
	}

	if analyze.ClassifyConversion(src, dst).Kind == analyze.ConversionImplicitReference {
		return &DirectAssignment{Types: req.types()}
	}

	return nil
}

func buildExplicitCast(req *Request) Plan {
	src, dst := req.Source, req.Target
	opts := req.Options()

	if !opts.Enabled(mapping.ConversionExplicitCast) || src.IsTuple() || dst.IsTuple() || src.IsObject() {
		return nil
	}

	if opts.DeepCloning && !src.IsImmutable() && !dst.IsImmutable() {
		return nil
	}

	conv := analyze.ClassifyConversion(src, dst)
	if !conv.IsValue() && conv.Kind != analyze.ConversionUserDefined {
		return nil
	}

	return &Cast{Types: req.types(), Conversion: conv.Kind, Operator: conv.Operator}
}

// buildParseFormat converts to and from strings. Enums are left to the enum builder.
func buildParseFormat(req *Request) Plan {
	src, dst := req.Source, req.Target
	opts := req.Options()
	hints := req.Config.Hints

	if src.IsEnum() || dst.IsEnum() {
		return nil
	}

	switch {
	case dst.IsString() && !src.IsString() && src.CanFormat() && opts.Enabled(mapping.ConversionToString):
		return &ToStringMapping{
			Types:          req.types(),
			Format:         hints.Format,
			FormatProvider: hints.FormatProvider,
		}

	case src.IsString() && !dst.IsString() && dst.CanParse() && opts.Enabled(mapping.ConversionParse):
		p := &ParseMapping{
			Types:          req.types(),
			Func:           dst.ParseFunc,
			Format:         hints.Format,
			FormatProvider: hints.FormatProvider,
		}

		if dst.Kind == analyze.TypeKindBasic {
			p.Basic = dst.Basic
		}

		return p
	}

	return nil
}
