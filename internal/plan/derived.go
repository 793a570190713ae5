package plan

import (
	"cmp"
	"slices"

	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
)

// buildDerivedTypes dispatches on the runtime type of the source when
// derived pairs are declared for the request.
func buildDerivedTypes(req *Request) Plan {
	if len(req.Config.Derived) == 0 {
		return nil
	}

	src, dst := req.Source, req.Target
	generic := dst.Kind == analyze.TypeKindTypeParam

	d := &DerivedTypeDispatch{
		Types:         req.types(),
		DefaultCase:   ThrowUnknownDerivedType,
		GenericTarget: generic,
	}

	seen := map[string]bool{}

	for _, rd := range req.Config.Derived {
		if seen[rd.Source.Key()] {
			req.Report(diagnostic.DerivedSourceDuplicated, "", rd.Source)
			continue
		}

		seen[rd.Source.Key()] = true

		if !analyze.AssignableTo(rd.Source, src) {
			req.Report(diagnostic.DerivedSourceNotAssignable, "", rd.Source, src)
			continue
		}

		if !generic && !analyze.AssignableTo(rd.Target, dst) {
			req.Report(diagnostic.DerivedTargetNotAssignable, "", rd.Target, dst)
			continue
		}

		cfg := req.ctx.config.For(rd.Source, rd.Target)
		if analyze.Identical(rd.Source, src) && analyze.Identical(rd.Target, dst) {
			// The declaring pair itself maps without dispatching again.
			cfg.Derived = nil
		}

		if len(cfg.Requires) == 0 {
			cfg = cfg.WithRequires(req.Config.Requires)
		}

		cell := req.ctx.FindOrBuildMapping(rd.Source, rd.Target, cfg)
		if cell == nil {
			req.Report(diagnostic.DerivedTypeMappingMissing, "", rd.Source, rd.Target)
			continue
		}

		d.Cases = append(d.Cases, DerivedCase{
			Source:          rd.Source,
			Target:          rd.Target,
			Mapping:         cell,
			AssignableCheck: generic,
		})
	}

	if len(d.Cases) == 0 {
		return nil
	}

	// More derived types are matched first.
	slices.SortStableFunc(d.Cases, func(a, b DerivedCase) int {
		return cmp.Compare(baseDepth(b.Source), baseDepth(a.Source))
	})

	return d
}

func baseDepth(t *analyze.TypeInfo) int {
	n := 0
	for cur := t.Base; cur != nil; cur = cur.Base {
		n++
	}

	return n
}
