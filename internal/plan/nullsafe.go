package plan

import (
	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
	"caster-planner/internal/mapping"
	"caster-planner/internal/match"
)

// buildNullable maps nullable wrappers by mapping the wrapped types and
// adding a null check where the source can be null.
func buildNullable(req *Request) Plan {
	src, dst := req.Source, req.Target
	if !src.IsNullable() && !dst.IsNullable() {
		return nil
	}

	inner := req.MapWithHints(src.NonNullable(), dst.NonNullable(), req.Config.Hints)
	if inner == nil {
		return nil
	}

	w := &NullWrapped{
		Types:    req.types(),
		Delegate: inner,
		Fallback: selectFallback(req.Options(), dst),
	}

	switch {
	case !src.IsNullable():
		w.Mode = NullPassThrough
	case !inner.Pending() && inner.Inline():
		w.Mode = NullCoalesce
	default:
		w.Mode = NullGuarded
	}

	if src.IsNullable() && !dst.IsNullable() {
		req.Report(diagnostic.NullableSourceToNonNullableTarget, "", src, dst, w.Fallback)
	}

	return w
}

// buildExistingNullable updates an existing target from a nullable source
// only when the source is set.
func buildExistingNullable(req *Request) Plan {
	src, dst := req.Source, req.Target
	if !src.IsNullable() && !dst.IsNullable() {
		return nil
	}

	inner := req.MapExisting(src.NonNullable(), dst.NonNullable())
	if inner == nil {
		return nil
	}

	mode := NullPassThrough
	if src.IsNullable() {
		mode = NullGuarded
	}

	return &NullWrapped{Types: req.types(), Delegate: inner, Mode: mode, Fallback: FallbackDefault}
}

// WrapNullSafe adapts delegate, which maps the final member of source to
// target, to the nullable members before the final one. It returns nil when
// none of them is nullable. A wrapper into a non-nullable target substitutes
// its Fallback for null; callers diagnose that with LosesNull.
func WrapNullSafe(opts mapping.Options, source match.MemberPath, delegate *Cell, target *analyze.TypeInfo) *NullWrapped {
	if !source.IsAnyObjectPathNullable() {
		return nil
	}

	srcType := source.Type()

	w := &NullWrapped{
		Types:    Types{From: srcType, To: target},
		Delegate: delegate,
		Fallback: selectFallback(opts, target),
	}

	for i, m := range source.ObjectPath() {
		if m.Type.IsNullable() {
			w.Checks = append(w.Checks, match.MemberPath{Root: source.Root, Members: source.Members[:i+1]}.FullName())
		}
	}

	switch {
	case srcType.IsNullable() && acceptsNull(delegate, srcType):
		w.Mode = NullConditionalDelegate
	case !delegate.Pending() && delegate.Inline() && readable(source):
		w.Mode = NullCoalesce
	default:
		w.Mode = NullGuarded
	}

	return w
}

// LosesNull reports whether a null source is replaced by the fallback.
func (w *NullWrapped) LosesNull() bool {
	return w != nil && !w.To.IsNullable()
}

// acceptsNull reports whether delegate was built for the nullable type itself.
func acceptsNull(delegate *Cell, nullable *analyze.TypeInfo) bool {
	return delegate.Key.Source == nullable.Key()
}

func readable(path match.MemberPath) bool {
	for _, m := range path.ObjectPath() {
		if !m.CanGet() {
			return false
		}
	}

	return true
}

// selectFallback picks the value substituted for a null source. A nullable
// target always receives null. A configured fallback is used when it is
// legal for the target and Throw is used otherwise.
func selectFallback(opts mapping.Options, target *analyze.TypeInfo) Fallback {
	if target.IsNullable() {
		return FallbackDefault
	}

	if opts.NullFallback != "" {
		f := fallbackOf(opts.NullFallback)
		if fallbackLegal(f, target) {
			return f
		}

		return FallbackThrow
	}

	if !target.IsReferenceType() {
		return FallbackDefault
	}

	if opts.ThrowOnNullMismatch {
		return FallbackThrow
	}

	if canCreateInstance(target) {
		return FallbackCreateInstance
	}

	return FallbackThrow
}

func fallbackOf(f mapping.NullFallback) Fallback {
	switch f {
	case mapping.NullFallbackEmptyString:
		return FallbackEmptyString
	case mapping.NullFallbackCreateInstance:
		return FallbackCreateInstance
	case mapping.NullFallbackThrow:
		return FallbackThrow
	default:
		return FallbackDefault
	}
}

func fallbackLegal(f Fallback, target *analyze.TypeInfo) bool {
	switch f {
	case FallbackDefault:
		return target.IsNullable() || !target.IsReferenceType()
	case FallbackEmptyString:
		return target.IsString()
	case FallbackCreateInstance:
		return canCreateInstance(target)
	default:
		return true
	}
}

func canCreateInstance(t *analyze.TypeInfo) bool {
	if t.Abstract {
		return false
	}

	if t.Collection != nil {
		return t.Kind != analyze.TypeKindArray
	}

	return t.HasParameterlessConstructor()
}
