package plan

import (
	"cmp"
	"slices"
	"strings"

	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
	"caster-planner/internal/mapping"
	"caster-planner/internal/match"
)

func buildObject(req *Request) Plan {
	if !canMapObject(req) || req.Target.Abstract {
		return nil
	}

	return newMembersState(req, false).build()
}

func buildExistingObject(req *Request) Plan {
	if !canMapObject(req) {
		return nil
	}

	return newMembersState(req, true).build()
}

func canMapObject(req *Request) bool {
	src, dst := req.Source, req.Target
	opts := req.Options()

	conv := mapping.ConversionObject
	if src.IsTuple() || dst.IsTuple() {
		conv = mapping.ConversionTuple
	}

	if !opts.Enabled(conv) {
		return false
	}

	switch src.Kind {
	case analyze.TypeKindStruct, analyze.TypeKindTuple, analyze.TypeKindInterface:
	default:
		return false
	}

	return dst.Kind == analyze.TypeKindStruct || dst.Kind == analyze.TypeKindTuple
}

func (s *membersState) build() Plan {
	if !s.existing {
		if !s.buildConstructor() {
			return nil
		}

		s.buildInitMembers()
	}

	s.buildSettableMembers()
	s.reportRemaining()

	return s.plan
}

// ctorOrder ranks constructors: preferred first, obsolete last, then by
// parameter count as configured. Each key only breaks ties of the previous ones.
func ctorOrder(preferParameterless bool) []func(a, b *analyze.Constructor) int {
	return []func(a, b *analyze.Constructor) int{
		func(a, b *analyze.Constructor) int {
			return -cmpBool(a.Preferred, b.Preferred)
		},
		func(a, b *analyze.Constructor) int {
			return cmpBool(a.Obsolete, b.Obsolete)
		},
		func(a, b *analyze.Constructor) int {
			if preferParameterless {
				return cmp.Compare(len(a.Params), len(b.Params))
			}

			return cmp.Compare(len(b.Params), len(a.Params))
		},
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func rankConstructors(t *analyze.TypeInfo, preferParameterless bool) []*analyze.Constructor {
	var out []*analyze.Constructor

	for i := range t.Constructors {
		if c := &t.Constructors[i]; c.Accessible {
			out = append(out, c)
		}
	}

	if len(t.Constructors) == 0 {
		// Types without declared constructors are created with a literal.
		out = append(out, &analyze.Constructor{Accessible: true})
	}

	keys := ctorOrder(preferParameterless)
	slices.SortStableFunc(out, func(a, b *analyze.Constructor) int {
		for _, key := range keys {
			if c := key(a, b); c != 0 {
				return c
			}
		}

		return 0
	})

	return out
}

// pendingReport is a diagnostic raised while trying a constructor; it is
// only reported when that constructor is the outcome.
type pendingReport struct {
	desc        diagnostic.Descriptor
	fieldPath   string
	suggestions []string
	args        []any
}

type ctorAttempt struct {
	ctor      *analyze.Constructor
	args      []ConstructorArg
	targets   []string
	sources   []string
	configs   []int
	nested    []int
	reports   []pendingReport
	hasSource bool
}

// reportFunc records a diagnostic at a member of the request.
type reportFunc func(desc diagnostic.Descriptor, fieldPath string, args ...any)

func (a *ctorAttempt) report(desc diagnostic.Descriptor, fieldPath string, args ...any) {
	a.reports = append(a.reports, pendingReport{desc: desc, fieldPath: fieldPath, args: args})
}

func (s *membersState) buildConstructor() bool {
	src, dst := s.req.Source, s.req.Target
	candidates := rankConstructors(dst, s.req.Options().PreferParameterlessConstructors)

	var first *ctorAttempt

	for _, c := range candidates {
		attempt, ok := s.tryConstructor(c)
		if ok {
			s.applyConstructor(attempt)
			return true
		}

		if c.Preferred {
			s.req.Report(diagnostic.CannotMapToConfiguredConstructor, "", src, dst)
		}

		if first == nil {
			first = attempt
		}
	}

	s.req.Report(diagnostic.NoConstructorFound, "", dst)

	if first != nil {
		s.flush(first.reports)
	}

	return false
}

func (s *membersState) tryConstructor(c *analyze.Constructor) (*ctorAttempt, bool) {
	attempt := &ctorAttempt{ctor: c}
	skipped := false

	for _, p := range c.Params {
		arg, ok := s.resolveParam(attempt, p)
		if !ok {
			if !p.Optional || s.req.Config.Expression {
				return attempt, false
			}

			skipped = true

			continue
		}

		arg.Named = skipped
		attempt.args = append(attempt.args, arg)
	}

	return attempt, true
}

func (s *membersState) applyConstructor(a *ctorAttempt) {
	s.plan.Constructor = a.ctor
	s.plan.CtorArgs = a.args

	for _, name := range a.targets {
		s.doneTarget(name)
	}

	for _, name := range a.sources {
		s.consumeSource(name)
	}

	for _, i := range a.configs {
		s.configUsed[i] = true
	}

	for _, i := range a.nested {
		s.markNested(i)
	}

	if a.hasSource {
		s.hasMemberMapping = true
	}

	s.flush(a.reports)
}

func (s *membersState) flush(reports []pendingReport) {
	for _, r := range reports {
		s.req.ReportWithSuggestions(r.desc, r.fieldPath, r.suggestions, r.args...)
	}
}

// resolveParam finds the value of one constructor parameter: an explicit
// configuration, a source member of the same name or an extra argument.
// Parameter names always match case insensitively.
func (s *membersState) resolveParam(a *ctorAttempt, p analyze.Param) (ConstructorArg, bool) {
	src, dst := s.req.Source, s.req.Target
	arg := ConstructorArg{Param: p}

	target := s.findTarget(p.Name, true)
	if target != nil {
		arg.Value.Target = match.MemberPath{Root: dst, Members: []*analyze.FieldInfo{target}}
	}

	var (
		source match.MemberPath
		hints  mapping.MemberHints
		found  bool
	)

	if idxs := s.configsFor(p.Name, true); len(idxs) > 0 {
		if len(idxs) > 1 {
			a.report(diagnostic.MultipleConfigurationsForCtorParameter, p.Name, p.Name, dst)
			return arg, false
		}

		cfg := s.configs[idxs[0]]
		if len(cfg.target.Segments) > 1 {
			a.report(diagnostic.CtorParameterDoesNotSupportPaths, cfg.member.Target, p.Name, dst)
			return arg, false
		}

		path, ok := match.TryResolvePath(src, cfg.source.Segments)
		if !ok {
			a.reports = append(a.reports, pendingReport{
				desc:        diagnostic.ConfiguredSourceMemberNotFound,
				fieldPath:   cfg.member.Source,
				suggestions: match.Suggest(cfg.source.Segments[0], nil, match.Members(src)),
				args:        []any{cfg.member.Source, src},
			})

			return arg, false
		}

		a.configs = append(a.configs, idxs[0])
		source, hints, found = path, cfg.member.Hints(), true
	}

	if !found {
		var nested int

		source, nested, found = s.resolveAuto(p.Name, true)
		if found && nested >= 0 {
			a.nested = append(a.nested, nested)
		}
	}

	if found {
		cell, null := s.mapValue(source, p.Type, hints, a.report)
		if cell == nil {
			a.report(diagnostic.CouldNotMapMember, p.Name, source.FullName(), source.Type(), p.Name, p.Type)
			return arg, false
		}

		if s.req.Options().ReferenceHandling && cell.Pending() {
			a.report(diagnostic.ReferenceLoopInCtorMapping, p.Name, p.Name, dst, source.Type())
		}

		arg.Value.Source, arg.Value.Mapping, arg.Value.Null = source, cell, null
		a.sources = append(a.sources, source.Members[0].Name)
		a.hasSource = true
	} else {
		supplied, cell := s.supplied(p.Name, p.Type, true)
		if cell == nil {
			return arg, false
		}

		arg.Value.Supplied, arg.Value.Mapping = supplied, cell
	}

	if target != nil {
		a.targets = append(a.targets, target.Name)
	}

	return arg, true
}

// supplied maps the extra argument called name to typ.
func (s *membersState) supplied(name string, typ *analyze.TypeInfo, ignoreCase bool) (string, *Cell) {
	for _, arg := range s.req.Config.Requires {
		if arg.Name == name || (ignoreCase && strings.EqualFold(arg.Name, name)) {
			return arg.Name, s.req.Map(arg.Type, typ)
		}
	}

	return "", nil
}
