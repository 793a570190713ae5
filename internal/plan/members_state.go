package plan

import (
	"strings"

	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
	"caster-planner/internal/mapping"
	"caster-planner/internal/match"
)

type memberConfig struct {
	member mapping.MemberMapping
	target mapping.FieldPath
	source mapping.FieldPath
}

type nestedGroup struct {
	name string
	path match.MemberPath
	used bool
}

// membersState is the working set of one object mapping. It lives until the
// remaining members are diagnosed.
type membersState struct {
	req      *Request
	existing bool
	plan     *ObjectConstruction

	targets  []*analyze.FieldInfo
	done     map[string]bool
	sources  []*analyze.FieldInfo
	consumed map[string]bool

	ignoredTargets map[string]bool
	ignoredSources map[string]bool

	configs    []memberConfig
	configUsed []bool
	nested     []nestedGroup

	hasMemberMapping bool
}

func newMembersState(req *Request, existing bool) *membersState {
	src, dst := req.Source, req.Target
	opts := req.Options()

	s := &membersState{
		req:      req,
		existing: existing,
		plan: &ObjectConstruction{
			Types:             req.types(),
			Existing:          existing,
			ReferenceHandling: opts.ReferenceHandling,
		},
		targets:  match.Members(dst),
		done:     map[string]bool{},
		sources:  match.Members(src),
		consumed: map[string]bool{},
	}

	s.ignoredTargets = s.ignored(req.Config.IgnoreTargets, s.targets,
		opts.IgnoreObsolete.Target(), opts.MapOnlyPrimitives, diagnostic.IgnoredTargetMemberNotFound, dst)
	s.ignoredSources = s.ignored(req.Config.IgnoreSources, s.sources,
		opts.IgnoreObsolete.Source(), false, diagnostic.IgnoredSourceMemberNotFound, src)

	for _, mm := range req.Config.Members {
		if !mm.IsValid() {
			req.Report(diagnostic.InvalidMemberConfiguration, mm.Target, mm.Target)
			continue
		}

		tp, errT := mapping.ParsePath(mm.Target)
		if errT != nil || findField(s.targets, tp.Segments[0]) == nil {
			req.ReportWithSuggestions(diagnostic.ConfiguredTargetMemberNotFound, mm.Target,
				suggestFor(mm.Target, s.targets), mm.Target, dst)

			continue
		}

		sp, errS := mapping.ParsePath(mm.Source)
		if errS != nil {
			req.Report(diagnostic.ConfiguredSourceMemberNotFound, mm.Source, mm.Source, src)
			continue
		}

		s.configs = append(s.configs, memberConfig{member: mm, target: tp, source: sp})
	}

	s.configUsed = make([]bool, len(s.configs))

	for _, n := range req.Config.Nested {
		fp, err := mapping.ParsePath(n)
		if err != nil {
			req.Report(diagnostic.ConfiguredNestedMemberNotFound, n, n, src)
			continue
		}

		path, ok := match.TryResolvePath(src, fp.Segments)
		if !ok {
			req.Report(diagnostic.ConfiguredNestedMemberNotFound, n, n, src)
			continue
		}

		s.nested = append(s.nested, nestedGroup{name: n, path: path})
	}

	return s
}

// ignored returns the names excluded from automatic mapping: the configured
// ones, members carrying an ignore marker and members excluded by policy.
func (s *membersState) ignored(
	names []string,
	members []*analyze.FieldInfo,
	obsolete, primitivesOnly bool,
	notFound diagnostic.Descriptor,
	owner *analyze.TypeInfo,
) map[string]bool {
	set := map[string]bool{}

	for _, n := range names {
		if findField(members, n) == nil {
			s.req.Report(notFound, n, n, owner)
			continue
		}

		set[n] = true
	}

	for _, m := range members {
		if m.Ignored || (obsolete && m.Obsolete) || (primitivesOnly && !m.Type.IsPrimitive()) {
			set[m.Name] = true
		}
	}

	return set
}

func (s *membersState) ignoreCase() bool {
	return s.req.Options().IgnoreCase()
}

func (s *membersState) doneTarget(name string) {
	s.done[name] = true
}

func (s *membersState) consumeSource(name string) {
	s.consumed[name] = true
}

// findTarget returns the remaining target member called name.
func (s *membersState) findTarget(name string, ignoreCase bool) *analyze.FieldInfo {
	var fold *analyze.FieldInfo

	for _, m := range s.targets {
		if s.done[m.Name] {
			continue
		}

		if m.Name == name {
			return m
		}

		if ignoreCase && fold == nil && strings.EqualFold(m.Name, name) {
			fold = m
		}
	}

	return fold
}

// configsFor returns the unused configurations whose target path starts at name.
func (s *membersState) configsFor(name string, ignoreCase bool) []int {
	var out []int

	for i, c := range s.configs {
		if s.configUsed[i] {
			continue
		}

		root := c.target.Segments[0]
		if root == name || (ignoreCase && strings.EqualFold(root, name)) {
			out = append(out, i)
		}
	}

	return out
}

// resolveAuto resolves a target member name against the source root and
// then against the configured nested groups. The returned index names the
// nested group used, or is -1.
func (s *membersState) resolveAuto(name string, ignoreCase bool) (match.MemberPath, int, bool) {
	src := s.req.Source

	if p, ok := match.TryResolveName(src, name, s.ignoredSources, ignoreCase); ok {
		return p, -1, true
	}

	for i, g := range s.nested {
		p, ok := match.TryResolveName(g.path.Type(), name, nil, ignoreCase)
		if !ok {
			continue
		}

		members := make([]*analyze.FieldInfo, 0, len(g.path.Members)+len(p.Members))
		members = append(members, g.path.Members...)
		members = append(members, p.Members...)

		return match.MemberPath{Root: src, Members: members}, i, true
	}

	return match.MemberPath{}, -1, false
}

func (s *membersState) markNested(i int) {
	if i >= 0 {
		s.nested[i].used = true
	}
}

// resolveConfiguredSource resolves the source path of a configuration.
func (s *membersState) resolveConfiguredSource(c memberConfig) (match.MemberPath, bool) {
	src := s.req.Source

	path, ok := match.TryResolvePath(src, c.source.Segments)
	if !ok {
		s.req.ReportWithSuggestions(diagnostic.ConfiguredSourceMemberNotFound, c.member.Source,
			suggestFor(c.member.Source, s.sources), c.member.Source, src)

		return match.MemberPath{}, false
	}

	if root := path.Members[0].Name; s.ignoredSources[root] {
		s.req.Report(diagnostic.IgnoredSourceMemberExplicitlyMapped, root, root, src)
	}

	return path, true
}

// mapValue maps the value read through source to typ, null-safe.
// Diagnostics go through report so constructor attempts can defer them.
func (s *membersState) mapValue(
	source match.MemberPath,
	typ *analyze.TypeInfo,
	hints mapping.MemberHints,
	report reportFunc,
) (*Cell, *NullWrapped) {
	cell := s.req.MapWithHints(source.Type(), typ, hints)
	if cell == nil {
		return nil, nil
	}

	return cell, s.wrapNullSafe(source, cell, typ, report)
}

func (s *membersState) wrapNullSafe(
	source match.MemberPath,
	cell *Cell,
	typ *analyze.TypeInfo,
	report reportFunc,
) *NullWrapped {
	w := WrapNullSafe(s.req.Options(), source, cell, typ)
	if w.LosesNull() {
		report(diagnostic.NullableSourceToNonNullableTarget, source.FullName(), source.FullName(), typ, w.Fallback)
	}

	return w
}

func (s *membersState) add(a MemberAssignment) {
	s.plan.Members = append(s.plan.Members, a)
	s.hasMemberMapping = true

	if !a.Source.IsEmpty() {
		s.consumeSource(a.Source.Members[0].Name)
	}
}

func (s *membersState) buildInitMembers() {
	for _, m := range s.targets {
		if s.done[m.Name] || !m.InitOnly {
			continue
		}

		s.doneTarget(m.Name)

		idxs := s.configsFor(m.Name, false)
		if len(idxs) == 0 && s.ignoredTargets[m.Name] {
			continue
		}

		if a, ok := s.resolveInit(m, idxs); ok {
			s.plan.Init = append(s.plan.Init, a)
			s.hasMemberMapping = true
		}
	}
}

func (s *membersState) resolveInit(m *analyze.FieldInfo, idxs []int) (MemberAssignment, bool) {
	dst := s.req.Target
	target := match.MemberPath{Root: dst, Members: []*analyze.FieldInfo{m}}

	if s.ignoredTargets[m.Name] && len(idxs) > 0 {
		s.req.Report(diagnostic.IgnoredTargetMemberExplicitlyMapped, m.Name, m.Name, dst)
	}

	for _, i := range idxs {
		s.configUsed[i] = true
	}

	var (
		source match.MemberPath
		hints  mapping.MemberHints
		found  bool
	)

	switch {
	case len(idxs) > 1:
		s.req.Report(diagnostic.MultipleConfigurationsForInitOnlyMember, m.Name, m.Name, dst)
		return MemberAssignment{}, false

	case len(idxs) == 1:
		c := s.configs[idxs[0]]
		if len(c.target.Segments) > 1 {
			s.req.Report(diagnostic.InitOnlyMemberDoesNotSupportPaths, c.member.Target, m.Name, dst)
			return MemberAssignment{}, false
		}

		path, ok := s.resolveConfiguredSource(c)
		if !ok {
			return MemberAssignment{}, false
		}

		source, hints, found = path, c.member.Hints(), true

	default:
		path, nested, ok := s.resolveAuto(m.Name, s.ignoreCase())
		if ok {
			s.markNested(nested)
			source, found = path, true
		}
	}

	if !found {
		if name, cell := s.supplied(m.Name, m.Type, s.ignoreCase()); cell != nil {
			return MemberAssignment{Target: target, Supplied: name, Mapping: cell}, true
		}

		if m.Required {
			s.req.Report(diagnostic.RequiredInitMemberNotMapped, m.Name, m.Name, dst)
		} else {
			s.req.Report(diagnostic.OptionalInitMemberNotMapped, m.Name, m.Name, dst)
		}

		return MemberAssignment{}, false
	}

	cell, null := s.mapValue(source, m.Type, hints, s.req.Report)
	if cell == nil {
		s.req.Report(diagnostic.CouldNotMapMember, m.Name, source.FullName(), source.Type(), m.Name, m.Type)
		return MemberAssignment{}, false
	}

	if s.req.Options().ReferenceHandling && cell.Pending() {
		s.req.Report(diagnostic.ReferenceLoopInInitOnlyMapping, m.Name, m.Name, dst, source.Type())
	}

	s.consumeSource(source.Members[0].Name)

	return MemberAssignment{Target: target, Source: source, Mapping: cell, Null: null}, true
}

func (s *membersState) buildSettableMembers() {
	dst := s.req.Target

	for _, m := range s.targets {
		if s.done[m.Name] {
			continue
		}

		if idxs := s.configsFor(m.Name, false); len(idxs) > 0 {
			s.doneTarget(m.Name)

			if s.ignoredTargets[m.Name] {
				s.req.Report(diagnostic.IgnoredTargetMemberExplicitlyMapped, m.Name, m.Name, dst)
			}

			for _, i := range idxs {
				s.configUsed[i] = true
				s.mapConfigured(s.configs[i])
			}

			continue
		}

		if s.ignoredTargets[m.Name] || m.InitOnly {
			// Init-only members left here belong to an existing target.
			s.doneTarget(m.Name)
			continue
		}

		target := match.MemberPath{Root: dst, Members: []*analyze.FieldInfo{m}}

		source, nested, ok := s.resolveAuto(m.Name, s.ignoreCase())
		if !ok {
			if name, cell := s.supplied(m.Name, m.Type, s.ignoreCase()); cell != nil && m.CanSet() {
				s.doneTarget(m.Name)
				s.add(MemberAssignment{Target: target, Supplied: name, Mapping: cell})
			}

			continue
		}

		s.markNested(nested)
		s.doneTarget(m.Name)
		s.assign(target, source, mapping.MemberHints{})
	}
}

func (s *membersState) mapConfigured(c memberConfig) {
	dst := s.req.Target

	target, ok := match.TryResolvePath(dst, c.target.Segments)
	if !ok {
		s.req.ReportWithSuggestions(diagnostic.ConfiguredTargetMemberNotFound, c.member.Target,
			suggestFor(c.member.Target, s.targets), c.member.Target, dst)

		return
	}

	source, ok := s.resolveConfiguredSource(c)
	if !ok {
		return
	}

	s.consumeSource(source.Members[0].Name)
	s.assign(target, source, c.member.Hints())
}

// assign checks that source can be read and target can be written, then
// maps the value. A target member that cannot be set is updated in place
// when an existing-target mapping applies.
func (s *membersState) assign(target, source match.MemberPath, hints mapping.MemberHints) bool {
	src, dst := s.req.Source, s.req.Target
	field := target.FullName()

	for _, seg := range source.Members {
		if !seg.CanGet() {
			s.req.Report(diagnostic.CannotMapFromWriteOnlyMember, field, source.FullName(), src)
			return false
		}
	}

	for _, seg := range target.ObjectPath() {
		if !seg.CanGet() {
			s.req.Report(diagnostic.CannotMapToWriteOnlyMemberPath, field, field, dst, seg.Name)
			return false
		}
	}

	if seg := temporarySegment(target); seg != nil {
		s.req.Report(diagnostic.CannotMapToTemporarySourceMember, field, field, dst, seg.Name)
		return false
	}

	final := target.Member()

	if !final.CanSet() {
		if final.InitOnly && (s.existing || len(target.Members) > 1) {
			s.req.Report(diagnostic.CannotMapToInitOnlyMemberPath, field, field, dst)
			return false
		}

		if final.CanGet() {
			if cell := s.req.MapExisting(source.Type(), final.Type); cell != nil {
				s.add(MemberAssignment{
					Target:  target,
					Source:  source,
					Mapping: cell,
					Null:    s.wrapNullSafe(source, cell, final.Type, s.req.Report),
					InPlace: true,
				})

				return true
			}
		}

		s.req.Report(diagnostic.CannotMapToReadOnlyMember, field, field, dst)

		return false
	}

	cell, null := s.mapValue(source, final.Type, hints, s.req.Report)
	if cell == nil {
		s.req.Report(diagnostic.CouldNotMapMember, field, source.FullName(), source.Type(), field, final.Type)
		return false
	}

	s.add(MemberAssignment{Target: target, Source: source, Mapping: cell, Null: null})

	return true
}

// temporarySegment returns the first member of the target object path that
// is read as a copy of a value type, with no reference type segment after
// it. Writing through such a path would only modify the copy.
func temporarySegment(target match.MemberPath) *analyze.FieldInfo {
	path := target.ObjectPath()

	for i, seg := range path {
		if !seg.Accessor || seg.Type.IsReferenceType() {
			continue
		}

		copied := true

		for _, later := range path[i+1:] {
			if later.Type.IsReferenceType() {
				copied = false
				break
			}
		}

		if copied {
			return seg
		}
	}

	return nil
}

func (s *membersState) reportRemaining() {
	src, dst := s.req.Source, s.req.Target
	opts := s.req.Options()

	for _, m := range s.targets {
		if s.done[m.Name] || s.ignoredTargets[m.Name] {
			continue
		}

		if m.Required {
			s.req.Report(diagnostic.RequiredMemberNotMapped, m.Name, m.Name, dst, src)
			continue
		}

		if !opts.RequiredMapping.Target() || !m.CanSet() {
			continue
		}

		s.req.ReportWithSuggestions(diagnostic.SourceMemberNotFound, m.Name,
			match.Suggest(m.Name, m.Type, s.sources), m.Name, dst, src)
	}

	if opts.RequiredMapping.Source() {
		for _, m := range s.sources {
			if s.consumed[m.Name] || s.ignoredSources[m.Name] || !m.CanGet() {
				continue
			}

			s.req.Report(diagnostic.SourceMemberNotMapped, m.Name, m.Name, src, dst)
		}
	}

	for _, g := range s.nested {
		if !g.used {
			s.req.Report(diagnostic.NestedMemberNotUsed, g.name, g.name, src)
		}
	}

	if !s.hasMemberMapping && len(s.targets) > 0 {
		s.req.Report(diagnostic.NoMemberMappings, "", src, dst)
	}
}

func findField(members []*analyze.FieldInfo, name string) *analyze.FieldInfo {
	for _, m := range members {
		if m.Name == name {
			return m
		}
	}

	return nil
}

// suggestFor suggests members for the first segment of a configured path.
func suggestFor(path string, members []*analyze.FieldInfo) []string {
	root, _, _ := strings.Cut(path, ".")
	return match.Suggest(root, nil, members)
}
