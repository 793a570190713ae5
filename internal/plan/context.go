package plan

import (
	"errors"
	"fmt"
	"log/slog"

	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
	"caster-planner/internal/mapping"
)

// ErrInternal reports a defect of the planner itself. Mapping problems are
// reported as diagnostics instead.
var ErrInternal = errors.New("internal planner error")

type internalError struct {
	msg string
}

func (e internalError) Error() string {
	return e.msg
}

func (e internalError) Unwrap() error {
	return ErrInternal
}

// Context memoizes the plans of one planning run. Every mapping key is
// built at most once; requests for a key whose plan is still being built
// return the pending cell. A Context is not safe for concurrent use.
type Context struct {
	config *mapping.Config
	diags  *diagnostic.Diagnostics
	opts   options
	logger *slog.Logger

	cells    map[MappingKey]*Cell
	existing map[MappingKey]*Cell
	order    []*Cell
	depth    int
}

// NewContext returns an empty Context reporting into diags.
func NewContext(config *mapping.Config, diags *diagnostic.Diagnostics, opts ...Option) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return newContext(config, diags, o, o.logger)
}

func newContext(config *mapping.Config, diags *diagnostic.Diagnostics, o options, logger *slog.Logger) *Context {
	return &Context{
		config:   config,
		diags:    diags,
		opts:     o,
		logger:   logger,
		cells:    make(map[MappingKey]*Cell),
		existing: make(map[MappingKey]*Cell),
	}
}

// Config returns the configuration the context plans with.
func (c *Context) Config() *mapping.Config {
	return c.config
}

// Diagnostics returns the sink of the run.
func (c *Context) Diagnostics() *diagnostic.Diagnostics {
	return c.diags
}

// Cells returns every cell of the run in creation order.
func (c *Context) Cells() []*Cell {
	out := make([]*Cell, len(c.order))
	copy(out, c.order)

	return out
}

// FindOrBuildMapping returns the cell mapping source to target with cfg,
// building it on first use. It returns nil when no strategy applies; the
// caller diagnoses the missing mapping.
func (c *Context) FindOrBuildMapping(source, target *analyze.TypeInfo, cfg mapping.TypeMappingConfig) *Cell {
	return c.findOrBuild(source, target, cfg, false)
}

// FindOrBuildExistingTargetMapping is FindOrBuildMapping for mappings that
// update an existing target instance. Existing-target cells live in their
// own namespace.
func (c *Context) FindOrBuildExistingTargetMapping(
	source, target *analyze.TypeInfo,
	cfg mapping.TypeMappingConfig,
) *Cell {
	return c.findOrBuild(source, target, cfg, true)
}

func (c *Context) findOrBuild(source, target *analyze.TypeInfo, cfg mapping.TypeMappingConfig, existing bool) *Cell {
	if source == nil || target == nil {
		return nil
	}

	key := MappingKey{Source: source.Key(), Target: target.Key(), Config: cfg.Fingerprint()}

	cache := c.cells
	if existing {
		cache = c.existing
	}

	if cell, ok := cache[key]; ok {
		c.logger.Debug("mapping cache hit", "source", source, "target", target, "cell", cell.ID, "pending", cell.Pending())

		if cell.Failed() {
			return nil
		}

		return cell
	}

	maxDepth := cfg.Options.MaxDepth
	if maxDepth <= 0 {
		maxDepth = mapping.DefaultMaxDepth
	}

	if c.depth >= maxDepth {
		c.logger.Debug("max depth exceeded", "source", source, "target", target, "depth", c.depth)
		c.diags.Report(diagnostic.MaxDepthExceeded, typePair(source, target), "", source, target, maxDepth)

		return nil
	}

	cell := &Cell{ID: len(c.order) + 1, Key: key, Existing: existing}
	cache[key] = cell
	c.order = append(c.order, cell)

	req := &Request{
		ctx:      c,
		Source:   source,
		Target:   target,
		Config:   cfg,
		Key:      key,
		Existing: existing,
	}

	c.depth++
	p := c.build(req)
	c.depth--

	c.backfill(cell, p)

	if p == nil {
		c.logger.Debug("no mapping strategy", "source", source, "target", target)
		return nil
	}

	c.logger.Debug("mapping built", "source", source, "target", target, "cell", cell.ID, "strategy", p.Kind())

	return cell
}

func (c *Context) build(req *Request) Plan {
	c.checkConfig(req)

	builders := c.opts.builders
	if req.Existing {
		builders = c.opts.existingBuilders
	}

	for _, b := range builders {
		if p := b(req); p != nil {
			return p
		}

		if req.aborted {
			return nil
		}
	}

	return nil
}

// checkConfig reports configuration sections the pair cannot use.
func (c *Context) checkConfig(req *Request) {
	src, dst := req.Source.NonNullable(), req.Target.NonNullable()
	isEnum := src.IsEnum() || dst.IsEnum()

	if req.Config.EnumConfigured && !isEnum {
		req.Report(diagnostic.EnumConfigOnNonEnumMapping, "", req.Source, req.Target)
	}

	if isEnum && req.Config.HasMemberConfig() {
		req.Report(diagnostic.MemberConfigOnEnumMapping, "", req.Source, req.Target)
	}
}

func (c *Context) backfill(cell *Cell, p Plan) {
	if !cell.Pending() {
		panic(internalError{fmt.Sprintf("cell #%d (%s -> %s) is built twice", cell.ID, cell.Key.Source, cell.Key.Target)})
	}

	if p == nil {
		cell.state = cellFailed
		return
	}

	cell.Plan = p
	cell.Reuse = reuseOf(p)
	cell.state = cellBuilt
}

func typePair(source, target *analyze.TypeInfo) string {
	return fmt.Sprintf("%s->%s", source, target)
}

// Request is one mapping request handed to the builders.
type Request struct {
	ctx *Context

	Source   *analyze.TypeInfo
	Target   *analyze.TypeInfo
	Config   mapping.TypeMappingConfig
	Key      MappingKey
	Existing bool

	aborted bool
}

// Context returns the context the request is built in.
func (r *Request) Context() *Context {
	return r.ctx
}

// Options returns the resolved options of the request.
func (r *Request) Options() mapping.Options {
	return r.Config.Options
}

// TypePair returns the "source->target" label used in diagnostics.
func (r *Request) TypePair() string {
	return typePair(r.Source, r.Target)
}

// Abort stops the remaining builders; the request resolves to nil.
func (r *Request) Abort() {
	r.aborted = true
}

// Report adds a diagnostic located at the request.
func (r *Request) Report(desc diagnostic.Descriptor, fieldPath string, args ...any) {
	r.ctx.diags.Report(desc, r.TypePair(), fieldPath, args...)
}

// ReportWithSuggestions is Report with likely fixes attached.
func (r *Request) ReportWithSuggestions(
	desc diagnostic.Descriptor,
	fieldPath string,
	suggestions []string,
	args ...any,
) {
	r.ctx.diags.ReportWithSuggestions(desc, r.TypePair(), fieldPath, suggestions, args...)
}

// Map requests the nested mapping from source to target.
func (r *Request) Map(source, target *analyze.TypeInfo) *Cell {
	return r.MapWithHints(source, target, mapping.MemberHints{})
}

// MapWithHints requests a nested mapping with member level conversion hints.
func (r *Request) MapWithHints(source, target *analyze.TypeInfo, hints mapping.MemberHints) *Cell {
	return r.ctx.FindOrBuildMapping(source, target, r.nestedConfig(source, target, hints))
}

// MapExisting requests a nested mapping updating an existing target.
func (r *Request) MapExisting(source, target *analyze.TypeInfo) *Cell {
	return r.ctx.FindOrBuildExistingTargetMapping(source, target, r.nestedConfig(source, target, mapping.MemberHints{}))
}

func (r *Request) nestedConfig(source, target *analyze.TypeInfo, hints mapping.MemberHints) mapping.TypeMappingConfig {
	cfg := r.ctx.config.For(source, target)

	if r.Config.Expression {
		cfg = cfg.WithExpression()
	}

	if !hints.IsZero() {
		cfg = cfg.WithHints(hints)
	}

	return cfg
}

func (r *Request) types() Types {
	return Types{From: r.Source, To: r.Target}
}
