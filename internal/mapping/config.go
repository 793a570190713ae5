package mapping

import (
	"errors"
	"fmt"
	"slices"

	"dario.cat/mergo"
	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
)

// ErrUnknownPair is returned when a pair is expected to be configured but is not.
var ErrUnknownPair = errors.New("unknown type pair")

// DefaultMaxDepth bounds nested mapping requests when no max_depth is configured.
const DefaultMaxDepth = 64

// Options are MapperOptions with every default applied.
type Options struct {
	DeepCloning                     bool             `yaml:"deep_cloning"`
	ReferenceHandling               bool             `yaml:"reference_handling"`
	NameMatching                    NameMatching     `yaml:"name_matching"`
	PreferParameterlessConstructors bool             `yaml:"prefer_parameterless_constructors"`
	EnumStrategy                    EnumStrategy     `yaml:"enum_strategy"`
	EnumIgnoreCase                  bool             `yaml:"enum_ignore_case"`
	RequiredMapping                 Sides            `yaml:"required_mapping"`
	IgnoreObsolete                  Sides            `yaml:"ignore_obsolete"`
	MapOnlyPrimitives               bool             `yaml:"map_only_primitives"`
	NullFallback                    NullFallback     `yaml:"null_fallback,omitempty"`
	ThrowOnNullMismatch             bool             `yaml:"throw_on_null_mismatch"`
	MaxDepth                        int              `yaml:"max_depth"`
	Conversions                     []ConversionType `yaml:"conversions"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		NameMatching:                    NameMatchingCaseSensitive,
		PreferParameterlessConstructors: true,
		EnumStrategy:                    EnumByValue,
		RequiredMapping:                 SidesBoth,
		IgnoreObsolete:                  SidesNone,
		ThrowOnNullMismatch:             true,
		MaxDepth:                        DefaultMaxDepth,
		Conversions:                     AllConversions,
	}
}

// IgnoreCase reports whether member names are compared case insensitively.
func (o Options) IgnoreCase() bool {
	return o.NameMatching == NameMatchingCaseInsensitive
}

// Enabled reports whether a conversion type is enabled.
func (o Options) Enabled(c ConversionType) bool {
	return len(o.Conversions) == 0 || slices.Contains(o.Conversions, c)
}

// Merge returns base overridden by every option set in override.
func Merge(base, override MapperOptions) (MapperOptions, error) {
	merged := base
	merged.Conversions = slices.Clone(base.Conversions)

	// WithoutDereference replaces pointers instead of writing through them,
	// so an explicit false in override wins and base stays untouched.
	err := mergo.Merge(&merged, override, mergo.WithOverride, mergo.WithoutDereference)
	if err != nil {
		return MapperOptions{}, fmt.Errorf("failed to merge options: %w", err)
	}

	return merged, nil
}

// Resolve applies defaults to every unset option.
func (m MapperOptions) Resolve() Options {
	o := DefaultOptions()

	if m.DeepCloning != nil {
		o.DeepCloning = *m.DeepCloning
	}

	if m.ReferenceHandling != nil {
		o.ReferenceHandling = *m.ReferenceHandling
	}

	if m.NameMatching != nil {
		o.NameMatching = *m.NameMatching
	}

	if m.PreferParameterlessConstructors != nil {
		o.PreferParameterlessConstructors = *m.PreferParameterlessConstructors
	}

	if m.EnumStrategy != nil {
		o.EnumStrategy = *m.EnumStrategy
	}

	if m.EnumIgnoreCase != nil {
		o.EnumIgnoreCase = *m.EnumIgnoreCase
	}

	if m.RequiredMapping != nil {
		o.RequiredMapping = *m.RequiredMapping
	}

	if m.IgnoreObsolete != nil {
		o.IgnoreObsolete = *m.IgnoreObsolete
	}

	if m.MapOnlyPrimitives != nil {
		o.MapOnlyPrimitives = *m.MapOnlyPrimitives
	}

	if m.NullFallback != nil {
		o.NullFallback = *m.NullFallback
	}

	if m.ThrowOnNullMismatch != nil {
		o.ThrowOnNullMismatch = *m.ThrowOnNullMismatch
	}

	if m.MaxDepth != nil && *m.MaxDepth > 0 {
		o.MaxDepth = *m.MaxDepth
	}

	if len(m.Conversions) > 0 {
		o.Conversions = m.Conversions
	}

	return o
}

// MemberHints are the conversion hints a member configuration passes to the
// mapping of its value.
type MemberHints struct {
	Format         string `yaml:"format,omitempty"`
	FormatProvider string `yaml:"format_provider,omitempty"`
	Use            string `yaml:"use,omitempty"`
}

// IsZero reports whether no hint is set.
func (h MemberHints) IsZero() bool {
	return h == MemberHints{}
}

// EnumConfig is the resolved enum configuration of a mapping request.
type EnumConfig struct {
	Strategy      EnumStrategy    `yaml:"strategy"`
	IgnoreCase    bool            `yaml:"ignore_case"`
	Fallback      string          `yaml:"fallback,omitempty"`
	IgnoreSources []string        `yaml:"ignore_sources,omitempty"`
	IgnoreTargets []string        `yaml:"ignore_targets,omitempty"`
	Values        []EnumValuePair `yaml:"values,omitempty"`
	Required      Sides           `yaml:"required"`
}

// TypeMappingConfig is the fully merged configuration of one mapping request.
// It is plain data; two requests with equal fingerprints behave identically.
type TypeMappingConfig struct {
	Options        Options           `yaml:"options"`
	IgnoreSources  []string          `yaml:"ignore_sources,omitempty"`
	IgnoreTargets  []string          `yaml:"ignore_targets,omitempty"`
	Members        []MemberMapping   `yaml:"members,omitempty"`
	Nested         []string          `yaml:"nested,omitempty"`
	Enum           EnumConfig        `yaml:"enum"`
	EnumConfigured bool              `yaml:"enum_configured,omitempty"` // the pair has an explicit enum section
	Derived        []ResolvedDerived `yaml:"derived,omitempty"`
	Expression     bool              `yaml:"expression,omitempty"`
	Requires       []ResolvedArg     `yaml:"requires,omitempty"`
	Hints          MemberHints       `yaml:"hints,omitempty"`
	Location       string            `yaml:"location,omitempty"`
}

// ResolvedDerived is a derived type pair with its descriptors looked up.
type ResolvedDerived struct {
	Source *analyze.TypeInfo `yaml:"-"`
	Target *analyze.TypeInfo `yaml:"-"`
	// Keys mirror the descriptors for fingerprinting.
	SourceKey string `yaml:"source"`
	TargetKey string `yaml:"target"`
}

// ResolvedArg is an extra mapping argument with its type looked up.
type ResolvedArg struct {
	Name    string            `yaml:"name"`
	Type    *analyze.TypeInfo `yaml:"-"`
	TypeKey string            `yaml:"type"`
}

// HasMemberConfig reports whether any member level configuration exists.
func (c TypeMappingConfig) HasMemberConfig() bool {
	return len(c.Members) > 0 || len(c.IgnoreSources) > 0 || len(c.IgnoreTargets) > 0 || len(c.Nested) > 0
}

// WithHints returns a copy of the configuration carrying member level hints.
func (c TypeMappingConfig) WithHints(h MemberHints) TypeMappingConfig {
	c.Hints = h

	return c
}

// WithRequires returns a copy receiving the given extra arguments.
func (c TypeMappingConfig) WithRequires(args []ResolvedArg) TypeMappingConfig {
	c.Requires = args

	return c
}

// WithExpression returns a copy requiring single expression mappings.
func (c TypeMappingConfig) WithExpression() TypeMappingConfig {
	c.Expression = true

	return c
}

// Fingerprint hashes the canonical YAML encoding of the configuration.
func (c TypeMappingConfig) Fingerprint() uint64 {
	data, err := yaml.Marshal(c)
	if err != nil {
		// Every field is plain data, encoding cannot fail.
		panic(fmt.Sprintf("mapping: fingerprint encoding failed: %v", err))
	}

	return xxhash.Sum64(data)
}

// UserMappingDef is a user mapping with its types resolved.
type UserMappingDef struct {
	Name           string
	Source         *analyze.TypeInfo
	Target         *analyze.TypeInfo
	ExistingTarget bool
	Default        bool
}

type pairKey struct {
	source, target string
}

// Config is a mapping file resolved against a type graph. It is read-only
// after construction and safe to share between concurrent planning runs.
type Config struct {
	base  MapperOptions
	pairs map[pairKey]*resolvedPair
	order []pairKey
	users []UserMappingDef
}

type resolvedPair struct {
	mapping  TypeMapping
	options  MapperOptions
	derived  []ResolvedDerived
	requires []ResolvedArg
	source   *analyze.TypeInfo
	target   *analyze.TypeInfo
	index    int
}

// NewConfig returns an empty configuration with the given mapper options.
func NewConfig(opts MapperOptions) *Config {
	return &Config{
		base:  opts,
		pairs: make(map[pairKey]*resolvedPair),
	}
}

// Build resolves every type name of mf against graph. Entries that cannot be
// resolved are reported and skipped.
func Build(mf *MappingFile, graph *analyze.TypeGraph) (*Config, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}
	cfg := NewConfig(mf.Options)

	for i := range mf.TypeMappings {
		tm := mf.TypeMappings[i]
		tpStr := fmt.Sprintf("%s->%s", tm.Source, tm.Target)

		src, err := graph.Lookup(tm.Source)
		if err != nil {
			diags.AddError("source_type_not_found", err.Error(), tpStr, "")
			continue
		}

		dst, err := graph.Lookup(tm.Target)
		if err != nil {
			diags.AddError("target_type_not_found", err.Error(), tpStr, "")
			continue
		}

		var derived []ResolvedDerived

		for _, d := range tm.Derived {
			ds, errS := graph.Lookup(d.Source)
			dt, errT := graph.Lookup(d.Target)

			if errS != nil || errT != nil {
				diags.AddError("derived_type_not_found",
					fmt.Sprintf("derived pair %s->%s cannot be resolved", d.Source, d.Target), tpStr, "")

				continue
			}

			derived = append(derived, ResolvedDerived{Source: ds, Target: dt})
		}

		requires := make([]ResolvedArg, 0, len(tm.Requires))

		for _, a := range tm.Requires {
			at, err := graph.Lookup(a.Type)
			if err != nil {
				diags.AddError("requires_type_not_found", err.Error(), tpStr, a.Name)
				continue
			}

			requires = append(requires, ResolvedArg{Name: a.Name, Type: at})
		}

		if err := cfg.addPair(src, dst, tm, derived, requires, i); err != nil {
			diags.AddError("invalid_options", err.Error(), tpStr, "")
		}
	}

	for _, um := range mf.UserMappings {
		tpStr := fmt.Sprintf("%s->%s", um.Source, um.Target)

		src, err := graph.Lookup(um.Source)
		if err != nil {
			diags.AddError("source_type_not_found", err.Error(), tpStr, um.Name)
			continue
		}

		dst, err := graph.Lookup(um.Target)
		if err != nil {
			diags.AddError("target_type_not_found", err.Error(), tpStr, um.Name)
			continue
		}

		cfg.AddUserMapping(UserMappingDef{
			Name:           um.Name,
			Source:         src,
			Target:         dst,
			ExistingTarget: um.ExistingTarget,
			Default:        um.Default,
		})
	}

	return cfg, diags
}

// AddTypeMapping registers the configuration of one pair. Type names of
// derived pairs and extra arguments in tm are ignored; pass them resolved
// with AddDerived and AddRequires instead.
func (c *Config) AddTypeMapping(src, dst *analyze.TypeInfo, tm TypeMapping, derived ...ResolvedDerived) error {
	return c.addPair(src, dst, tm, derived, nil, len(c.order))
}

// AddRequires registers extra arguments of an already configured pair.
func (c *Config) AddRequires(src, dst *analyze.TypeInfo, args ...ResolvedArg) error {
	p, ok := c.pairs[pairKey{src.Key(), dst.Key()}]
	if !ok {
		return fmt.Errorf("%w: %s->%s is not configured", ErrUnknownPair, src, dst)
	}

	for _, a := range args {
		a.TypeKey = a.Type.Key()
		p.requires = append(p.requires, a)
	}

	return nil
}

func (c *Config) addPair(
	src, dst *analyze.TypeInfo,
	tm TypeMapping,
	derived []ResolvedDerived,
	requires []ResolvedArg,
	index int,
) error {
	opts, err := Merge(c.base, tm.Options)
	if err != nil {
		return err
	}

	for i := range derived {
		derived[i].SourceKey = derived[i].Source.Key()
		derived[i].TargetKey = derived[i].Target.Key()
	}

	for i := range requires {
		requires[i].TypeKey = requires[i].Type.Key()
	}

	key := pairKey{src.Key(), dst.Key()}
	if _, exists := c.pairs[key]; !exists {
		c.order = append(c.order, key)
	}

	c.pairs[key] = &resolvedPair{
		mapping:  tm,
		options:  opts,
		derived:  derived,
		requires: requires,
		source:   src,
		target:   dst,
		index:    index,
	}

	return nil
}

// AddUserMapping registers a hand-written mapping function.
func (c *Config) AddUserMapping(def UserMappingDef) {
	c.users = append(c.users, def)
}

// Options returns the resolved mapper-wide options.
func (c *Config) Options() Options {
	return c.base.Resolve()
}

// Pairs returns the explicitly configured pairs in configuration order.
func (c *Config) Pairs() [][2]*analyze.TypeInfo {
	out := make([][2]*analyze.TypeInfo, 0, len(c.order))
	for _, k := range c.order {
		p := c.pairs[k]
		out = append(out, [2]*analyze.TypeInfo{p.source, p.target})
	}

	return out
}

// UserMappings returns all user mappings in declaration order.
func (c *Config) UserMappings() []UserMappingDef {
	return c.users
}

// UserMapping returns the user mapping for exactly this pair, or nil.
// A mapping marked as default wins over other candidates.
func (c *Config) UserMapping(src, dst *analyze.TypeInfo, existingTarget bool) *UserMappingDef {
	var found *UserMappingDef

	for i := range c.users {
		u := &c.users[i]
		if u.ExistingTarget != existingTarget || !analyze.Identical(u.Source, src) || !analyze.Identical(u.Target, dst) {
			continue
		}

		if u.Default {
			return u
		}

		if found == nil {
			found = u
		}
	}

	return found
}

// UserMappingByName returns the user mapping with the given name, or nil.
func (c *Config) UserMappingByName(name string) *UserMappingDef {
	for i := range c.users {
		if c.users[i].Name == name {
			return &c.users[i]
		}
	}

	return nil
}

// For returns the merged configuration of a mapping request from src to dst.
func (c *Config) For(src, dst *analyze.TypeInfo) TypeMappingConfig {
	p, ok := c.pairs[pairKey{src.Key(), dst.Key()}]
	if !ok {
		return TypeMappingConfig{
			Options: c.base.Resolve(),
			Enum:    c.enumConfig(c.base.Resolve(), nil),
		}
	}

	opts := p.options.Resolve()
	tm := p.mapping

	return TypeMappingConfig{
		Options:        opts,
		IgnoreSources:  slices.Clone(tm.IgnoreSources),
		IgnoreTargets:  slices.Clone(tm.IgnoreTargets),
		Members:        slices.Clone(tm.Members),
		Nested:         slices.Clone(tm.Nested),
		Enum:           c.enumConfig(opts, tm.Enum),
		EnumConfigured: tm.Enum != nil,
		Derived:        slices.Clone(p.derived),
		Expression:     tm.Expression,
		Requires:       slices.Clone(p.requires),
		Location:       fmt.Sprintf("mappings[%d]", p.index),
	}
}

func (c *Config) enumConfig(opts Options, em *EnumMapping) EnumConfig {
	ec := EnumConfig{
		Strategy:   opts.EnumStrategy,
		IgnoreCase: opts.EnumIgnoreCase,
		Required:   opts.RequiredMapping,
	}

	if em == nil {
		return ec
	}

	if em.Strategy != nil {
		ec.Strategy = *em.Strategy
	}

	if em.IgnoreCase != nil {
		ec.IgnoreCase = *em.IgnoreCase
	}

	if em.Required != nil {
		ec.Required = *em.Required
	}

	ec.Fallback = em.Fallback
	ec.IgnoreSources = slices.Clone(em.IgnoreSources)
	ec.IgnoreTargets = slices.Clone(em.IgnoreTargets)
	ec.Values = slices.Clone(em.Values)

	return ec
}
