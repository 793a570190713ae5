package plan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"caster-planner/internal/analyze"
	"caster-planner/internal/diagnostic"
	"caster-planner/internal/mapping"
)

type options struct {
	logger           *slog.Logger
	builders         []BuilderFunc
	existingBuilders []BuilderFunc
}

func defaultOptions() options {
	return options{
		logger:           slog.New(slog.DiscardHandler),
		builders:         DefaultBuilders(),
		existingBuilders: ExistingTargetBuilders(),
	}
}

// Option configures a Planner or a Context.
type Option func(*options)

// WithLogger sets the logger. Planning is silent by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBuilders replaces the strategy builders.
func WithBuilders(builders ...BuilderFunc) Option {
	return func(o *options) {
		o.builders = builders
	}
}

// WithExistingTargetBuilders replaces the builders of existing-target mappings.
func WithExistingTargetBuilders(builders ...BuilderFunc) Option {
	return func(o *options) {
		o.existingBuilders = builders
	}
}

// Pair is a top-level mapping request.
type Pair struct {
	Source *analyze.TypeInfo
	Target *analyze.TypeInfo
}

// TopLevel is the outcome of one top-level request. Cell is nil when the
// pair cannot be mapped.
type TopLevel struct {
	Pair
	Cell *Cell
}

// Result is the outcome of one planning run.
type Result struct {
	RunID       string
	Mappings    []TopLevel
	Cells       []*Cell
	Diagnostics *diagnostic.Diagnostics
}

// Planner plans the mappings of a configuration. It holds no state between
// runs and is safe for concurrent use.
type Planner struct {
	config *mapping.Config
	opts   options
}

// NewPlanner creates a Planner for config.
func NewPlanner(config *mapping.Config, opts ...Option) *Planner {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Planner{config: config, opts: o}
}

// Run plans pairs in a fresh Context. Without pairs every configured pair
// is planned. Mapping problems are reported in the result diagnostics; an
// error is only returned for internal failures.
func (p *Planner) Run(pairs ...Pair) (res *Result, err error) {
	runID := uuid.NewString()
	logger := p.opts.logger.With("run", runID)

	if len(pairs) == 0 {
		for _, pr := range p.config.Pairs() {
			pairs = append(pairs, Pair{Source: pr[0], Target: pr[1]})
		}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("planning failed", "panic", r)

			res, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	logger.Info("planning started", "pairs", len(pairs))

	diags := &diagnostic.Diagnostics{}
	ctx := newContext(p.config, diags, p.opts, logger)
	res = &Result{RunID: runID, Diagnostics: diags}

	for _, pr := range pairs {
		cell := ctx.FindOrBuildMapping(pr.Source, pr.Target, p.config.For(pr.Source, pr.Target))
		if cell == nil {
			diags.Report(diagnostic.CouldNotCreateMapping, typePair(pr.Source, pr.Target), "", pr.Source, pr.Target)
		}

		res.Mappings = append(res.Mappings, TopLevel{Pair: pr, Cell: cell})
	}

	res.Cells = ctx.Cells()

	logger.Info("planning finished",
		"cells", len(res.Cells),
		"errors", len(diags.Errors),
		"warnings", len(diags.Warnings))

	return res, nil
}

// RunAll plans independent batches concurrently, each in its own Context.
// Results are returned in batch order.
func (p *Planner) RunAll(ctx context.Context, batches ...[]Pair) ([]*Result, error) {
	results := make([]*Result, len(batches))

	g, ctx := errgroup.WithContext(ctx)

	for i, batch := range batches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := p.Run(batch...)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i, err)
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
