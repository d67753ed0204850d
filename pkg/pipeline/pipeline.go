package pipeline

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/table"
	"github.com/haferml/hafer/pkg/transforms"
)

// Operation transforms the working table. It either mutates t in place and
// returns nil, or returns the table to continue with.
type Operation func(t *table.Table) (*table.Table, error)

// Processor declares the operations a pipeline runs.
type Processor interface {
	transforms.Declarer[Operation]
}

// Merger is implemented by processors that know how to combine their input
// datasets into one table.
type Merger interface {
	MergeDatasets(ds Datasets) (*table.Table, error)
}

// Options control a single run.
type Options struct {
	// Merge hands the datasets to the processor's MergeDatasets instead of
	// concatenating them.
	Merge bool
}

// Pipeline is a processor with its operations collected and ordered.
type Pipeline struct {
	proc   Processor
	ops    *transforms.Ordered[Operation]
	logger zerolog.Logger
}

// Option configures New.
type Option func(*settings)

type settings struct {
	tag string
}

// WithTag orders operations by tag instead of "order".
func WithTag(tag string) Option {
	return func(s *settings) { s.tag = tag }
}

// New collects the operations of proc.
func New(proc Processor, opts ...Option) (*Pipeline, error) {
	if proc == nil {
		return nil, errors.New(errors.ErrInvalidInput, "pipeline needs a processor")
	}
	s := settings{tag: transforms.DefaultTag}
	for _, o := range opts {
		o(&s)
	}
	ops, err := transforms.Collect[Operation](proc, s.tag)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		proc:   proc,
		ops:    ops,
		logger: logging.GetLogger("pipeline"),
	}, nil
}

// Operations returns the operation names in execution order.
func (p *Pipeline) Operations() []string {
	return p.ops.Names()
}

// Tag returns the attribute the operations are ordered by.
func (p *Pipeline) Tag() string {
	return p.ops.Tag()
}

// Run normalizes ds into one working table and applies every operation in
// order. The first failing operation aborts the run.
func (p *Pipeline) Run(ds Datasets, opts Options) (*table.Table, error) {
	working, err := p.normalize(ds, opts)
	if err != nil {
		return nil, err
	}

	for i, e := range p.ops.Entries() {
		start := time.Now()
		p.logger.Info().Str("operation", e.Name).Msg("performing operation")

		next, err := e.Fn(working)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrStageFailed, "operation %q failed", e.Name).
				WithDetail("operation", e.Name).
				WithDetail("position", i)
		}
		if next != nil {
			working = next
		}

		p.logger.Info().
			Str("operation", e.Name).
			Dur("duration", time.Since(start)).
			Int("rows", working.Len()).
			Msg("operation done")
	}
	return working, nil
}

// Preprocess is Run under its historical name.
func (p *Pipeline) Preprocess(ds Datasets, opts Options) (*table.Table, error) {
	return p.Run(ds, opts)
}

func (p *Pipeline) normalize(ds Datasets, opts Options) (*table.Table, error) {
	if opts.Merge {
		m, ok := p.proc.(Merger)
		if !ok {
			return nil, errors.New(errors.ErrNotImplemented, "processor does not implement MergeDatasets")
		}
		merged, err := m.MergeDatasets(ds)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrStageFailed, "merging datasets failed").
				WithDetail("operation", "merge_datasets")
		}
		if merged == nil {
			return nil, errors.New(errors.ErrInvalidInput, "MergeDatasets returned no table")
		}
		return merged, nil
	}

	switch ds.Shape() {
	case ShapeNamed, ShapeList:
		if ds.Len() == 0 {
			return nil, errors.New(errors.ErrInvalidInput, "no datasets to concatenate").
				WithDetail("shape", ds.Shape().String())
		}
		p.logger.Warn().
			Str("shape", ds.Shape().String()).
			Int("datasets", ds.Len()).
			Msg("no merge requested, concatenating all datasets")
		return table.Concat(ds.tables...), nil
	case ShapeSingle:
		if ds.tables[0] == nil {
			return nil, errors.New(errors.ErrInvalidInput, "single dataset is nil")
		}
		p.logger.Info().Msg("single input table, working on a copy")
		return ds.tables[0].Copy(), nil
	default:
		return nil, errors.New(errors.ErrInvalidInput, "datasets must be named tables, a list of tables or a single table")
	}
}
