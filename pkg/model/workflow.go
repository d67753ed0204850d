package model

import (
	"context"
	"time"

	"github.com/haferml/hafer/pkg/config"
	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/table"
	"github.com/haferml/hafer/pkg/transforms"
)

// Report is what a fit produces: hyperparameters, chosen parameters, scores.
type Report map[string]any

// DataSet prepares train and test data from the pipeline output.
type DataSet interface {
	CreateTrainTestDatasets(ctx context.Context, data *table.Table) error
}

// ModelSet builds the model and knows its hyperparameters.
type ModelSet interface {
	CreateModel(ctx context.Context) error
	Hyperparameters() map[string]any
}

// Trainer fits the model and keeps the results.
type Trainer interface {
	FitAndReport(ctx context.Context) (Report, error)
	ExportResults(ctx context.Context, report Report) error
}

// Workflow ties a DataSet, a ModelSet and a Trainer together.
type Workflow struct {
	Config     *config.Tree
	BaseFolder string
	DataSet    DataSet
	ModelSet   ModelSet
	Trainer    Trainer
}

type run struct {
	ctx    context.Context
	data   *table.Table
	report Report
}

func (w *Workflow) steps() transforms.Declarations[transforms.Step[*run]] {
	return transforms.Declarations[transforms.Step[*run]]{
		transforms.Declare[transforms.Step[*run]]("create_train_test_datasets", func(r *run) (*run, error) {
			return r, w.DataSet.CreateTrainTestDatasets(r.ctx, r.data)
		}, transforms.Order(1)),
		transforms.Declare[transforms.Step[*run]]("create_model", func(r *run) (*run, error) {
			return r, w.ModelSet.CreateModel(r.ctx)
		}, transforms.Order(2)),
		transforms.Declare[transforms.Step[*run]]("fit_and_report", func(r *run) (*run, error) {
			report, err := w.Trainer.FitAndReport(r.ctx)
			if err != nil {
				return nil, err
			}
			if report == nil {
				report = Report{}
			}
			if _, ok := report["hyperparameters"]; !ok {
				report["hyperparameters"] = w.ModelSet.Hyperparameters()
			}
			report["trained_at"] = time.Now().UTC()
			r.report = report
			return r, nil
		}, transforms.Order(3)),
		transforms.Declare[transforms.Step[*run]]("export_results", func(r *run) (*run, error) {
			return r, w.Trainer.ExportResults(r.ctx, r.report)
		}, transforms.Order(4)),
	}
}

// Train runs the workflow on data: split, build, fit and report, export.
// The first failing step stops the run.
func (w *Workflow) Train(ctx context.Context, data *table.Table) (Report, error) {
	if w.DataSet == nil || w.ModelSet == nil || w.Trainer == nil {
		return nil, errors.New(errors.ErrInvalidInput, "workflow needs a data set, a model set and a trainer")
	}
	logger := logging.GetLogger("model")
	done := logging.LogOperationStart(logger, "train")
	defer done()

	steps, err := transforms.Collect[transforms.Step[*run]](w.steps(), transforms.DefaultTag)
	if err != nil {
		return nil, err
	}
	for i, name := range steps.Names() {
		logger.Info().Int("step", i+1).Str("name", name).Msg("training step")
	}

	out, err := transforms.Chain(steps, &run{ctx: ctx, data: data})
	if err != nil {
		return nil, err
	}
	return out.report, nil
}
