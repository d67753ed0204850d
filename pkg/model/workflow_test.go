package model_test

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haferml/hafer/pkg/config"
	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/model"
	"github.com/haferml/hafer/pkg/pipeline"
	"github.com/haferml/hafer/pkg/storage"
	"github.com/haferml/hafer/pkg/table"
	"github.com/haferml/hafer/pkg/testutil"
)

type fakeData struct {
	calls *[]string
	train *table.Table
}

func (d *fakeData) CreateTrainTestDatasets(_ context.Context, data *table.Table) error {
	*d.calls = append(*d.calls, "split")
	d.train = data
	return nil
}

type fakeModel struct {
	calls *[]string
	err   error
}

func (m *fakeModel) CreateModel(context.Context) error {
	*m.calls = append(*m.calls, "create")
	return m.err
}

func (m *fakeModel) Hyperparameters() map[string]any {
	return map[string]any{"max_depth": []any{5, 10}}
}

type fakeTrainer struct {
	calls    *[]string
	exported model.Report
	path     string
}

func (f *fakeTrainer) FitAndReport(context.Context) (model.Report, error) {
	*f.calls = append(*f.calls, "fit")
	return model.Report{"best_params": map[string]any{"max_depth": 5}}, nil
}

func (f *fakeTrainer) ExportResults(_ context.Context, r model.Report) error {
	*f.calls = append(*f.calls, "export")
	f.exported = r
	return model.AppendReport(f.path, r)
}

func TestWorkflowTrain(t *testing.T) {
	var calls []string
	data := &fakeData{calls: &calls}
	trainer := &fakeTrainer{calls: &calls, path: filepath.Join(t.TempDir(), "model", "rf.joblib.log")}
	w := &model.Workflow{
		DataSet:  data,
		ModelSet: &fakeModel{calls: &calls},
		Trainer:  trainer,
	}

	in := testutil.MustTable(t, []string{"km"}, []any{1.0})
	report, err := w.Train(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"split", "create", "fit", "export"}, calls)
	assert.Same(t, in, data.train)
	assert.Equal(t, map[string]any{"max_depth": []any{5, 10}}, report["hyperparameters"])
	assert.Contains(t, report, "trained_at")
	assert.Equal(t, report, trainer.exported)

	records, err := storage.LoadRecords(trainer.path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"best_params", "hyperparameters", "trained_at"}, records[0].Keys())
}

func TestWorkflowStopsOnFailure(t *testing.T) {
	var calls []string
	cause := stderrors.New("no solver")
	w := &model.Workflow{
		DataSet:  &fakeData{calls: &calls},
		ModelSet: &fakeModel{calls: &calls, err: cause},
		Trainer:  &fakeTrainer{calls: &calls},
	}

	_, err := w.Train(context.Background(), table.New())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStageFailed))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "create_model", errors.GetErrorDetails(err)["step"])
	assert.Equal(t, []string{"split", "create"}, calls)
}

func TestWorkflowNeedsParts(t *testing.T) {
	_, err := (&model.Workflow{}).Train(context.Background(), table.New())
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestExportTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dataset")
	a := config.Artifact{Local: "dataset", LocalAbsolute: dir}

	train := testutil.MustTable(t, []string{"km"}, []any{1.5}, []any{2.5})
	require.NoError(t, model.ExportTables(a, ".csv", pipeline.Entry("model_X_train", train)))

	back, err := table.ReadFile(filepath.Join(dir, "model_X_train.csv"))
	require.NoError(t, err)
	assert.Equal(t, 2, back.Len())

	err = model.ExportTables(config.Artifact{}, ".csv")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestReportPath(t *testing.T) {
	a := config.Artifact{LocalAbsolute: "/p/model", Name: "rf.joblib", NameAbsolute: "/p/model/rf.joblib"}
	assert.Equal(t, "/p/model/rf.joblib.log", model.ReportPath(a))
}
