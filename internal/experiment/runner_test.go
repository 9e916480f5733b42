package experiment

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishunt/internal/pipeline"
)

const dataset = `url,label
paypal-secure.com/login,malicious
bank0famerica.verify-login.com,malicious
secure-login.paypal.com.evil.ru/verify,malicious
apple-id.verify-account.net/login,malicious
login-secure.bank.xyz/verify,malicious
google.com,benign
wikipedia.org,benign
github.com/golang/go,benign
docs.python.org/3/library,benign
en.wikipedia.org/wiki/Go,benign
`

const sweep = `experiment:
  test_sizes: [0.2, 0.3]
  cross_validation:
    folds: 2
  algorithms:
    logistic:
      c: [0.5, 2]
    naive_bayes:
      alpha: [1]
`

func setup(t *testing.T) (*pipeline.Corpus, pipeline.TrainerConfig) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0644))

	cfg := pipeline.DefaultTrainerConfig()
	cfg.DatasetPath = path
	cfg.ShuffleSeed = 7

	corpus, err := pipeline.NewTrainer(cfg, nil).Load()
	require.NoError(t, err)
	return corpus, cfg
}

func writeSweep(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewRunner(t *testing.T) {
	runner, err := NewRunner(writeSweep(t, sweep), nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{0.2, 0.3}, runner.Config.Experiment.TestSizes)
	assert.Equal(t, 2, runner.Config.Experiment.CrossValidation.Folds)

	configs := runner.ModelConfigs()
	require.Len(t, configs, 3)
	assert.Equal(t, "logistic", configs[0].Algorithm)
	assert.Equal(t, 0.5, configs[0].C)
	assert.Equal(t, 2.0, configs[1].C)
	assert.Equal(t, "bayes", configs[2].Algorithm)

	_, err = NewRunner(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	_, err = NewRunner(writeSweep(t, "experiment: [unclosed"), nil)
	assert.Error(t, err)
}

func TestModelConfigs_EmptyGrid(t *testing.T) {
	runner := NewRunnerFromConfig(&ExperimentConfig{}, nil)

	configs := runner.ModelConfigs()
	require.Len(t, configs, 2)
	assert.Equal(t, "logistic", configs[0].Algorithm)
	assert.Equal(t, "bayes", configs[1].Algorithm)
}

func TestRunAllExperiments(t *testing.T) {
	corpus, base := setup(t)
	runner, err := NewRunner(writeSweep(t, sweep), nil)
	require.NoError(t, err)

	results, err := runner.RunAllExperiments(corpus, base)
	require.NoError(t, err)
	require.Len(t, results, 6)

	for _, r := range results {
		assert.NotEmpty(t, r.RunID)
		assert.GreaterOrEqual(t, r.Accuracy, 0.0)
		assert.LessOrEqual(t, r.Accuracy, 1.0)
		assert.Equal(t, 10, r.TrainSize+r.HoldoutSize)
		assert.Greater(t, r.VocabularySize, 0)
	}

	assert.Equal(t, 2, results[0].HoldoutSize)
	assert.Equal(t, 3, results[3].HoldoutSize)
	assert.Equal(t, "LogisticRegression", results[0].Algorithm)
	assert.Equal(t, "NaiveBayes", results[2].Algorithm)

	again, err := runner.RunAllExperiments(corpus, base)
	require.NoError(t, err)
	for i := range results {
		assert.Equal(t, results[i].Accuracy, again[i].Accuracy)
		assert.Equal(t, results[i].CVMean, again[i].CVMean)
	}
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	best, ok := Best([]ExperimentResult{
		{Algorithm: "a", Accuracy: 0.5},
		{Algorithm: "b", Accuracy: 0.9},
		{Algorithm: "c", Accuracy: 0.9},
	})
	assert.True(t, ok)
	assert.Equal(t, "b", best.Algorithm)
}

func TestExportResults(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.csv")
	runner := NewRunnerFromConfig(&ExperimentConfig{}, nil)

	err := runner.ExportResults([]ExperimentResult{{
		RunID:     "r1",
		Algorithm: "NaiveBayes",
		TestSize:  0.2,
		TrainSize: 8,
		Accuracy:  2.0 / 3.0,
		CVStd:     0.1,
	}}, out)
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	header := records[0]
	row := make(map[string]string, len(header))
	for i, name := range header {
		row[name] = records[1][i]
	}
	assert.Equal(t, "r1", row["RunID"])
	assert.Equal(t, "0.20", row["TestSize"])
	assert.Equal(t, "8", row["TrainSize"])
	assert.Equal(t, "0.6667", row["Accuracy"])
	assert.Equal(t, "0.1000", row["CVStd"])
	assert.Equal(t, "0.0000", row["CVMean"])
}
