package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
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

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestEvaluate(t *testing.T) {
	data := writeFile(t, "data.csv", dataset)
	metricsFile := filepath.Join(t.TempDir(), "train.prom")

	out, err := execute(t, "evaluate", "--data", data, "--shuffle-seed", "3", "--metrics-file", metricsFile)
	require.NoError(t, err)

	assert.Contains(t, out, "Vocabulary:")
	assert.Contains(t, out, "train 8 / holdout 2")
	assert.Contains(t, out, "benign=5 malicious=5")
	assert.Contains(t, out, "Accuracy:")
	assert.Contains(t, out, "URL length: min 10 / mean 24.4 / max 38")
	assert.Contains(t, out, "Confusion matrix")

	content, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "phishunt_vocabulary_size")
}

func TestEvaluate_JSON(t *testing.T) {
	data := writeFile(t, "data.csv", dataset)

	out, err := execute(t, "evaluate", "--data", data, "--algorithm", "bayes", "--json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "bayes", report["algorithm"])
	assert.Equal(t, "NaiveBayes", report["classifier"])
	assert.EqualValues(t, 10, report["rows_loaded"])
	assert.Contains(t, report, "holdout")
	stats, ok := report["dataset_stats"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 10, stats["samples"])
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := execute(t, "evaluate", "--data", filepath.Join(t.TempDir(), "none.csv"))
	assert.Error(t, err)

	_, err = execute(t, "evaluate", "--data", writeFile(t, "data.csv", dataset), "--algorithm", "svm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid algorithm")

	_, err = execute(t, "evaluate", "extra")
	assert.Error(t, err)
}

func TestCV(t *testing.T) {
	data := writeFile(t, "data.csv", dataset)

	out, err := execute(t, "cv", "--data", data, "--folds", "2", "--shuffle-seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "fold 1:")
	assert.Contains(t, out, "fold 2:")
	assert.Contains(t, out, "CV accuracy:")

	out, err = execute(t, "cv", "--data", data, "--folds", "5", "--json")
	require.NoError(t, err)
	var result struct {
		Folds []float64 `json:"folds"`
		Mean  float64   `json:"mean"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Folds, 5)

	_, err = execute(t, "cv", "--data", data, "--folds", "11")
	assert.Error(t, err)
}

func TestCV_WritesNoMetrics(t *testing.T) {
	data := writeFile(t, "data.csv", dataset)
	metricsFile := filepath.Join(t.TempDir(), "cv.prom")
	t.Setenv("PHISHUNT_METRICS_FILE", metricsFile)

	_, err := execute(t, "cv", "--data", data, "--folds", "2")
	require.NoError(t, err)

	_, err = os.Stat(metricsFile)
	assert.True(t, os.IsNotExist(err))
}

func TestInspect(t *testing.T) {
	data := writeFile(t, "data.csv", dataset)

	out, err := execute(t, "inspect", "--data", data, "--top", "3",
		"http://paypal-secure.com.evil.ru/login", "https://en.wikipedia.org/wiki/Go")
	require.NoError(t, err)

	assert.Contains(t, out, "registrable domain: evil.ru")
	assert.Contains(t, out, "registrable domain: wikipedia.org")
	assert.Contains(t, out, "label:")
	assert.Contains(t, out, "toward")
}

func TestIsMaliciousLabel(t *testing.T) {
	for _, label := range []string{"malicious", "bad", "Phishing", " BAD "} {
		assert.True(t, isMaliciousLabel(label), label)
	}
	for _, label := range []string{"benign", "good", "legit", ""} {
		assert.False(t, isMaliciousLabel(label), label)
	}
}

func TestPrintInspection_ColorsByClass(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	r := inspection{
		Label:         "benign",
		Probabilities: map[string]float64{"benign": 0.6, "malicious": 0.4},
		Contributions: []pipeline.Contribution{
			{Token: "login", Score: 0.5, Toward: "malicious"},
			{Token: "wikipedia", Score: 0.3, Toward: "benign"},
		},
	}
	r.Raw = "wikipedia.org/login"

	var buf bytes.Buffer
	printInspection(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "\x1b[31m+0.5000")
	assert.Contains(t, out, "\x1b[32m+0.3000")
}

func TestInspect_JSON(t *testing.T) {
	data := writeFile(t, "data.csv", dataset)

	out, err := execute(t, "inspect", "--data", data, "--json", "zzz-unknown.example")
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "zzz-unknown.example", results[0]["raw"])
	assert.Contains(t, []any{"benign", "malicious"}, results[0]["label"])
	assert.Empty(t, results[0]["contributions"])
}

func TestInspect_RequiresURL(t *testing.T) {
	_, err := execute(t, "inspect")
	assert.Error(t, err)
}

func TestBatch(t *testing.T) {
	data := writeFile(t, "data.csv", dataset)
	input := writeFile(t, "urls.txt", "url\nhttp://paypal-secure.com.evil.ru/login\n\ngoogle.com\nnew-site.org/home\n")

	out, err := execute(t, "batch", "--data", data, "--batch-size", "2", input)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"url", "label", "probability"}, records[0])
	assert.Equal(t, "http://paypal-secure.com.evil.ru/login", records[1][0])
	assert.Equal(t, "new-site.org/home", records[3][0])
	for _, r := range records[1:] {
		assert.Contains(t, []string{"benign", "malicious"}, r[1])
	}
}

func TestBatch_TrainingFailureWritesNothing(t *testing.T) {
	input := writeFile(t, "urls.txt", "google.com\n")

	out, err := execute(t, "batch", "--data", filepath.Join(t.TempDir(), "none.csv"), input)
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestExperiment(t *testing.T) {
	data := writeFile(t, "data.csv", dataset)
	sweep := writeFile(t, "sweep.yaml", `experiment:
  test_sizes: [0.2]
  algorithms:
    logistic:
      c: [1]
    naive_bayes:
      alpha: [0.5]
`)
	outputDir := filepath.Join(t.TempDir(), "results")

	out, err := execute(t, "experiment", "--data", data, "--shuffle-seed", "5", "--sweep", sweep, "--output", outputDir)
	require.NoError(t, err)

	assert.Contains(t, out, "LogisticRegression")
	assert.Contains(t, out, "NaiveBayes")
	assert.Contains(t, out, "Best accuracy:")
	assert.Contains(t, out, "Results saved to:")

	matches, err := filepath.Glob(filepath.Join(outputDir, "experiment_*.csv"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestExperiment_MissingSweep(t *testing.T) {
	data := writeFile(t, "data.csv", dataset)

	_, err := execute(t, "experiment", "--data", data, "--sweep", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
