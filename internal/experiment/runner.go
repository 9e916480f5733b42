// Package experiment sweeps classifier settings and holdout sizes over one
// shuffled corpus and collects the scores side by side.
package experiment

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"phishunt/internal/logging"
	"phishunt/internal/models"
	"phishunt/internal/pipeline"
)

type ExperimentRunner struct {
	Config *ExperimentConfig
	logger *slog.Logger
}

// ExperimentConfig is the sweep file layout:
//
//	experiment:
//	  test_sizes: [0.2, 0.3]
//	  cross_validation:
//	    folds: 5
//	  algorithms:
//	    logistic:
//	      c: [0.1, 1, 10]
//	    naive_bayes:
//	      alpha: [0.1, 1]
type ExperimentConfig struct {
	Experiment struct {
		TestSizes       []float64 `yaml:"test_sizes"`
		CrossValidation struct {
			Folds int `yaml:"folds"`
		} `yaml:"cross_validation"`
		Algorithms struct {
			Logistic struct {
				C            []float64 `yaml:"c"`
				LearningRate float64   `yaml:"learning_rate"`
				MaxIter      int       `yaml:"max_iter"`
			} `yaml:"logistic"`
			NaiveBayes struct {
				Alpha []float64 `yaml:"alpha"`
			} `yaml:"naive_bayes"`
		} `yaml:"algorithms"`
	} `yaml:"experiment"`
}

func NewRunner(configFile string, logger *slog.Logger) (*ExperimentRunner, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("reading experiment config: %w", err)
	}

	config := &ExperimentConfig{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing experiment config: %w", err)
	}

	return NewRunnerFromConfig(config, logger), nil
}

func NewRunnerFromConfig(config *ExperimentConfig, logger *slog.Logger) *ExperimentRunner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ExperimentRunner{Config: config, logger: logger}
}

// ModelConfigs expands the algorithm grid. An empty grid yields both
// classifiers with default settings.
func (r *ExperimentRunner) ModelConfigs() []models.ModelConfig {
	algos := r.Config.Experiment.Algorithms

	var configs []models.ModelConfig
	for _, c := range algos.Logistic.C {
		cfg := models.DefaultConfig("logistic")
		cfg.C = c
		if algos.Logistic.LearningRate > 0 {
			cfg.LearningRate = algos.Logistic.LearningRate
		}
		if algos.Logistic.MaxIter > 0 {
			cfg.MaxIter = algos.Logistic.MaxIter
		}
		configs = append(configs, cfg)
	}
	for _, alpha := range algos.NaiveBayes.Alpha {
		cfg := models.DefaultConfig("bayes")
		cfg.Alpha = alpha
		configs = append(configs, cfg)
	}

	if len(configs) == 0 {
		configs = []models.ModelConfig{models.DefaultConfig("logistic"), models.DefaultConfig("bayes")}
	}
	return configs
}

func (r *ExperimentRunner) testSizes(base pipeline.TrainerConfig) []float64 {
	if len(r.Config.Experiment.TestSizes) == 0 {
		return []float64{base.TestSize}
	}
	return r.Config.Experiment.TestSizes
}

// RunAllExperiments evaluates every test size and model setting on the same
// corpus, so differences come from the settings and not from the row order.
func (r *ExperimentRunner) RunAllExperiments(corpus *pipeline.Corpus, base pipeline.TrainerConfig) ([]ExperimentResult, error) {
	var results []ExperimentResult

	for _, testSize := range r.testSizes(base) {
		for _, modelConfig := range r.ModelConfigs() {
			cfg := base
			cfg.TestSize = testSize
			cfg.Model = modelConfig

			result, err := r.evaluate(corpus, cfg)
			if err != nil {
				return nil, fmt.Errorf("%s at test size %g: %w", modelConfig.Algorithm, testSize, err)
			}
			results = append(results, result)
		}
	}

	return results, nil
}

func (r *ExperimentRunner) evaluate(corpus *pipeline.Corpus, cfg pipeline.TrainerConfig) (ExperimentResult, error) {
	trainer := pipeline.NewTrainer(cfg, r.logger)

	model, err := trainer.Fit(corpus)
	if err != nil {
		return ExperimentResult{}, err
	}

	report := model.Report
	result := ExperimentResult{
		RunID:            report.RunID,
		Dataset:          report.Dataset,
		Algorithm:        report.Classifier,
		Parameters:       fmt.Sprintf("%v", report.Params),
		TestSize:         cfg.TestSize,
		TrainSize:        report.TrainSize,
		HoldoutSize:      report.HoldoutSize,
		VocabularySize:   report.VocabularySize,
		Accuracy:         report.Holdout.Accuracy,
		BalancedAccuracy: report.Holdout.BalancedAccuracy,
		Precision:        report.Holdout.MacroPrecision,
		Recall:           report.Holdout.MacroRecall,
		F1Score:          report.Holdout.MacroF1,
		TrainingTimeMs:   report.Duration.Milliseconds(),
	}

	if folds := r.Config.Experiment.CrossValidation.Folds; folds > 0 {
		_, mean, std, err := trainer.CrossValidateCorpus(corpus, folds)
		if err != nil {
			return ExperimentResult{}, fmt.Errorf("cross-validation: %w", err)
		}
		result.CVMean = mean
		result.CVStd = std
	}

	r.logger.Debug("experiment finished",
		"algorithm", result.Algorithm,
		"params", result.Parameters,
		"test_size", result.TestSize,
		"accuracy", result.Accuracy)

	return result, nil
}

type ExperimentResult struct {
	RunID            string
	Dataset          string
	Algorithm        string
	Parameters       string
	TestSize         float64
	TrainSize        int
	HoldoutSize      int
	VocabularySize   int
	Accuracy         float64
	BalancedAccuracy float64
	Precision        float64
	Recall           float64
	F1Score          float64
	CVMean           float64
	CVStd            float64
	TrainingTimeMs   int64
}

// Best returns the result with the highest holdout accuracy; ties keep the
// earlier result.
func Best(results []ExperimentResult) (ExperimentResult, bool) {
	if len(results) == 0 {
		return ExperimentResult{}, false
	}
	best := results[0]
	for _, result := range results[1:] {
		if result.Accuracy > best.Accuracy {
			best = result
		}
	}
	return best, true
}

func (r *ExperimentRunner) ExportResults(results []ExperimentResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	writer.Write([]string{
		"RunID", "Dataset", "Algorithm", "Parameters", "TestSize",
		"TrainSize", "HoldoutSize", "VocabularySize",
		"Accuracy", "BalancedAccuracy", "Precision", "Recall", "F1Score",
		"CVMean", "CVStd", "TrainingTimeMs",
	})

	for _, result := range results {
		writer.Write([]string{
			result.RunID,
			result.Dataset,
			result.Algorithm,
			result.Parameters,
			fixed(result.TestSize, 2),
			strconv.Itoa(result.TrainSize),
			strconv.Itoa(result.HoldoutSize),
			strconv.Itoa(result.VocabularySize),
			fixed(result.Accuracy, 4),
			fixed(result.BalancedAccuracy, 4),
			fixed(result.Precision, 4),
			fixed(result.Recall, 4),
			fixed(result.F1Score, 4),
			fixed(result.CVMean, 4),
			fixed(result.CVStd, 4),
			strconv.FormatInt(result.TrainingTimeMs, 10),
		})
	}

	writer.Flush()
	return writer.Error()
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
