// Package pipeline wires dataset loading, TF-IDF vectorization, the
// train/holdout split and classifier fitting into a single training run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"phishunt/internal/config"
	"phishunt/internal/data"
	"phishunt/internal/evaluation"
	"phishunt/internal/logging"
	"phishunt/internal/metrics"
	"phishunt/internal/models"
	"phishunt/internal/preprocessing"
	"phishunt/internal/sparse"
	"phishunt/internal/tokenizer"
)

type TrainerConfig struct {
	DatasetPath string
	TestSize    float64
	SplitSeed   int64
	// ShuffleSeed of zero draws a seed from the clock, so the row order and
	// therefore the holdout membership differ between runs.
	ShuffleSeed int64
	Stratify    bool
	Model       models.ModelConfig
}

func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfigFrom(config.Default())
}

func TrainerConfigFrom(cfg *config.Config) TrainerConfig {
	return TrainerConfig{
		DatasetPath: cfg.Dataset.Path,
		TestSize:    cfg.Training.TestSize,
		SplitSeed:   cfg.Training.SplitSeed,
		ShuffleSeed: cfg.Training.ShuffleSeed,
		Stratify:    cfg.Training.Stratify,
		Model:       cfg.Training.Model,
	}
}

// Corpus is a loaded, validated and shuffled dataset.
type Corpus struct {
	*data.Dataset
	ShuffleSeed int64
}

type Trainer struct {
	config  TrainerConfig
	logger  *slog.Logger
	metrics *metrics.TrainingMetrics
}

func NewTrainer(cfg TrainerConfig, logger *slog.Logger) *Trainer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Trainer{config: cfg, logger: logger}
}

// WithMetrics makes Train record each run in m.
func (t *Trainer) WithMetrics(m *metrics.TrainingMetrics) *Trainer {
	t.metrics = m
	return t
}

// Train loads the dataset, fits a fresh vectorizer and classifier and scores
// the classifier on the holdout partition.
func (t *Trainer) Train() (*Model, error) {
	corpus, err := t.Load()
	if err != nil {
		t.observeFailure()
		return nil, err
	}

	model, err := t.Fit(corpus)
	if err != nil {
		t.observeFailure()
		return nil, err
	}

	if t.metrics != nil {
		r := model.Report
		t.metrics.ObserveSuccess(metrics.Run{
			Algorithm:       r.Algorithm,
			RowsLoaded:      r.RowsLoaded,
			RowsSkipped:     r.RowsSkipped,
			VocabularySize:  r.VocabularySize,
			TrainSize:       r.TrainSize,
			HoldoutSize:     r.HoldoutSize,
			HoldoutAccuracy: r.Holdout.Accuracy,
			Duration:        r.Duration,
			Finished:        r.TrainedAt,
		})
	}

	return model, nil
}

func (t *Trainer) Load() (*Corpus, error) {
	ds, err := data.LoadURLDataset(t.config.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	t.logger.Debug("dataset loaded",
		"path", ds.Source,
		"rows", len(ds.Rows),
		"header", ds.Header)
	if ds.Skipped > 0 {
		t.logger.Warn("skipped malformed dataset rows",
			"path", ds.Source,
			"skipped", ds.Skipped)
	}

	if err := data.NewDataValidator().ValidateDataset(ds); err != nil {
		return nil, fmt.Errorf("validate dataset %s: %w", ds.Source, err)
	}

	seed := t.config.ShuffleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ds.Shuffle(rand.New(rand.NewSource(seed)))

	return &Corpus{Dataset: ds, ShuffleSeed: seed}, nil
}

// Fit trains on an already shuffled corpus. The corpus is not modified.
func (t *Trainer) Fit(corpus *Corpus) (*Model, error) {
	start := time.Now()

	encoder := preprocessing.NewLabelEncoder()
	y, err := encoder.FitTransform(corpus.Labels())
	if err != nil {
		return nil, fmt.Errorf("encode labels: %w", err)
	}
	if len(encoder.Classes) != 2 {
		return nil, fmt.Errorf("%w, found %d", data.ErrNotBinary, len(encoder.Classes))
	}

	vectorizer := preprocessing.NewTfidfVectorizer(tokenizer.Tokenize)
	X, err := vectorizer.FitTransform(corpus.URLs())
	if err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}
	t.logger.Debug("vectorizer fitted", "vocabulary", vectorizer.VocabularySize())

	trainIdx, testIdx, err := t.split(y)
	if err != nil {
		return nil, fmt.Errorf("split dataset: %w", err)
	}

	XTrain, yTrain := gather(X, y, trainIdx)
	XTest, yTest := gather(X, y, testIdx)

	classifier, err := models.CreateModel(t.config.Model)
	if err != nil {
		return nil, err
	}
	if err := classifier.Fit(XTrain, vectorizer.VocabularySize(), yTrain); err != nil {
		return nil, fmt.Errorf("fit %s: %w", classifier.GetName(), err)
	}

	if lr, ok := classifier.(*models.LogisticRegression); ok {
		t.logger.Log(context.Background(), logging.LevelTrace, "gradient descent finished",
			"iterations", lr.NIter,
			"converged", lr.Converged,
			"intercept", lr.Intercept)
	}

	holdout, err := evaluation.CalculateMetrics(yTest, classifier.Predict(XTest))
	if err != nil {
		return nil, fmt.Errorf("score holdout: %w", err)
	}
	t.logger.Log(context.Background(), logging.LevelTrace, "holdout confusion matrix",
		"matrix", holdout.ConfusionMatrix)

	report := Report{
		RunID:             uuid.NewString(),
		Dataset:           corpus.Source,
		Algorithm:         algorithmName(t.config.Model),
		Classifier:        classifier.GetName(),
		Params:            classifier.GetParams(),
		RowsLoaded:        len(corpus.Rows),
		RowsSkipped:       corpus.Skipped,
		Classes:           encoder.Classes,
		ClassDistribution: corpus.ClassDistribution(),
		DatasetStats:      data.NewDataValidator().GetDatasetStats(corpus.Dataset),
		VocabularySize:    vectorizer.VocabularySize(),
		TrainSize:         len(trainIdx),
		HoldoutSize:       len(testIdx),
		Holdout:           holdout,
		ShuffleSeed:       corpus.ShuffleSeed,
		SplitSeed:         t.config.SplitSeed,
		Duration:          time.Since(start),
		TrainedAt:         time.Now(),
	}

	t.logger.Info("model trained",
		"run_id", report.RunID,
		"classifier", report.Classifier,
		"rows", report.RowsLoaded,
		"skipped", report.RowsSkipped,
		"vocabulary", report.VocabularySize,
		"holdout_accuracy", holdout.ExactAccuracy(4).String(),
		"duration", report.Duration)

	return &Model{
		Vectorizer: vectorizer,
		Classifier: classifier,
		Encoder:    encoder,
		Report:     report,
	}, nil
}

// CrossValidate scores the whole pipeline with k folds. The vectorizer is
// refitted on each fold's training rows so holdout tokens never leak into idf.
func (t *Trainer) CrossValidate(folds int) ([]float64, float64, float64, error) {
	corpus, err := t.Load()
	if err != nil {
		return nil, 0, 0, err
	}
	return t.CrossValidateCorpus(corpus, folds)
}

func (t *Trainer) CrossValidateCorpus(corpus *Corpus, folds int) ([]float64, float64, float64, error) {
	urls := corpus.URLs()
	encoder := preprocessing.NewLabelEncoder()
	y, err := encoder.FitTransform(corpus.Labels())
	if err != nil {
		return nil, 0, 0, err
	}

	cv := evaluation.NewCrossValidator(folds, t.config.SplitSeed)
	return cv.CrossValidate(len(urls), func(trainIdx, testIdx []int) (float64, error) {
		vectorizer := preprocessing.NewTfidfVectorizer(tokenizer.Tokenize)
		XTrain, err := vectorizer.FitTransform(pick(urls, trainIdx))
		if err != nil {
			return 0, err
		}
		XTest, err := vectorizer.Transform(pick(urls, testIdx))
		if err != nil {
			return 0, err
		}

		classifier, err := models.CreateModel(t.config.Model)
		if err != nil {
			return 0, err
		}
		if err := classifier.Fit(XTrain, vectorizer.VocabularySize(), pickInts(y, trainIdx)); err != nil {
			return 0, err
		}

		m, err := evaluation.CalculateMetrics(pickInts(y, testIdx), classifier.Predict(XTest))
		if err != nil {
			return 0, err
		}
		t.logger.Debug("fold scored", "train", len(trainIdx), "test", len(testIdx), "accuracy", m.Accuracy)
		return m.Accuracy, nil
	})
}

func (t *Trainer) split(y []int) ([]int, []int, error) {
	splitter := evaluation.NewTrainTestSplitter(t.config.TestSize, t.config.SplitSeed, true)
	if t.config.Stratify {
		return splitter.StratifiedSplitIndices(y)
	}
	return splitter.SplitIndices(len(y))
}

func (t *Trainer) observeFailure() {
	if t.metrics != nil {
		t.metrics.ObserveFailure()
	}
}

func algorithmName(cfg models.ModelConfig) string {
	if cfg.Algorithm == "" {
		return "logistic"
	}
	return cfg.Algorithm
}

func gather(X []sparse.Vector, y []int, idx []int) ([]sparse.Vector, []int) {
	outX := make([]sparse.Vector, len(idx))
	outY := make([]int, len(idx))
	for i, j := range idx {
		outX[i] = X[j]
		outY[i] = y[j]
	}
	return outX, outY
}

func pick(values []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

func pickInts(values []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
