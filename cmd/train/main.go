// Command train is the operator tool around the phishing classifier: holdout
// evaluation, cross-validation, per-URL inspection, batch scoring and
// parameter sweeps.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"phishunt/internal/config"
	"phishunt/internal/logging"
	"phishunt/internal/metrics"
	"phishunt/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "train",
		Short: "Train and evaluate the phishing URL classifier",
		Long: `train fits the TF-IDF vectorizer and classifier on a labeled URL dataset
and reports how well the result separates malicious from benign URLs.

Settings come from phishunt.yaml, .env and PHISHUNT_* variables; the flags
below override them.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file (default phishunt.yaml when present)")
	rootCmd.PersistentFlags().String("data", "", "Dataset CSV with url,label rows")
	rootCmd.PersistentFlags().String("algorithm", "", "Classifier: logistic or bayes")
	rootCmd.PersistentFlags().Int64("shuffle-seed", 0, "Row shuffle seed (0 draws one from the clock)")
	rootCmd.PersistentFlags().Bool("stratify", false, "Keep label proportions equal in both partitions")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newEvaluateCmd(),
		newCVCmd(),
		newInspectCmd(),
		newBatchCmd(),
		newExperimentCmd(),
	)

	return rootCmd
}

// loadSettings resolves the effective configuration for a command, letting
// explicitly set flags win over file and environment values.
func loadSettings(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if flags.Changed("data") {
		cfg.Dataset.Path, _ = flags.GetString("data")
	}
	if flags.Changed("algorithm") {
		cfg.Training.Model.Algorithm, _ = flags.GetString("algorithm")
	}
	if flags.Changed("shuffle-seed") {
		cfg.Training.ShuffleSeed, _ = flags.GetInt64("shuffle-seed")
	}
	if flags.Changed("stratify") {
		cfg.Training.Stratify, _ = flags.GetBool("stratify")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Lookup("metrics-file") != nil && flags.Changed("metrics-file") {
		cfg.Metrics.File, _ = flags.GetString("metrics-file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()), nil
}

// newTrainer returns a trainer for cfg and, when a metrics file is configured,
// the metrics it records into.
func newTrainer(cfg *config.Config, logger *slog.Logger) (*pipeline.Trainer, *metrics.TrainingMetrics) {
	trainer := pipeline.NewTrainer(pipeline.TrainerConfigFrom(cfg), logger)
	if cfg.Metrics.File == "" {
		return trainer, nil
	}
	m := metrics.NewTrainingMetrics()
	return trainer.WithMetrics(m), m
}

func writeMetrics(m *metrics.TrainingMetrics, cfg *config.Config, logger *slog.Logger) {
	if m == nil {
		return
	}
	if err := m.WriteTextfile(cfg.Metrics.File); err != nil {
		logger.Warn("failed to write metrics textfile", "path", cfg.Metrics.File, "error", err)
		return
	}
	logger.Debug("metrics written", "path", cfg.Metrics.File)
}
