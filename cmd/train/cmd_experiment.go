package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"phishunt/internal/experiment"
	"phishunt/internal/pipeline"
)

func newExperimentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Sweep classifiers and holdout sizes over one shuffled dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			sweepFile, _ := cmd.Flags().GetString("sweep")
			outputDir, _ := cmd.Flags().GetString("output")

			runner, err := experiment.NewRunner(sweepFile, logger)
			if err != nil {
				return err
			}

			base := pipeline.TrainerConfigFrom(cfg)
			corpus, err := pipeline.NewTrainer(base, logger).Load()
			if err != nil {
				return err
			}

			results, err := runner.RunAllExperiments(corpus, base)
			if err != nil {
				return fmt.Errorf("experiment failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-20s %-40s %8s %8s %8s %8s\n", "Algorithm", "Parameters", "Test", "Acc", "F1", "CV")
			for _, r := range results {
				fmt.Fprintf(out, "%-20s %-40s %8.2f %8.4f %8.4f %8.4f\n",
					r.Algorithm, r.Parameters, r.TestSize, r.Accuracy, r.F1Score, r.CVMean)
			}

			if best, ok := experiment.Best(results); ok {
				color.New(color.FgGreen, color.Bold).Fprintf(out,
					"\nBest accuracy: %.4f (%s %s, test size %.2f)\n",
					best.Accuracy, best.Algorithm, best.Parameters, best.TestSize)
			}

			if outputDir == "" {
				return nil
			}
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return err
			}
			timestamp := time.Now().Format("20060102_150405")
			resultsFile := filepath.Join(outputDir, fmt.Sprintf("experiment_%s.csv", timestamp))
			if err := runner.ExportResults(results, resultsFile); err != nil {
				return fmt.Errorf("export results: %w", err)
			}
			fmt.Fprintf(out, "Results saved to: %s\n", resultsFile)
			return nil
		},
	}

	cmd.Flags().String("sweep", "sweep.yaml", "Experiment sweep file")
	cmd.Flags().String("output", "", "Directory for the results CSV")

	return cmd
}
