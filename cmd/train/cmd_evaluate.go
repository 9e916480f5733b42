package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"phishunt/internal/pipeline"
)

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Train once and report holdout metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			trainer, m := newTrainer(cfg, logger)
			model, trainErr := trainer.Train()
			writeMetrics(m, cfg, logger)
			if trainErr != nil {
				return trainErr
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(model.Report)
			}

			printReport(cmd.OutOrStdout(), model.Report)
			return nil
		},
	}

	cmd.Flags().String("metrics-file", "", "Write Prometheus textfile metrics to this path")

	return cmd
}

func printReport(w io.Writer, r pipeline.Report) {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", bold("Run:"), r.RunID)
	fmt.Fprintf(w, "%s %s (%d rows, %d skipped)\n", bold("Dataset:"), r.Dataset, r.RowsLoaded, r.RowsSkipped)

	fmt.Fprintf(w, "%s", bold("Classes:"))
	for _, class := range r.Classes {
		fmt.Fprintf(w, " %s=%d", class, r.ClassDistribution[class])
	}
	fmt.Fprintln(w)

	if lengths, ok := r.DatasetStats["url_length"].(map[string]float64); ok {
		fmt.Fprintf(w, "%s min %.0f / mean %.1f / max %.0f\n",
			bold("URL length:"), lengths["min"], lengths["mean"], lengths["max"])
	}
	fmt.Fprintf(w, "%s %d tokens\n", bold("Vocabulary:"), r.VocabularySize)
	fmt.Fprintf(w, "%s train %d / holdout %d (shuffle seed %d, split seed %d)\n",
		bold("Split:"), r.TrainSize, r.HoldoutSize, r.ShuffleSeed, r.SplitSeed)
	fmt.Fprintf(w, "%s %s %s\n", bold("Classifier:"), cyan(r.Classifier), formatParams(r.Params))
	fmt.Fprintf(w, "%s %v\n\n", bold("Training time:"), r.Duration)

	accuracyColor(r.Holdout.Accuracy).Fprint(w, r.Holdout.FormatMetrics(r.Classes))

	fmt.Fprintf(w, "\n%s\n", bold("Confusion matrix (rows true, columns predicted):"))
	fmt.Fprintf(w, "  %-12s %12s %12s\n", "", r.Classes[0], r.Classes[1])
	for i, class := range r.Classes {
		fmt.Fprintf(w, "  %-12s %12d %12d\n", class, r.Holdout.ConfusionMatrix[i][0], r.Holdout.ConfusionMatrix[i][1])
	}
}

func accuracyColor(accuracy float64) *color.Color {
	switch {
	case accuracy >= 0.9:
		return color.New(color.FgGreen)
	case accuracy >= 0.7:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func formatParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := ""
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%v", k, params[k])
	}
	return s
}
