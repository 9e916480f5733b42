package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"phishunt/internal/pipeline"
)

func newCVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cv",
		Short: "Cross-validate the whole pipeline",
		Long: `cv splits the dataset into k folds and scores each one with a vectorizer
and classifier fitted on the remaining folds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			folds, _ := cmd.Flags().GetInt("folds")

			trainer := pipeline.NewTrainer(pipeline.TrainerConfigFrom(cfg), logger)
			scores, mean, std, err := trainer.CrossValidate(folds)
			if err != nil {
				return err
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"folds":  scores,
					"mean":   mean,
					"stddev": std,
				})
			}

			out := cmd.OutOrStdout()
			for i, score := range scores {
				fmt.Fprintf(out, "fold %d: %.4f\n", i+1, score)
			}
			accuracyColor(mean).Fprintf(out, "CV accuracy: %.4f ± %.4f\n", mean, std)
			return nil
		},
	}

	cmd.Flags().Int("folds", 5, "Number of folds")

	return cmd
}
