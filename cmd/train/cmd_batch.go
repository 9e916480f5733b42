package main

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"phishunt/internal/data"
	"phishunt/internal/pipeline"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Classify every URL in a file",
		Long: `batch trains once and labels the URLs in the first column of file
(CSV or one per line), writing url,label,probability rows to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			batchSize, _ := cmd.Flags().GetInt("batch-size")

			trainer, m := newTrainer(cfg, logger)
			provider := pipeline.NewCachedProvider(trainer)
			defer writeMetrics(m, cfg, logger)

			// Train up front; a failed run leaves stdout empty.
			if _, err := provider.Model(); err != nil {
				return err
			}

			w := csv.NewWriter(cmd.OutOrStdout())
			if err := w.Write([]string{"url", "label", "probability"}); err != nil {
				return err
			}

			total := 0
			err = data.ProcessURLFile(args[0], batchSize, func(urls []string) error {
				model, err := provider.Model()
				if err != nil {
					return err
				}

				labels, err := model.PredictBatch(urls)
				if err != nil {
					return err
				}

				for i, url := range urls {
					proba, err := model.PredictProba(url)
					if err != nil {
						return err
					}
					p := strconv.FormatFloat(proba[labels[i]], 'f', 4, 64)
					if err := w.Write([]string{url, labels[i], p}); err != nil {
						return err
					}
				}

				total += len(urls)
				logger.Debug("batch classified", "urls", len(urls), "total", total)
				return nil
			})
			if err != nil {
				return fmt.Errorf("classify %s: %w", args[0], err)
			}

			w.Flush()
			return w.Error()
		},
	}

	cmd.Flags().Int("batch-size", 1000, "URLs read per batch")

	return cmd
}
