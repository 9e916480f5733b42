package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"phishunt/internal/pipeline"
	"phishunt/internal/urlinfo"
)

type inspection struct {
	urlinfo.Profile
	Label         string                  `json:"label"`
	Probabilities map[string]float64      `json:"probabilities"`
	Contributions []pipeline.Contribution `json:"contributions"`
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <url>...",
		Short: "Explain how the classifier sees one or more URLs",
		Long: `inspect trains once, then prints for each URL its host breakdown,
entropy, tokens, the predicted label and the tokens that weighed most.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			top, _ := cmd.Flags().GetInt("top")

			trainer, m := newTrainer(cfg, logger)
			provider := pipeline.NewCachedProvider(trainer)
			defer writeMetrics(m, cfg, logger)

			results := make([]inspection, 0, len(args))
			for _, raw := range args {
				result, err := inspect(provider, raw, top)
				if err != nil {
					return fmt.Errorf("inspect %s: %w", raw, err)
				}
				results = append(results, result)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			for i, result := range results {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				printInspection(cmd.OutOrStdout(), result)
			}
			return nil
		},
	}

	cmd.Flags().Int("top", 5, "Number of contributing tokens to show")

	return cmd
}

func inspect(provider pipeline.ModelProvider, raw string, top int) (inspection, error) {
	model, err := provider.Model()
	if err != nil {
		return inspection{}, err
	}

	result := inspection{Profile: urlinfo.Describe(raw)}

	if result.Label, err = model.Predict(raw); err != nil {
		return inspection{}, err
	}
	if result.Probabilities, err = model.PredictProba(raw); err != nil {
		return inspection{}, err
	}
	if result.Contributions, err = model.Explain(raw, top); err != nil {
		return inspection{}, err
	}

	return result, nil
}

func printInspection(w io.Writer, r inspection) {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", bold("URL:"), r.Raw)
	if r.Host != "" {
		fmt.Fprintf(w, "  host:               %s\n", r.Host)
		fmt.Fprintf(w, "  registrable domain: %s\n", orDash(r.RegistrableDomain))
		fmt.Fprintf(w, "  subdomain:          %s\n", orDash(r.Subdomain))
		fmt.Fprintf(w, "  public suffix:      %s (icann=%t)\n", r.PublicSuffix, r.ICANN)
		fmt.Fprintf(w, "  host entropy:       %.3f bits\n", r.HostEntropy)
	}
	fmt.Fprintf(w, "  entropy:            %.3f bits\n", r.Entropy)
	fmt.Fprintf(w, "  tokens:             %s\n", strings.Join(r.Tokens, " "))

	fmt.Fprintf(w, "  %s %s (p=%.3f)\n", bold("label:"), r.Label, r.Probabilities[r.Label])

	if len(r.Contributions) == 0 {
		fmt.Fprintln(w, "  no known tokens")
		return
	}
	for _, c := range r.Contributions {
		score := classColor(c.Toward).Sprintf("%+.4f", c.Score)
		fmt.Fprintf(w, "    %-28s %s  toward %s\n", c.Token, score, c.Toward)
	}
}

var maliciousLabels = map[string]bool{
	"malicious": true,
	"bad":       true,
	"phishing":  true,
	"phish":     true,
}

func isMaliciousLabel(label string) bool {
	return maliciousLabels[strings.ToLower(strings.TrimSpace(label))]
}

// classColor is red for malicious classes and green for everything else.
func classColor(label string) *color.Color {
	if isMaliciousLabel(label) {
		return color.New(color.FgRed)
	}
	return color.New(color.FgGreen)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
