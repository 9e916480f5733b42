// Command phishunt trains a phishing classifier on the configured dataset and
// prints the predicted label for the URL given with -url.
//
//	phishunt -url http://paypal-secure.com.evil.ru/login [-data path.csv] [-config phishunt.yaml]
//
// -data and -config may also be spelled --data and --config. Without -url it
// does nothing. Only the label is written to stdout.
package main

import (
	"fmt"
	"io"
	"os"

	"phishunt/internal/cliargs"
	"phishunt/internal/config"
	"phishunt/internal/logging"
	"phishunt/internal/metrics"
	"phishunt/internal/pipeline"
)

const usage = "usage: phishunt -url <url> [-data <dataset.csv>] [-config <phishunt.yaml>]"

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := cliargs.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "phishunt: %v\n%s\n", err, usage)
		return exitUsage
	}

	url, ok := opts["-url"]
	if !ok {
		return exitOK
	}

	configPath, _ := cliargs.Lookup(opts, "-config", "--config")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "phishunt: %v\n", err)
		return exitFatal
	}
	if path, ok := cliargs.Lookup(opts, "-data", "--data"); ok {
		cfg.Dataset.Path = path
	}

	logger := logging.NewLogger(cfg.Logging.Level, stderr)

	trainer := pipeline.NewTrainer(pipeline.TrainerConfigFrom(cfg), logger)
	var m *metrics.TrainingMetrics
	if cfg.Metrics.File != "" {
		m = metrics.NewTrainingMetrics()
		trainer.WithMetrics(m)
	}

	label, err := classify(pipeline.NewFreshProvider(trainer), url)

	if m != nil {
		if werr := m.WriteTextfile(cfg.Metrics.File); werr != nil {
			logger.Warn("failed to write metrics textfile", "path", cfg.Metrics.File, "error", werr)
		}
	}

	if err != nil {
		fmt.Fprintf(stderr, "phishunt: %v\n", err)
		return exitFatal
	}

	fmt.Fprintln(stdout, label)
	return exitOK
}

func classify(provider pipeline.ModelProvider, url string) (string, error) {
	model, err := provider.Model()
	if err != nil {
		return "", err
	}
	return model.Predict(url)
}
