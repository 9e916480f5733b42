package models

import (
	"fmt"
)

type ModelConfig struct {
	Algorithm    string  `yaml:"algorithm"`
	C            float64 `yaml:"c"`
	LearningRate float64 `yaml:"learning_rate"`
	MaxIter      int     `yaml:"max_iter"`
	Tol          float64 `yaml:"tol"`
	Alpha        float64 `yaml:"alpha"`
}

func CreateModel(config ModelConfig) (Classifier, error) {
	switch config.Algorithm {
	case "logistic", "":
		if config.C <= 0 {
			config.C = 1.0
		}
		if config.LearningRate <= 0 {
			config.LearningRate = 1.0
		}
		if config.MaxIter <= 0 {
			config.MaxIter = 200
		}
		if config.Tol <= 0 {
			config.Tol = 1e-4
		}
		return NewLogisticRegression(config.C, config.LearningRate, config.MaxIter, config.Tol), nil

	case "bayes":
		if config.Alpha <= 0 {
			config.Alpha = 1.0
		}
		return NewNaiveBayes(config.Alpha), nil

	default:
		return nil, fmt.Errorf("unknown algorithm: %s", config.Algorithm)
	}
}

func DefaultConfig(algorithm string) ModelConfig {
	config := ModelConfig{Algorithm: algorithm}

	switch algorithm {
	case "logistic", "":
		config.Algorithm = "logistic"
		config.C = 1.0
		config.LearningRate = 1.0
		config.MaxIter = 200
		config.Tol = 1e-4
	case "bayes":
		config.Alpha = 1.0
	}

	return config
}
