package data

import (
	"errors"
	"fmt"
	"sort"
)

var ErrNotBinary = errors.New("dataset must contain exactly two labels")

type DataValidator struct{}

func NewDataValidator() *DataValidator {
	return &DataValidator{}
}

func (dv *DataValidator) ValidateDataset(ds *Dataset) error {
	if ds == nil || len(ds.Rows) == 0 {
		return ErrEmptyDataset
	}

	classCount := ds.ClassDistribution()
	if len(classCount) != 2 {
		return fmt.Errorf("%w, found %d: %v", ErrNotBinary, len(classCount), sortedKeys(classCount))
	}

	return nil
}

func (d *Dataset) ClassDistribution() map[string]int {
	classCount := make(map[string]int)
	for _, row := range d.Rows {
		classCount[row.Label]++
	}
	return classCount
}

func (dv *DataValidator) GetDatasetStats(ds *Dataset) map[string]any {
	if ds == nil || len(ds.Rows) == 0 {
		return map[string]any{}
	}

	stats := make(map[string]any)
	stats["samples"] = len(ds.Rows)
	stats["skipped"] = ds.Skipped

	classCount := ds.ClassDistribution()
	stats["classes"] = len(classCount)
	stats["class_distribution"] = classCount

	minLen, maxLen, total := len(ds.Rows[0].URL), len(ds.Rows[0].URL), 0
	for _, row := range ds.Rows {
		n := len(row.URL)
		if n < minLen {
			minLen = n
		}
		if n > maxLen {
			maxLen = n
		}
		total += n
	}
	stats["url_length"] = map[string]float64{
		"min":  float64(minLen),
		"max":  float64(maxLen),
		"mean": float64(total) / float64(len(ds.Rows)),
	}

	return stats
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
