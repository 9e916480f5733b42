package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
)

var ErrEmptyDataset = errors.New("dataset has no usable rows")

type Row struct {
	URL   string
	Label string
}

type Dataset struct {
	Rows    []Row
	Skipped int
	Header  bool
	Source  string
}

// LoadURLDataset reads a url,label CSV file. Rows that cannot be parsed, have
// fewer than two fields, or have an empty url or label are skipped and counted.
func LoadURLDataset(filename string) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	ds, err := ReadURLDataset(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	ds.Source = filename
	return ds, nil
}

func ReadURLDataset(r io.Reader) (*Dataset, error) {
	reader := newRecordReader(r)

	ds := &Dataset{}
	first := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				ds.Skipped++
				first = false
				continue
			}
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		if first {
			first = false
			if isHeader(record) {
				ds.Header = true
				continue
			}
		}

		if len(record) < 2 {
			ds.Skipped++
			continue
		}

		url := strings.TrimSpace(record[0])
		label := strings.TrimSpace(record[1])
		if url == "" || label == "" {
			ds.Skipped++
			continue
		}

		ds.Rows = append(ds.Rows, Row{URL: url, Label: label})
	}

	if len(ds.Rows) == 0 {
		return nil, ErrEmptyDataset
	}

	return ds, nil
}

func isHeader(record []string) bool {
	if len(record) < 2 {
		return false
	}
	label := strings.ToLower(strings.TrimSpace(record[1]))
	return label == "label" || label == "class"
}

// Shuffle permutes rows in place.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Rows), func(i, j int) {
		d.Rows[i], d.Rows[j] = d.Rows[j], d.Rows[i]
	})
}

func (d *Dataset) URLs() []string {
	urls := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		urls[i] = row.URL
	}
	return urls
}

func (d *Dataset) Labels() []string {
	labels := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		labels[i] = row.Label
	}
	return labels
}
