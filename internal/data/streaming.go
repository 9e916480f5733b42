package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// URLStream reads URLs to classify from the first column of a CSV (or plain
// one-per-line) file in fixed-size batches. A leading "url" header is dropped.
type URLStream struct {
	file      io.Closer
	reader    *recordReader
	batchSize int
	started   bool
	Skipped   int
}

func NewURLStream(filename string, batchSize int) (*URLStream, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return newURLStream(file, file, batchSize), nil
}

func newURLStream(r io.Reader, closer io.Closer, batchSize int) *URLStream {
	if batchSize <= 0 {
		batchSize = 1000
	}

	return &URLStream{
		file:      closer,
		reader:    newRecordReader(r),
		batchSize: batchSize,
	}
}

// ReadBatch returns io.EOF once no URLs remain.
func (s *URLStream) ReadBatch() ([]string, error) {
	batch := make([]string, 0, s.batchSize)

	for len(batch) < s.batchSize {
		record, err := s.reader.Read()
		if err == io.EOF {
			if len(batch) == 0 {
				return nil, io.EOF
			}
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				s.Skipped++
				continue
			}
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		url := ""
		if len(record) > 0 {
			url = strings.TrimSpace(record[0])
		}

		if !s.started {
			s.started = true
			if strings.EqualFold(url, "url") {
				continue
			}
		}

		if url == "" {
			s.Skipped++
			continue
		}
		batch = append(batch, url)
	}

	return batch, nil
}

func (s *URLStream) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

func ProcessURLFile(filename string, batchSize int, processor func([]string) error) error {
	stream, err := NewURLStream(filename, batchSize)
	if err != nil {
		return err
	}
	defer stream.Close()

	batchNum := 0
	for {
		batch, err := stream.ReadBatch()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading batch %d: %w", batchNum, err)
		}

		if err := processor(batch); err != nil {
			return fmt.Errorf("error processing batch %d: %w", batchNum, err)
		}

		batchNum++
	}

	return nil
}
