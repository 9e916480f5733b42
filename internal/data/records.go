package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

// recordReader parses each physical line as its own CSV record, so an
// unbalanced quote damages one row instead of every row after it. Quoted
// fields therefore cannot span lines.
type recordReader struct {
	scanner *bufio.Scanner
	line    int
}

func newRecordReader(r io.Reader) *recordReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &recordReader{scanner: scanner}
}

// Read returns the next record, a *csv.ParseError for a malformed line, or
// io.EOF. Blank lines are skipped.
func (rr *recordReader) Read() ([]string, error) {
	for rr.scanner.Scan() {
		rr.line++
		text := rr.scanner.Text()
		if text == "" {
			continue
		}

		reader := csv.NewReader(strings.NewReader(text))
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true

		record, err := reader.Read()
		if err == io.EOF {
			continue
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				parseErr.StartLine = rr.line
				parseErr.Line = rr.line
				return nil, parseErr
			}
			return nil, err
		}
		return record, nil
	}

	if err := rr.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
