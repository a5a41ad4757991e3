package fileutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinPath makes a CSVReader read from standard input
const StdinPath = "-"

// ErrEmptyFile is returned when a CSV source has no header row
var ErrEmptyFile = errors.New("csv source is empty")

// CSVReader streams CSV records from a file, stdin or any io.Reader.
// Lines starting with '#' are skipped and fields are trimmed.
type CSVReader struct {
	FilePath string
	src      io.Reader
}

// NewCSVReader returns a CSVReader for a file path, or stdin for StdinPath
func NewCSVReader(fp string) *CSVReader {
	return &CSVReader{
		FilePath: fp,
	}
}

// NewCSVReaderFrom returns a CSVReader over an already open source
func NewCSVReaderFrom(name string, r io.Reader) *CSVReader {
	return &CSVReader{
		FilePath: name,
		src:      r,
	}
}

func (r *CSVReader) open() (io.ReadCloser, error) {
	switch {
	case r.src != nil:
		return io.NopCloser(r.src), nil
	case r.FilePath == StdinPath:
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(r.FilePath)
	if err != nil {
		return nil, fmt.Errorf("opening a csv file: %w", err)
	}
	return f, nil
}

// ReadAndProcessByRow reads the header, hands it to headerFn, then streams the
// remaining records to rowFn together with their 1-based line number.
// A non-nil error from either callback stops the read.
func (r *CSVReader) ReadAndProcessByRow(headerFn func([]string) error, rowFn func(line int, row []string) error) error {
	f, err := r.open()
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrEmptyFile
	}
	if err != nil {
		return fmt.Errorf("reading CSV header: %w", err)
	}
	if err := headerFn(trimAll(header)); err != nil {
		return err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading CSV row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if err = rowFn(line, trimAll(row)); err != nil {
			return err
		}
	}

	return nil
}

func trimAll(fields []string) []string {
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return fields
}
