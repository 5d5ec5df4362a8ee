// Package ingest handles spreadsheet ingestion and field normalization
// into the four named collections the input adapter consumes. It never
// makes scheduling decisions; it only turns rows into map[string]string
// records.
package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RawRecord is one row of an input collection, keyed by column header.
type RawRecord map[string]string

// NormalizedInput is the structured record partitioned into the four
// named input collections: course list, student requests, rooms, and
// lecturer (teacher) details.
type NormalizedInput struct {
	Courses  []RawRecord
	Requests []RawRecord
	Rooms    []RawRecord
	Teachers []RawRecord
}

// Empty reports whether the input has no students or no courses, the
// structurally-empty case the Input Adapter must turn into empty outputs
// rather than an error.
func (n NormalizedInput) Empty() bool {
	return len(n.Requests) == 0 || len(n.Courses) == 0
}

// LoadCSVCollection reads a single CSV file into a slice of RawRecord,
// using the first row as the header.
func LoadCSVCollection(path string) ([]RawRecord, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: opening %s: %w", path, err)
	}
	defer fp.Close()

	csvReader := csv.NewReader(bufio.NewReader(fp))
	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(RawRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[strings.TrimSpace(col)] = strings.TrimSpace(row[i])
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// Per-collection file names LoadCSVDir looks for inside an input
// directory.
const (
	coursesCSV  = "courses.csv"
	requestsCSV = "requests.csv"
	roomsCSV    = "rooms.csv"
	teachersCSV = "teachers.csv"
)

// LoadCSVDir reads a NormalizedInput from a directory holding one CSV
// file per collection. courses.csv and requests.csv must be readable;
// rooms.csv and teachers.csv may be absent, leaving those collections
// empty.
func LoadCSVDir(dir string) (NormalizedInput, error) {
	var input NormalizedInput
	var err error

	if input.Courses, err = LoadCSVCollection(filepath.Join(dir, coursesCSV)); err != nil {
		return NormalizedInput{}, err
	}
	if input.Requests, err = LoadCSVCollection(filepath.Join(dir, requestsCSV)); err != nil {
		return NormalizedInput{}, err
	}
	if input.Rooms, err = loadOptionalCSV(filepath.Join(dir, roomsCSV)); err != nil {
		return NormalizedInput{}, err
	}
	if input.Teachers, err = loadOptionalCSV(filepath.Join(dir, teachersCSV)); err != nil {
		return NormalizedInput{}, err
	}
	return input, nil
}

func loadOptionalCSV(path string) ([]RawRecord, error) {
	records, err := LoadCSVCollection(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return records, err
}

// LoadJSON reads a NormalizedInput from a JSON document shaped as
// {"courses": [...], "requests": [...], "rooms": [...], "teachers": [...]}.
func LoadJSON(path string) (NormalizedInput, error) {
	fp, err := os.Open(path)
	if err != nil {
		return NormalizedInput{}, fmt.Errorf("ingest: opening %s: %w", path, err)
	}
	defer fp.Close()

	var input NormalizedInput
	decoder := json.NewDecoder(fp)
	if err := decoder.Decode(&input); err != nil {
		return NormalizedInput{}, fmt.Errorf("ingest: decoding %s: %w", path, err)
	}
	return input, nil
}
