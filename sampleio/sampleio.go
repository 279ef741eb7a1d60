// Package sampleio persists sample collections as delimited text tables.
//
// Each file holds one sample set: a header line with quoted per-parameter
// labels ("p0","p1",...) followed by one comma-separated line per sample.
// Multiple sets saved under one base name become sibling files with numeric
// suffixes (test.csv -> test_0.csv, test_1.csv, ...).
package sampleio

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrNoSampleSets indicates SaveSamples was called without sample sets.
	ErrNoSampleSets = errors.New("sampleio: at least one sample set is required")

	// ErrShapeMismatch indicates sample sets of differing or degenerate
	// shapes.
	ErrShapeMismatch = errors.New("sampleio: all sample sets must share the same rectangular shape")
)

// NotFoundError reports a missing sample file.
// Use errors.Is(err, &NotFoundError{}) to check for this error.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "sampleio: file not found: " + e.Path
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// FormatFloat renders x at the fixed textual precision sample files use.
func FormatFloat(x float64) string {
	return fmt.Sprintf("% .17e", x)
}

// indexedNames derives the sibling filenames for n sample sets, inserting
// _0.._n-1 before the extension.
func indexedNames(filename string, n int) []string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
	return names
}

// SaveSamples stores one or more sample sets. With a single set the
// filename is used as is; with k sets the files are named with _0.._k-1
// suffixes. All sets must share an identical two-dimensional shape; the
// shapes are validated before any file is written, so a failed save has no
// partial side effects.
func SaveSamples(filename string, sets ...[][]float64) error {
	if len(sets) < 1 {
		return ErrNoSampleSets
	}

	rows := len(sets[0])
	if rows == 0 {
		return fmt.Errorf("sampleio: sample sets must contain at least one sample: %w", ErrShapeMismatch)
	}
	cols := len(sets[0][0])
	for si, set := range sets {
		if len(set) != rows {
			return fmt.Errorf("sampleio: set %d has %d rows, set 0 has %d: %w", si, len(set), rows, ErrShapeMismatch)
		}
		for ri, row := range set {
			if len(row) != cols {
				return fmt.Errorf("sampleio: set %d row %d has %d columns, want %d: %w", si, ri, len(row), cols, ErrShapeMismatch)
			}
		}
	}

	names := []string{filename}
	if len(sets) > 1 {
		names = indexedNames(filename, len(sets))
	}

	labels := make([]string, cols)
	for j := range labels {
		labels[j] = `"p` + strconv.Itoa(j) + `"`
	}
	header := strings.Join(labels, ",")

	for si, set := range sets {
		if err := writeSet(names[si], header, set); err != nil {
			return err
		}
	}
	return nil
}

func writeSet(name, header string, set [][]float64) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("sampleio: failed to create %s: %w", name, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, header)
	fields := make([]string, 0, len(set[0]))
	for _, row := range set {
		fields = fields[:0]
		for _, x := range row {
			fields = append(fields, FormatFloat(x))
		}
		fmt.Fprintln(w, strings.Join(fields, ","))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("sampleio: failed to write %s: %w", name, err)
	}
	return nil
}

// LoadSamples reads one sample set from filename, skipping the header line.
func LoadSamples(filename string) ([][]float64, error) {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: filename}
		}
		return nil, fmt.Errorf("sampleio: failed to open %s: %w", filename, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("sampleio: failed to read header of %s: %w", filename, err)
		}
		return nil, fmt.Errorf("sampleio: %s is missing a header line", filename)
	}

	var samples [][]float64
	line := 1
	for scanner.Scan() {
		line++
		fields := strings.Split(scanner.Text(), ",")
		row := make([]float64, len(fields))
		for j, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("sampleio: %s line %d column %d: %w", filename, line, j, err)
			}
			row[j] = v
		}
		samples = append(samples, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("sampleio: failed to read %s: %w", filename, err)
	}
	return samples, nil
}

// LoadSampleSets reads n sample sets saved under the given base filename
// with _0.._n-1 suffixes. All expected files are checked for existence
// before any is opened, so a load either proceeds over complete input or
// fails up front.
func LoadSampleSets(filename string, n int) ([][][]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("sampleio: n must be at least 1, got %d", n)
	}

	names := indexedNames(filename, n)
	for _, name := range names {
		if _, err := os.Stat(name); err != nil {
			if os.IsNotExist(err) {
				return nil, &NotFoundError{Path: name}
			}
			return nil, fmt.Errorf("sampleio: failed to stat %s: %w", name, err)
		}
	}

	sets := make([][][]float64, n)
	for i, name := range names {
		set, err := LoadSamples(name)
		if err != nil {
			return nil, err
		}
		sets[i] = set
	}
	return sets, nil
}
