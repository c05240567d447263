package datasets

import (
	"bufio"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ReadCSV loads a comma-delimited file into a Table. When header is true the
// first record names the columns.
func ReadCSV(fs afero.Fs, path string, header bool) (*Table, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open CSV %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	var names []string
	if header {
		names, err = reader.Read()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read header of %s", path)
		}
		for i, n := range names {
			names[i] = strings.TrimSpace(n)
		}
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read row %d of %s", len(rows), path)
		}
		rows = append(rows, record)
	}

	return NewTable(names, rows)
}

// readLines returns the non-empty, trimmed lines of a text file.
func readLines(fs afero.Fs, path string) ([]string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if l := strings.TrimSpace(scanner.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return lines, nil
}

// isTruthy reports whether a cell marks a row as selected: non-zero numbers
// and boolean true.
func isTruthy(s string) bool {
	s = strings.TrimSpace(s)
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0
	}
	return false
}

// FindCSV returns the first CSV file in dir.
func FindCSV(fs afero.Fs, dir string) (string, error) {
	pattern := filepath.Join(dir, "*.csv")
	matches, err := afero.Glob(fs, pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", errors.Errorf("no CSV files found in %s", dir)
	}
	return matches[0], nil
}
