package notepad

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

// RowSet holds rows loaded from a data file, handed out one at a time so
// each scenario run can seed a notepad with fresh test data.
type RowSet struct {
	name    string
	rows    []map[string]any
	counter atomic.Uint64
}

// Name returns the row set name.
func (r *RowSet) Name() string { return r.name }

// Len returns the number of rows.
func (r *RowSet) Len() int { return len(r.rows) }

// Next returns the next row in order, wrapping around. Safe for concurrent
// use by multiple actors.
func (r *RowSet) Next() map[string]any {
	if len(r.rows) == 0 {
		return nil
	}
	n := r.counter.Add(1) - 1
	return r.rows[n%uint64(len(r.rows))]
}

// Rows loads a data file (CSV or JSON) into a RowSet named after the file.
// Relative paths are resolved against baseDir.
func Rows(path, baseDir string) (*RowSet, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	var rows []map[string]any
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = rowsFromCSV(path)
	case ".json":
		rows, err = rowsFromJSON(path)
	default:
		return nil, fmt.Errorf("unsupported data file format %q (use .csv or .json)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("data file %s is empty", path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &RowSet{name: name, rows: rows}, nil
}

// rowsFromCSV reads a CSV file. The first row is headers, the rest are data.
func rowsFromCSV(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV must have a header row and at least one data row")
	}

	headers := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// rowsFromJSON reads a JSON file holding an array of objects.
func rowsFromJSON(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("JSON must be an array of objects: %w", err)
	}
	return rows, nil
}
