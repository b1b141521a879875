package intake

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVSource is a RowSource backed by a local CSV export of the intake form.
type CSVSource struct {
	path    string
	records [][]string
}

// NewCSVSource reads the export once up front, so the worker's passes over
// the data stay deterministic.
func NewCSVSource(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening intake export: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading intake export %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("intake export %s has no header row", path)
	}

	return &CSVSource{path: path, records: records}, nil
}

func (s *CSVSource) Header() []string {
	return s.records[0]
}

func (s *CSVSource) Rows() [][]string {
	return s.records[1:]
}
