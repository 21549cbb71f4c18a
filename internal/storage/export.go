package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	RunMetadata
	Series map[string][]float64 `json:"series,omitempty"`
}

// Export collects the metadata and series of a run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return nil, err
	}

	data := &ExportData{RunMetadata: *meta}
	if series.Rows() > 0 {
		data.Series = make(map[string][]float64, len(series.Columns))
		for i, name := range series.Columns {
			data.Series[name] = series.Data[i]
		}
	}
	return data, nil
}

// ExportJSON writes a run as a single JSON document to path, or to stdout
// when path is empty or "-".
func (s *Store) ExportJSON(runID, path string) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}

	if path == "" || path == "-" {
		return encode(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := encode(file, data); err != nil {
		return err
	}
	return file.Close()
}

func encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
