package masterdata

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var fileExtensions = []string{".json", ".yaml", ".yml", ".csv"}

// FileSource reads reference tables from files named after their key,
// e.g. prefectures.json or cities.yaml.
type FileSource struct {
	fsys fs.FS
}

// NewFileSource creates a source reading from the given directory
func NewFileSource(dir string) *FileSource {
	return &FileSource{fsys: os.DirFS(dir)}
}

// NewFSSource creates a source reading from an arbitrary file system
func NewFSSource(fsys fs.FS) *FileSource {
	return &FileSource{fsys: fsys}
}

// Load decodes the first file found for key, trying JSON, YAML and CSV in that order.
func (s *FileSource) Load(_ context.Context, key string) ([]Record, error) {
	for _, ext := range fileExtensions {
		name := path.Clean(key + ext)
		data, err := fs.ReadFile(s.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("masterdata: failed to read %s: %w", name, err)
		}

		records, err := decode(ext, data)
		if err != nil {
			return nil, fmt.Errorf("masterdata: failed to decode %s: %w", name, err)
		}
		return records, nil
	}

	return nil, fmt.Errorf("masterdata: no data file for %q: %w", key, ErrNotFound)
}

func decode(ext string, data []byte) ([]Record, error) {
	var records []Record
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, err
		}
	case ".csv":
		return decodeCSV(data)
	default:
		return nil, fmt.Errorf("unsupported extension %s", ext)
	}
	return records, nil
}

// decodeCSV reads a header row followed by data rows. Empty cells are left out
// of the record so that they read as absent fields.
func decodeCSV(data []byte) ([]Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		record := make(Record, len(header))
		for i, field := range header {
			if i < len(row) && row[i] != "" {
				record[field] = row[i]
			}
		}
		records = append(records, record)
	}

	return records, nil
}
