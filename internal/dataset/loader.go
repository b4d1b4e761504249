package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	apperrors "runcharts/internal/errors"
)

// LoadOptions configures how run files are assembled
type LoadOptions struct {
	// StrictSchema rejects any file that lacks one of RequiredColumns,
	// naming the file and the missing columns.
	StrictSchema bool
	Logger       *slog.Logger
}

// ReadCSV parses one delimited table with a header row
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewParsingError("missing header row", nil)
		}
		return nil, apperrors.NewParsingError("read header", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("read records", err)
	}

	return NewTable(header, records)
}

// LoadFile parses the CSV file at path
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewParsingError("open run file", err).WithContext("file", path)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithContext("file", path)
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return t, nil
}

// LoadFiles parses every file in order and concatenates the results. The
// first failure aborts the load; there is no per-file isolation.
func LoadFiles(ctx context.Context, paths []string, opts LoadOptions) (*Table, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tables := make([]*Table, 0, len(paths))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if opts.StrictSchema {
			if err := CheckSchema(t, RequiredColumns); err != nil {
				return nil, err.WithContext("file", path)
			}
		}

		logger.DebugContext(ctx, "Loaded run file",
			slog.Int("current", i+1),
			slog.Int("total", len(paths)),
			slog.String("file", path),
			slog.Int("rows", t.Len()))
		tables = append(tables, t)
	}

	return Concat(tables...), nil
}

// CheckSchema returns a schema error listing the required columns t lacks
func CheckSchema(t *Table, required []string) *apperrors.AppError {
	var missing []string
	for _, name := range required {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.NewSchemaError("missing required columns").
		WithContext("missing", strings.Join(missing, ","))
}
