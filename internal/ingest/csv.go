// Package ingest reads the tabular incident and facility sources into rows.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/smartcity/roadsafety/internal/domain"
)

const utf8BOM = "\ufeff"

// ReadRows opens a header-first CSV file and returns one Row per record.
// Any failure to open or read the file wraps domain.ErrSourceUnreadable.
func ReadRows(path string) ([]domain.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %s: %w: %w", path, domain.ErrSourceUnreadable, err)
	}
	defer f.Close()

	rows, err := ParseRows(f)
	if err != nil {
		return nil, fmt.Errorf("ingest: %s: %w", path, err)
	}
	return rows, nil
}

// ParseRows reads CSV records from r. Empty lines are skipped, extra columns
// are kept under their header name, and short records leave missing fields empty.
func ParseRows(r io.Reader) ([]domain.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header: %w", domain.ErrSourceUnreadable)
		}
		return nil, fmt.Errorf("read header: %w: %w", domain.ErrSourceUnreadable, err)
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		header[i] = strings.TrimSpace(h)
	}

	var rows []domain.Row //nolint:prealloc // size depends on file contents
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// a broken quote only spoils its own record
				rows = append(rows, domain.Row{})
				continue
			}
			return nil, fmt.Errorf("read record: %w: %w", domain.ErrSourceUnreadable, err)
		}

		row := make(domain.Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Datasets holds the raw rows of both sources.
type Datasets struct {
	Incidents  []domain.Row
	Facilities []domain.Row
}

// LoadDatasets reads the incident and facility sources concurrently and
// returns only once both are read. The first unreadable source fails the load.
func LoadDatasets(ctx context.Context, incidentsPath, facilitiesPath string) (Datasets, error) {
	var ds Datasets
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		rows, err := ReadRows(incidentsPath)
		if err != nil {
			return fmt.Errorf("incidents: %w", err)
		}
		ds.Incidents = rows
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		rows, err := ReadRows(facilitiesPath)
		if err != nil {
			return fmt.Errorf("facilities: %w", err)
		}
		ds.Facilities = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return Datasets{}, err
	}
	return ds, nil
}
