package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/veridian-labs/vigia/core"
)

// sanctionColumns is the minimum column count of a sanction record:
// combined resolution+date, entity, infringement, sanction type.
const sanctionColumns = 4

// CSVStrategy parses tabular sanction records. The header row is skipped
// and every remaining row maps to exactly one document.
type CSVStrategy struct {
	logger *slog.Logger
}

// NewCSVStrategy creates the CSV parsing strategy.
func NewCSVStrategy() *CSVStrategy {
	return &CSVStrategy{logger: slog.Default().With("component", "csv-strategy")}
}

// Key returns "csv".
func (s *CSVStrategy) Key() string { return "csv" }

// Parse reads the resource as CSV. Malformed rows fail individually and are
// logged; they never abort the rest of the file.
func (s *CSVStrategy) Parse(ctx context.Context, res Resource) ([]core.Document, error) {
	rc, err := res.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", res.Name(), err)
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var documents []core.Document
	row := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			s.logger.Error("skipping unreadable row", "file", res.Name(), "row", row, "err", err)
			continue
		}
		if row == 1 {
			// Header row.
			continue
		}

		doc, err := s.rowToDocument(record, res.Name())
		if err != nil {
			s.logger.Error("skipping malformed row", "file", res.Name(), "row", row, "err", err)
			continue
		}
		documents = append(documents, doc)
	}

	s.logger.Info("loaded documents from CSV file", "file", res.Name(), "count", len(documents))
	return documents, nil
}

// rowToDocument converts one sanction row into a document. The first column
// combines the resolution code and its date separated by a line break; both
// become dedicated metadata fields, and the content block repeats every
// field as a labeled line for the model to read.
func (s *CSVStrategy) rowToDocument(record []string, filename string) (core.Document, error) {
	if len(record) < sanctionColumns {
		return core.Document{}, fmt.Errorf("%w: got %d columns, want %d", ErrMalformedRow, len(record), sanctionColumns)
	}

	resolucion, fecha := splitResolutionDate(record[0])

	content := fmt.Sprintf(
		"RESOLUCIÓN: %s\nFECHA: %s\nENTIDAD: %s\nINCUMPLIMIENTO: %s\nTIPO DE SANCIÓN: %s\n",
		resolucion, fecha, record[1], record[2], record[3],
	)

	return core.NewDocument(content, map[string]string{
		"resolucion":    resolucion,
		"fecha":         fecha,
		"entidad":       record[1],
		core.MetaSource: filename,
	}), nil
}

// splitResolutionDate splits a combined "code\ndate" cell. When no line
// break is present the date is empty.
func splitResolutionDate(raw string) (resolucion, fecha string) {
	parts := strings.SplitN(raw, "\n", 2)
	resolucion = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		fecha = strings.TrimSpace(parts[1])
	}
	return resolucion, fecha
}
