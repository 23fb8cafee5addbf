// Package export renders the SDS register as XLSX and CSV.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/chemtrack/sds-extractor/internal/repository"
	"github.com/chemtrack/sds-extractor/internal/sds"
)

// Service is a small facade over the register repository that produces
// export bytes.
type Service struct {
	register *repository.RegisterRepository
	logger   *slog.Logger
}

func NewService(register *repository.RegisterRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{register: register, logger: logger}
}

// headers is the export column order: the canonical fields plus the
// provenance column.
func headers() []string {
	out := make([]string, 0, len(sds.Fields)+1)
	out = append(out, sds.Fields...)
	return append(out, sds.FieldSourceFile)
}

// ExportRegisterXLSX returns an XLSX workbook with one row per register
// entry, columns in canonical order.
func (s *Service) ExportRegisterXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	entries, err := s.register.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query register: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "SDS Register"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet excelize creates.
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	cols := headers()
	for i, h := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, entry := range entries {
		for i, field := range sds.Fields {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, entry.Record[field])
		}
		cell, _ := excelize.CoordinatesToCellName(len(sds.Fields)+1, row)
		_ = f.SetCellValue(sheet, cell, entry.SourceFile)
		row++
	}

	// Widen the prose-heavy columns.
	_ = f.SetColWidth(sheet, "A", "C", 28) // identity
	_ = f.SetColWidth(sheet, "D", "G", 36) // hazards
	_ = f.SetColWidth(sheet, "Q", "R", 48) // first aid, firefighting

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ExportRegisterCSV returns the register as CSV with the same column
// order as the XLSX export.
func (s *Service) ExportRegisterCSV(ctx context.Context) ([]byte, error) {
	start := time.Now()

	entries, err := s.register.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query register: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers()); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	for _, entry := range entries {
		row := make([]string, 0, len(sds.Fields)+1)
		for _, field := range sds.Fields {
			row = append(row, entry.Record[field])
		}
		row = append(row, entry.SourceFile)
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}

	s.logger.Info("export.csv.ok",
		"rows", len(entries),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
