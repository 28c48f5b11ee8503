// Package export produces XLSX workbooks from extracted records.
package export

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/wuminghan/specpipe/internal/entity"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// RecordXLSX renders a record and its confidence envelope as an XLSX
// workbook with an Overview sheet and a Specifications sheet. env may be
// nil for unscored records.
func (s *Service) RecordXLSX(rec *entity.ExtractedRecord, env *entity.ConfidenceEnvelope) ([]byte, error) {
	start := time.Now()
	f := excelize.NewFile()

	if err := s.writeOverview(f, rec, env); err != nil {
		return nil, err
	}
	if err := s.writeSpecifications(f, rec); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"specifications", len(rec.Specifications),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeOverview(f *excelize.File, rec *entity.ExtractedRecord, env *entity.ConfidenceEnvelope) error {
	const sheet = "Overview"
	// excelize names the default sheet "Sheet1"; rename instead of adding
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	write := func(row int, label string, v any) {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheet, cell, label)
		cell, _ = excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 1
	write(row, "Name", rec.BasicInfo.Name)
	row++
	write(row, "Code", rec.BasicInfo.Code)
	row++
	write(row, "Category", rec.BasicInfo.Category)
	row++
	if rec.BasicInfo.BasePrice != nil {
		write(row, "Base Price", *rec.BasicInfo.BasePrice)
	} else {
		write(row, "Base Price", "")
	}
	row++
	write(row, "Description", truncate(rec.BasicInfo.Description, 140))
	row++
	write(row, "Specifications", len(rec.Specifications))
	row++
	write(row, "Features", len(rec.Features))
	row++
	write(row, "Tables Found", rec.TableParsing.TablesFound)
	row++
	write(row, "Rescued Parameters", rec.TableParsing.RescuedCount)
	row++

	if env != nil {
		write(row, "Confidence", fmt.Sprintf("%.2f", env.Overall))
		row++
		write(row, "Confidence Level", string(env.Level))
		row++
		for _, r := range env.Recommendations {
			write(row, "Recommendation", r)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 22)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	return nil
}

func (s *Service) writeSpecifications(f *excelize.File, rec *entity.ExtractedRecord) error {
	const sheet = "Specifications"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Parameter", "Value", "Numeric", "Unit", "Range", "Tolerance", "Source"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	names := make([]string, 0, len(rec.Specifications))
	for name := range rec.Specifications {
		names = append(names, name)
	}
	sort.Strings(names)

	row := 2
	for _, name := range names {
		v := rec.Specifications[name]

		write := func(col int, val any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, val)
		}

		write(1, name)
		write(2, v.RawValue)
		if v.NumericValue != nil {
			write(3, *v.NumericValue)
		}
		write(4, v.Unit)
		if v.Range != nil {
			write(5, fmt.Sprintf("%v–%v", v.Range.Min, v.Range.Max))
		}
		if v.Tolerance != nil {
			write(6, *v.Tolerance)
		}
		write(7, v.Source)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 32)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "F", 12)
	_ = f.SetColWidth(sheet, "G", "G", 16)
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
