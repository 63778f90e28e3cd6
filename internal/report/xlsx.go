package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxSheet      = "files"
	xlsxDateFormat = "dd/mm/yyyy hh:mm"
)

// column widths, in characters, by header position
var xlsxColumnWidths = []float64{30, 60, 18, 18, 12, 10, 30, 30, 30, 30, 24}

// XLSXWriter writes the report as a single-sheet Excel workbook.
type XLSXWriter struct {
	path   string
	logger *slog.Logger
}

func (w *XLSXWriter) Write(_ context.Context, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("report: naming sheet: %w", err)
	}

	dateFormat := xlsxDateFormat

	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return fmt.Errorf("report: creating date style: %w", err)
	}

	sw, err := f.NewStreamWriter(xlsxSheet)
	if err != nil {
		return fmt.Errorf("report: creating stream writer: %w", err)
	}

	for i, width := range xlsxColumnWidths {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("report: setting column width: %w", err)
		}
	}

	header := Header()
	values := make([]any, len(header))

	for i, h := range header {
		values[i] = h
	}

	if err := sw.SetRow("A1", values); err != nil {
		return fmt.Errorf("report: writing header: %w", err)
	}

	for i, row := range r.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("report: row %d: %w", row.Seq, err)
		}

		if err := sw.SetRow(cell, xlsxCells(row, dateStyle)); err != nil {
			return fmt.Errorf("report: writing row %d: %w", row.Seq, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("report: flushing sheet: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("report: saving %s: %w", w.path, err)
	}

	w.logger.Info("wrote xlsx report", slog.String("path", w.path), slog.Int("rows", len(r.Rows)))

	return nil
}

// xlsxCells keeps timestamps and lengths typed so the sheet can sort them.
func xlsxCells(r Row, dateStyle int) []any {
	cells := []any{
		r.File.Name,
		r.File.Path,
		dateCell(r.File.Modified, dateStyle),
		dateCell(r.File.Created, dateStyle),
		r.File.Length,
		r.File.Version.String(),
	}

	if r.HasProperties {
		for _, v := range r.Properties.Values() {
			cells = append(cells, v)
		}
	}

	return cells
}

func dateCell(t time.Time, style int) any {
	if t.IsZero() {
		return nil
	}

	return excelize.Cell{StyleID: style, Value: t.UTC()}
}
