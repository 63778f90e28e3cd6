package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CSVWriter writes the report as comma-separated values. An output path of
// "-" means standard output.
type CSVWriter struct {
	path   string
	logger *slog.Logger
	stdout io.Writer
}

func (w *CSVWriter) Write(_ context.Context, r *Report) error {
	if w.path == "-" {
		out := w.stdout
		if out == nil {
			out = os.Stdout
		}

		return writeCSV(out, r)
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", w.path, err)
	}

	if err := writeCSV(f, r); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("report: closing %s: %w", w.path, err)
	}

	w.logger.Info("wrote csv report", slog.String("path", w.path), slog.Int("rows", len(r.Rows)))

	return nil
}

func writeCSV(out io.Writer, r *Report) error {
	cw := csv.NewWriter(out)

	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("report: writing csv header: %w", err)
	}

	for _, row := range r.Rows {
		if err := cw.Write(textCells(row)); err != nil {
			return fmt.Errorf("report: writing csv row %d: %w", row.Seq, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: flushing csv: %w", err)
	}

	return nil
}
