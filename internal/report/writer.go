package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/tonimelisma/spreport/internal/tree"
)

// Format selects a Writer implementation.
type Format string

const (
	FormatXLSX   Format = "xlsx"
	FormatCSV    Format = "csv"
	FormatSQLite Format = "sqlite"
)

// Formats lists every supported format.
var Formats = []Format{FormatXLSX, FormatCSV, FormatSQLite}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}

	return "", fmt.Errorf("report: unknown format %q (want xlsx, csv or sqlite)", s)
}

// DefaultOutput is the file written when no output path is configured.
func (f Format) DefaultOutput() string {
	switch f {
	case FormatCSV:
		return "report.csv"
	case FormatSQLite:
		return "report.db"
	default:
		return "report.xlsx"
	}
}

// Header returns the column names shared by every tabular format.
func Header() []string {
	h := []string{
		"sp.name", "sp.serverRelativeUrl", "sp.timeLastModified", "sp.timeCreated", "sp.length", "sp.version",
	}

	for _, p := range tree.Properties {
		h = append(h, "meta."+p.String())
	}

	return h
}

// Report is a finished collection run, ready to be written.
type Report struct {
	Root     string
	MaxDepth int
	Started  time.Time
	Finished time.Time
	Rows     []Row
	Stats    Stats
}

// Writer persists a Report.
type Writer interface {
	Write(ctx context.Context, r *Report) error
}

// NewWriter returns the Writer for format, writing to output.
func NewWriter(format Format, output string, logger *slog.Logger) (Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if output == "" {
		output = format.DefaultOutput()
	}

	switch format {
	case FormatXLSX:
		return &XLSXWriter{path: output, logger: logger}, nil
	case FormatCSV:
		return &CSVWriter{path: output, logger: logger}, nil
	case FormatSQLite:
		return &SQLiteWriter{path: output, logger: logger}, nil
	default:
		return nil, fmt.Errorf("report: unknown format %q", format)
	}
}

// textCells renders a row as strings in Header order, with times in RFC 3339.
func textCells(r Row) []string {
	cells := []string{
		r.File.Name,
		r.File.Path,
		formatTime(r.File.Modified),
		formatTime(r.File.Created),
		strconv.FormatInt(r.File.Length, 10),
		r.File.Version.String(),
	}

	if r.HasProperties {
		cells = append(cells, r.Properties.Values()...)
	} else {
		cells = append(cells, make([]string, len(tree.Properties))...)
	}

	return cells
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}
