// Package report turns a tree walk into a tabular file inventory and writes
// it out as a spreadsheet, CSV file, or SQLite database.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/tonimelisma/spreport/internal/tree"
)

// DefaultOfficeExtensions lists the file types whose document properties
// are fetched.
var DefaultOfficeExtensions = []string{".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx"}

// Row is one reported file.
type Row struct {
	Seq        int // 1-based, in visit order
	File       tree.File
	Properties tree.DocumentProperties

	// HasProperties is set when Properties were fetched (office documents).
	HasProperties bool
}

// Stats summarizes a collection run.
type Stats struct {
	Folders         int
	Files           int
	Skipped         int
	PropertyFetches int
}

// CollectorOptions configures NewCollector.
type CollectorOptions struct {
	// OfficeExtensions overrides DefaultOfficeExtensions. Matching is
	// case-insensitive and the leading dot is optional.
	OfficeExtensions []string

	// SkipPatterns are doublestar globs; a file whose name or
	// server-relative path matches any of them is left out of the report.
	SkipPatterns []string
}

// Collector is a tree.Visitor that accumulates one Row per visited file.
// It fetches document properties for office files through the same
// provider the walk uses.
type Collector struct {
	provider tree.Provider
	office   mapset.Set[string]
	skip     []string
	logger   *slog.Logger

	rows  []Row
	stats Stats
}

var _ tree.Visitor = (*Collector)(nil)

// NewCollector validates opts and returns an empty Collector.
func NewCollector(provider tree.Provider, opts CollectorOptions, logger *slog.Logger) (*Collector, error) {
	if logger == nil {
		logger = slog.Default()
	}

	exts := opts.OfficeExtensions
	if exts == nil {
		exts = DefaultOfficeExtensions
	}

	office := mapset.NewThreadUnsafeSet[string]()
	for _, e := range exts {
		office.Add(normalizeExtension(e))
	}

	for _, p := range opts.SkipPatterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("report: invalid skip pattern %q", p)
		}
	}

	return &Collector{
		provider: provider,
		office:   office,
		skip:     opts.SkipPatterns,
		logger:   logger,
	}, nil
}

// PreVisitFolder logs the folder with its direct child counts.
func (c *Collector) PreVisitFolder(_ context.Context, folder *tree.Folder) error {
	c.logger.Info(fmt.Sprintf("%d. %s (folders=%d files=%d)",
		c.stats.Folders, folder.Path, folder.CountFolders(), folder.CountFiles()))

	c.stats.Folders++

	return nil
}

// VisitFile records a Row, fetching properties for office documents.
func (c *Collector) VisitFile(ctx context.Context, file *tree.File) error {
	if c.skipped(file) {
		c.stats.Skipped++
		c.logger.Debug("skipping file", slog.String("path", file.Path))

		return nil
	}

	row := Row{Seq: len(c.rows) + 1, File: *file}

	if c.IsOfficeDocument(file.Name) {
		props, err := c.provider.GetFileProperties(ctx, file.Path)
		if err != nil {
			return fmt.Errorf("report: properties of %q: %w", file.Path, err)
		}

		row.Properties = props
		row.HasProperties = true
		c.stats.PropertyFetches++
	}

	c.rows = append(c.rows, row)
	c.stats.Files++

	return nil
}

func (c *Collector) PostVisitFolder(context.Context, *tree.Folder) error {
	return nil
}

// IsOfficeDocument reports whether name has one of the office extensions.
func (c *Collector) IsOfficeDocument(name string) bool {
	return c.office.Contains(strings.ToLower(path.Ext(name)))
}

// Rows returns the collected rows in visit order.
func (c *Collector) Rows() []Row {
	out := make([]Row, len(c.rows))
	copy(out, c.rows)

	return out
}

func (c *Collector) Stats() Stats {
	return c.stats
}

func (c *Collector) skipped(file *tree.File) bool {
	rel := strings.TrimPrefix(file.Path, "/")

	for _, p := range c.skip {
		if ok, _ := doublestar.Match(p, file.Name); ok {
			return true
		}

		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}

	return false
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return ext
}
