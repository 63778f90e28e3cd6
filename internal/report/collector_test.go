package report

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/spreport/internal/tree"
)

var testModified = time.Date(2018, 11, 10, 16, 25, 33, 0, time.UTC)

// stubProvider serves folders built from a path -> child names table
// ("/" suffix marks folders) and answers property requests per path.
type stubProvider struct {
	folders   map[string][]string
	props     map[string]tree.DocumentProperties
	propsErr  error
	propCalls []string
}

func (p *stubProvider) GetFolder(_ context.Context, folderPath string) (*tree.Folder, error) {
	var children []tree.Object

	for _, n := range p.folders[folderPath] {
		if strings.HasSuffix(n, "/") {
			name := strings.TrimSuffix(n, "/")
			children = append(children, tree.FolderObject(tree.NewFolder(
				tree.Entry{Name: name, Path: folderPath + "/" + name}, 0, nil)))

			continue
		}

		children = append(children, tree.FileObject(&tree.File{
			Entry:   tree.Entry{Name: n, Path: folderPath + "/" + n, Modified: testModified, Created: testModified},
			Length:  int64(len(n)),
			Version: tree.Version{Major: 1},
		}))
	}

	return tree.NewFolder(tree.Entry{Name: path.Base(folderPath), Path: folderPath}, len(children), children), nil
}

func (p *stubProvider) GetFileProperties(_ context.Context, filePath string) (tree.DocumentProperties, error) {
	p.propCalls = append(p.propCalls, filePath)

	if p.propsErr != nil {
		return tree.DocumentProperties{}, p.propsErr
	}

	return p.props[filePath], nil
}

func documentsProvider() *stubProvider {
	return &stubProvider{
		folders: map[string][]string{
			"/sites/s/documents": {
				"test.docx", "test.pdf", "test.PPTX", "test.txt", "test.xlsx", "test1/", "~$lock.docx",
			},
			"/sites/s/documents/test1": {"test1a.txt", "test1c.docx"},
		},
		props: map[string]tree.DocumentProperties{
			"/sites/s/documents/test.docx": tree.NewDocumentProperties(map[tree.Property]string{
				tree.PropertyTitle: "Quarterly",
			}),
		},
	}
}

func collect(t *testing.T, p tree.Provider, opts CollectorOptions, logger *slog.Logger) *Collector {
	t.Helper()

	c, err := NewCollector(p, opts, logger)
	require.NoError(t, err)
	require.NoError(t, tree.Walk(context.Background(), p, "/sites/s/documents", tree.UnlimitedDepth, c))

	return c
}

func TestCollector_RowsAndProperties(t *testing.T) {
	p := documentsProvider()
	c := collect(t, p, CollectorOptions{}, nil)

	rows := c.Rows()
	require.Len(t, rows, 8)

	var names []string
	for i, r := range rows {
		assert.Equal(t, i+1, r.Seq)
		names = append(names, r.File.Name)
	}

	// Files interleave with sub-folder contents in sorted order.
	assert.Equal(t, []string{
		"test.PPTX", "test.docx", "test.pdf", "test.txt", "test.xlsx",
		"test1a.txt", "test1c.docx", "~$lock.docx",
	}, names)

	assert.Equal(t, []string{
		"/sites/s/documents/test.PPTX",
		"/sites/s/documents/test.docx",
		"/sites/s/documents/test.xlsx",
		"/sites/s/documents/test1/test1c.docx",
		"/sites/s/documents/~$lock.docx",
	}, p.propCalls, "office documents only, extension case-insensitive")

	docx := rows[1]
	assert.True(t, docx.HasProperties)
	assert.Equal(t, "Quarterly", docx.Properties.Get(tree.PropertyTitle))
	assert.False(t, rows[2].HasProperties, "pdf has no properties")

	assert.Equal(t, Stats{Folders: 2, Files: 8, PropertyFetches: 5}, c.Stats())
}

func TestCollector_SkipPatterns(t *testing.T) {
	p := documentsProvider()
	c := collect(t, p, CollectorOptions{SkipPatterns: []string{"~$*", "**/test1/*.txt"}}, nil)

	for _, r := range c.Rows() {
		assert.NotEqual(t, "~$lock.docx", r.File.Name)
		assert.NotEqual(t, "test1a.txt", r.File.Name)
	}

	assert.Equal(t, 2, c.Stats().Skipped)
	assert.Equal(t, 6, c.Stats().Files)
	assert.NotContains(t, p.propCalls, "/sites/s/documents/~$lock.docx", "skipped files are not fetched")
}

func TestCollector_CustomExtensions(t *testing.T) {
	p := documentsProvider()
	c := collect(t, p, CollectorOptions{OfficeExtensions: []string{"PDF", " .txt "}}, nil)

	assert.Equal(t, []string{
		"/sites/s/documents/test.pdf",
		"/sites/s/documents/test.txt",
		"/sites/s/documents/test1/test1a.txt",
	}, p.propCalls)

	assert.True(t, c.IsOfficeDocument("a.Pdf"))
	assert.False(t, c.IsOfficeDocument("a.docx"))
}

func TestCollector_PropertyErrorAborts(t *testing.T) {
	p := documentsProvider()
	p.propsErr = errors.New("forbidden")

	c, err := NewCollector(p, CollectorOptions{}, nil)
	require.NoError(t, err)

	err = tree.Walk(context.Background(), p, "/sites/s/documents", tree.UnlimitedDepth, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `properties of "/sites/s/documents/test.PPTX"`)
	assert.Len(t, c.Rows(), 0)
}

func TestCollector_InvalidSkipPattern(t *testing.T) {
	_, err := NewCollector(documentsProvider(), CollectorOptions{SkipPatterns: []string{"[unclosed"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid skip pattern")
}

func TestCollector_LogsFolders(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	collect(t, documentsProvider(), CollectorOptions{}, logger)

	out := buf.String()
	assert.Contains(t, out, `"0. /sites/s/documents (folders=1 files=6)"`)
	assert.Contains(t, out, `"1. /sites/s/documents/test1 (folders=0 files=2)"`)
}

func TestCollector_RowsIsACopy(t *testing.T) {
	c := collect(t, documentsProvider(), CollectorOptions{}, nil)

	rows := c.Rows()
	rows[0].File.Name = "changed"

	assert.NotEqual(t, "changed", c.Rows()[0].File.Name)
}
