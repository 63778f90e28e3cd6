package tree

import (
	"context"
	"errors"
	"fmt"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider serves a fixed hierarchy described as folder path -> child
// names (names ending in "/" are folders) and records every fetch.
type fakeProvider struct {
	folders map[string][]string
	fetched []string
	failOn  string
}

func (p *fakeProvider) GetFolder(_ context.Context, folderPath string) (*Folder, error) {
	p.fetched = append(p.fetched, folderPath)

	if folderPath == p.failOn {
		return nil, errors.New("boom")
	}

	names, ok := p.folders[folderPath]
	if !ok {
		return nil, fmt.Errorf("no folder %q", folderPath)
	}

	children := make([]Object, 0, len(names))

	for _, n := range names {
		if dir, isDir := trimSlash(n); isDir {
			children = append(children, FolderObject(NewFolder(Entry{Name: dir, Path: folderPath + "/" + dir}, 0, nil)))
			continue
		}

		children = append(children, FileObject(&File{Entry: Entry{Name: n, Path: folderPath + "/" + n}}))
	}

	return NewFolder(Entry{Name: path.Base(folderPath), Path: folderPath}, len(children), children), nil
}

func (p *fakeProvider) GetFileProperties(_ context.Context, _ string) (DocumentProperties, error) {
	return DocumentProperties{}, nil
}

func trimSlash(name string) (string, bool) {
	if len(name) > 0 && name[len(name)-1] == '/' {
		return name[:len(name)-1], true
	}

	return name, false
}

// exampleProvider mirrors the documents library used throughout the tests.
// Children are listed unsorted on purpose.
func exampleProvider() *fakeProvider {
	return &fakeProvider{folders: map[string][]string{
		"documents": {
			"test2/", "test.xlsx", "test1/", "test.docx", "test.txt", "test.pptx", "test.pdf",
		},
		"documents/test1": {
			"test1e.pptx", "test1a.txt", "test11/", "test1b.txt", "test1c.docx", "test1d.xlsx",
		},
		"documents/test1/test11": {"test11a.txt"},
		"documents/test2":        {"test2a.txt"},
	}}
}

// recorder logs every callback as "kind=path".
type recorder struct {
	events []string
}

func (r *recorder) visitor() Visitor {
	return VisitorFuncs{
		PreVisitFolderFunc: func(_ context.Context, f *Folder) error {
			r.events = append(r.events, "pre="+f.Path)
			return nil
		},
		VisitFileFunc: func(_ context.Context, f *File) error {
			r.events = append(r.events, "file="+f.Path)
			return nil
		},
		PostVisitFolderFunc: func(_ context.Context, f *Folder) error {
			r.events = append(r.events, "post="+f.Path)
			return nil
		},
	}
}

var rootFiles = []string{
	"file=documents/test.docx",
	"file=documents/test.pdf",
	"file=documents/test.pptx",
	"file=documents/test.txt",
	"file=documents/test.xlsx",
}

var test1Files = []string{
	"file=documents/test1/test1a.txt",
	"file=documents/test1/test1b.txt",
	"file=documents/test1/test1c.docx",
	"file=documents/test1/test1d.xlsx",
	"file=documents/test1/test1e.pptx",
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

func TestWalk_MaxDepthOne(t *testing.T) {
	p := exampleProvider()
	rec := &recorder{}

	require.NoError(t, Walk(context.Background(), p, "documents", 1, rec.visitor()))

	want := concat(
		[]string{"pre=documents"},
		rootFiles,
		[]string{"pre=documents/test1"},
		test1Files,
		[]string{"post=documents/test1", "pre=documents/test2", "file=documents/test2/test2a.txt", "post=documents/test2"},
		[]string{"post=documents"},
	)

	assert.Equal(t, want, rec.events)
	assert.Equal(t, []string{"documents", "documents/test1", "documents/test2"}, p.fetched,
		"folders beyond the bound must not be fetched")
}

func TestWalk_MaxDepthZero(t *testing.T) {
	p := exampleProvider()
	rec := &recorder{}

	require.NoError(t, Walk(context.Background(), p, "documents", 0, rec.visitor()))

	want := concat([]string{"pre=documents"}, rootFiles, []string{"post=documents"})
	assert.Equal(t, want, rec.events)
	assert.Equal(t, []string{"documents"}, p.fetched)
}

func TestWalk_Unlimited(t *testing.T) {
	p := exampleProvider()
	rec := &recorder{}

	require.NoError(t, Walk(context.Background(), p, "documents", UnlimitedDepth, rec.visitor()))

	want := concat(
		[]string{"pre=documents"},
		rootFiles,
		[]string{
			"pre=documents/test1",
			"pre=documents/test1/test11",
			"file=documents/test1/test11/test11a.txt",
			"post=documents/test1/test11",
		},
		test1Files,
		[]string{"post=documents/test1", "pre=documents/test2", "file=documents/test2/test2a.txt", "post=documents/test2"},
		[]string{"post=documents"},
	)

	assert.Equal(t, want, rec.events)
	assert.Len(t, p.fetched, 4)
}

func TestWalk_DeepBoundEqualsUnlimited(t *testing.T) {
	unlimited := &recorder{}
	bounded := &recorder{}

	require.NoError(t, Walk(context.Background(), exampleProvider(), "documents", UnlimitedDepth, unlimited.visitor()))
	require.NoError(t, Walk(context.Background(), exampleProvider(), "documents", 10, bounded.visitor()))

	assert.Equal(t, unlimited.events, bounded.events)
}

func TestWalk_Deterministic(t *testing.T) {
	first := &recorder{}
	second := &recorder{}

	require.NoError(t, Walk(context.Background(), exampleProvider(), "documents", UnlimitedDepth, first.visitor()))
	require.NoError(t, Walk(context.Background(), exampleProvider(), "documents", UnlimitedDepth, second.visitor()))

	assert.Equal(t, first.events, second.events)
}

func TestWalk_PostVisitAfterAllDescendants(t *testing.T) {
	rec := &recorder{}
	require.NoError(t, Walk(context.Background(), exampleProvider(), "documents", UnlimitedDepth, rec.visitor()))

	index := make(map[string]int, len(rec.events))
	for i, e := range rec.events {
		index[e] = i
	}

	for i, e := range rec.events {
		var folder string
		if _, err := fmt.Sscanf(e, "post=%s", &folder); err != nil {
			continue
		}

		pre, ok := index["pre="+folder]
		require.True(t, ok)
		assert.Less(t, pre, i)

		// Every event under folder/ lies between pre and post.
		for j, other := range rec.events {
			if j == i || j == pre {
				continue
			}

			if containsPathUnder(other, folder) {
				assert.Greater(t, j, pre, other)
				assert.Less(t, j, i, other)
			}
		}
	}
}

func containsPathUnder(event, folder string) bool {
	for _, prefix := range []string{"pre=", "file=", "post="} {
		if len(event) > len(prefix) && event[:len(prefix)] == prefix {
			p := event[len(prefix):]
			return len(p) > len(folder) && p[:len(folder)+1] == folder+"/"
		}
	}

	return false
}

func TestWalk_ProviderErrorAborts(t *testing.T) {
	p := exampleProvider()
	p.failOn = "documents/test1"
	rec := &recorder{}

	err := Walk(context.Background(), p, "documents", UnlimitedDepth, rec.visitor())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `fetching folder "documents/test1"`)
	assert.Contains(t, err.Error(), "boom")

	// Root files were visited, nothing after the failure was.
	assert.Equal(t, concat([]string{"pre=documents"}, rootFiles), rec.events)
	assert.Equal(t, []string{"documents", "documents/test1"}, p.fetched)
}

func TestWalk_VisitorErrorAborts(t *testing.T) {
	p := exampleProvider()
	errStop := errors.New("stop")

	var visited []string

	v := VisitorFuncs{
		VisitFileFunc: func(_ context.Context, f *File) error {
			visited = append(visited, f.Name)
			if f.Name == "test.pptx" {
				return errStop
			}

			return nil
		},
	}

	err := Walk(context.Background(), p, "documents", UnlimitedDepth, v)
	require.ErrorIs(t, err, errStop)
	assert.Equal(t, []string{"test.docx", "test.pdf", "test.pptx"}, visited)
	assert.Equal(t, []string{"documents"}, p.fetched)
}

func TestWalk_PreVisitErrorSkipsChildren(t *testing.T) {
	p := exampleProvider()
	errStop := errors.New("stop")
	files := 0

	v := VisitorFuncs{
		PreVisitFolderFunc: func(context.Context, *Folder) error { return errStop },
		VisitFileFunc: func(context.Context, *File) error {
			files++
			return nil
		},
	}

	require.ErrorIs(t, Walk(context.Background(), p, "documents", UnlimitedDepth, v), errStop)
	assert.Zero(t, files)
}

func TestWalk_InvalidMaxDepth(t *testing.T) {
	p := exampleProvider()

	err := Walk(context.Background(), p, "documents", -2, VisitorFuncs{})
	require.Error(t, err)
	assert.Empty(t, p.fetched)
}

func TestWalk_CanceledContext(t *testing.T) {
	p := exampleProvider()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Walk(ctx, p, "documents", UnlimitedDepth, VisitorFuncs{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, p.fetched)
}

func TestVisitorFuncs_NilFieldsAreNoops(t *testing.T) {
	require.NoError(t, Walk(context.Background(), exampleProvider(), "documents", UnlimitedDepth, VisitorFuncs{}))
}
