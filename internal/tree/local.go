package tree

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// LocalProvider serves folders from the local filesystem. Paths are the
// slash-separated form of the local paths. It exists so traversal and
// reporting can run without a network connection.
type LocalProvider struct {
	logger *slog.Logger
}

// NewLocalProvider creates a LocalProvider. A nil logger discards output.
func NewLocalProvider(logger *slog.Logger) *LocalProvider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &LocalProvider{logger: logger}
}

// GetFolder reads the directory at path and its immediate entries.
// Symlinks and other special files are reported as files.
func (p *LocalProvider) GetFolder(_ context.Context, path string) (*Folder, error) {
	fsPath := filepath.FromSlash(path)

	info, err := os.Stat(fsPath)
	if err != nil {
		return nil, fmt.Errorf("tree: stat %q: %w", path, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("tree: %q is not a directory", path)
	}

	entries, err := os.ReadDir(fsPath)
	if err != nil {
		return nil, fmt.Errorf("tree: reading directory %q: %w", path, err)
	}

	children := make([]Object, 0, len(entries))

	for _, de := range entries {
		childInfo, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("tree: stat %q: %w", de.Name(), err)
		}

		entry := localEntry(filepath.Join(fsPath, de.Name()), childInfo)

		if de.IsDir() {
			children = append(children, FolderObject(NewFolder(entry, 0, nil)))
			continue
		}

		children = append(children, FileObject(&File{
			Entry:   entry,
			Length:  childInfo.Size(),
			Version: Version{Major: 1},
		}))
	}

	p.logger.Debug("read local folder",
		slog.String("path", path),
		slog.Int("entries", len(children)),
	)

	return NewFolder(localEntry(fsPath, info), len(children), children), nil
}

// GetFileProperties returns an empty property set; local files carry no
// library metadata. The file must exist.
func (p *LocalProvider) GetFileProperties(_ context.Context, path string) (DocumentProperties, error) {
	if _, err := os.Stat(filepath.FromSlash(path)); err != nil {
		return DocumentProperties{}, fmt.Errorf("tree: stat %q: %w", path, err)
	}

	return DocumentProperties{}, nil
}

// localEntry converts file info to an Entry. Names are NFC-normalized so
// macOS NFD names sort the same as everywhere else; the path keeps the
// original bytes because it is used for I/O. Filesystems expose no portable
// creation time, so Created mirrors Modified.
func localEntry(fsPath string, info os.FileInfo) Entry {
	mod := info.ModTime().UTC()

	return Entry{
		Name:     norm.NFC.String(info.Name()),
		Path:     filepath.ToSlash(fsPath),
		Modified: mod,
		Created:  mod,
	}
}
