package sharepoint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tonimelisma/spreport/internal/tree"
)

var _ tree.Provider = (*Client)(nil)

// GetFolder fetches the folder at a server-relative path together with its
// immediate sub-folders and files.
func (c *Client) GetFolder(ctx context.Context, serverRelativePath string) (*tree.Folder, error) {
	path := fmt.Sprintf("/_api/Web/GetFolderByServerRelativeUrl('%s')?$expand=Folders,Files",
		odataPath(serverRelativePath))

	body, err := c.getBody(ctx, path)
	if err != nil {
		return nil, err
	}

	folder, err := parseFolder(body)
	if err != nil {
		return nil, fmt.Errorf("sharepoint: folder %q: %w", serverRelativePath, err)
	}

	c.logger.Debug("fetched folder",
		slog.String("path", folder.Path),
		slog.Int("folders", folder.CountFolders()),
		slog.Int("files", folder.CountFiles()),
	)

	return folder, nil
}

// parseFolder builds a Folder from a GetFolderByServerRelativeUrl entry
// expanded with Folders and Files. Children are classified by their
// category term; entries of any other type are ignored.
func parseFolder(body []byte) (*tree.Folder, error) {
	entry, err := decodeEntry(body)
	if err != nil {
		return nil, err
	}

	props := entry.properties()
	if props == nil {
		return nil, malformed("folder entry has no m:properties")
	}

	self, err := parseEntry(props)
	if err != nil {
		return nil, err
	}

	itemCount, err := props.integer("ItemCount")
	if err != nil {
		return nil, err
	}

	var children []tree.Object

	for _, child := range entry.inlineEntries() {
		cp := child.properties()

		switch child.Category.Term {
		case termFile:
			if cp == nil {
				return nil, malformed("file entry has no m:properties")
			}

			f, err := parseFile(cp)
			if err != nil {
				return nil, err
			}

			children = append(children, tree.FileObject(f))
		case termFolder:
			if cp == nil {
				return nil, malformed("folder entry has no m:properties")
			}

			e, err := parseEntry(cp)
			if err != nil {
				return nil, err
			}

			n, err := cp.integer("ItemCount")
			if err != nil {
				return nil, err
			}

			children = append(children, tree.FolderObject(tree.NewFolder(e, int(n), nil)))
		}
	}

	return tree.NewFolder(self, int(itemCount), children), nil
}

func parseFile(props *propertyBag) (*tree.File, error) {
	e, err := parseEntry(props)
	if err != nil {
		return nil, err
	}

	length, err := props.integer("Length")
	if err != nil {
		return nil, err
	}

	major, err := props.integer("MajorVersion")
	if err != nil {
		return nil, err
	}

	minor, err := props.integer("MinorVersion")
	if err != nil {
		return nil, err
	}

	return &tree.File{
		Entry:   e,
		Length:  length,
		Version: tree.Version{Major: int(major), Minor: int(minor)},
	}, nil
}

// parseEntry reads the attributes shared by files and folders.
func parseEntry(props *propertyBag) (tree.Entry, error) {
	name, err := props.required("Name")
	if err != nil {
		return tree.Entry{}, err
	}

	url, err := props.required("ServerRelativeUrl")
	if err != nil {
		return tree.Entry{}, err
	}

	modified, err := props.timestamp("TimeLastModified")
	if err != nil {
		return tree.Entry{}, err
	}

	created, err := props.timestamp("TimeCreated")
	if err != nil {
		return tree.Entry{}, err
	}

	return tree.Entry{Name: name, Path: url, Modified: modified, Created: created}, nil
}
