package sharepoint

import (
	"context"
	"fmt"

	"github.com/tonimelisma/spreport/internal/tree"
)

// propertyFields maps each document property to its REST field name.
var propertyFields = map[tree.Property]string{
	tree.PropertyTitle:    "vti_x005f_title",
	tree.PropertySubject:  "Subject",
	tree.PropertyComment:  "OData__x005f_Comments",
	tree.PropertyKeywords: "Keywords",
	tree.PropertyAuthor:   "OData__x005f_Author",
}

// GetFileProperties fetches the document properties of the file at a
// server-relative path. Properties the service does not report are empty.
func (c *Client) GetFileProperties(ctx context.Context, serverRelativePath string) (tree.DocumentProperties, error) {
	path := fmt.Sprintf("/_api/Web/GetFileByServerRelativePath(decodedurl='%s')/Properties",
		odataPath(serverRelativePath))

	body, err := c.getBody(ctx, path)
	if err != nil {
		return tree.DocumentProperties{}, err
	}

	props, err := parseProperties(body)
	if err != nil {
		return tree.DocumentProperties{}, fmt.Errorf("sharepoint: file %q: %w", serverRelativePath, err)
	}

	return props, nil
}

func parseProperties(body []byte) (tree.DocumentProperties, error) {
	entry, err := decodeEntry(body)
	if err != nil {
		return tree.DocumentProperties{}, err
	}

	bag := entry.properties()
	if bag == nil {
		return tree.DocumentProperties{}, malformed("properties entry has no m:properties")
	}

	values := make(map[tree.Property]string, len(propertyFields))
	for p, field := range propertyFields {
		values[p] = bag.text(field)
	}

	return tree.NewDocumentProperties(values), nil
}
