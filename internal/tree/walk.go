package tree

import (
	"context"
	"fmt"
)

// UnlimitedDepth disables the depth bound of Walk.
const UnlimitedDepth = -1

// Provider fetches remote objects. It is the only dependency Walk has on
// the outside world, so a local filesystem implementation can stand in for
// the network one.
type Provider interface {
	// GetFolder returns the folder at path together with its immediate
	// children in one call.
	GetFolder(ctx context.Context, path string) (*Folder, error)

	// GetFileProperties returns the document metadata of the file at path.
	GetFileProperties(ctx context.Context, path string) (DocumentProperties, error)
}

// Visitor receives traversal callbacks. Returning an error aborts the walk.
type Visitor interface {
	PreVisitFolder(ctx context.Context, folder *Folder) error
	VisitFile(ctx context.Context, file *File) error
	PostVisitFolder(ctx context.Context, folder *Folder) error
}

// VisitorFuncs adapts plain functions to Visitor. Nil fields are no-ops.
type VisitorFuncs struct {
	PreVisitFolderFunc  func(ctx context.Context, folder *Folder) error
	VisitFileFunc       func(ctx context.Context, file *File) error
	PostVisitFolderFunc func(ctx context.Context, folder *Folder) error
}

func (v VisitorFuncs) PreVisitFolder(ctx context.Context, folder *Folder) error {
	if v.PreVisitFolderFunc == nil {
		return nil
	}

	return v.PreVisitFolderFunc(ctx, folder)
}

func (v VisitorFuncs) VisitFile(ctx context.Context, file *File) error {
	if v.VisitFileFunc == nil {
		return nil
	}

	return v.VisitFileFunc(ctx, file)
}

func (v VisitorFuncs) PostVisitFolder(ctx context.Context, folder *Folder) error {
	if v.PostVisitFolderFunc == nil {
		return nil
	}

	return v.PostVisitFolderFunc(ctx, folder)
}

// Walk traverses the folder at root depth-first. The root is at depth 0 and
// each descent adds one. A folder deeper than maxDepth is neither fetched
// nor visited; pass UnlimitedDepth to walk the whole hierarchy.
//
// For every folder, PreVisitFolder fires first, then its children are
// handled in name order (files are visited, subfolders are walked), and
// PostVisitFolder fires once all descendants are done. The first error from
// the provider or the visitor stops the walk and is returned.
func Walk(ctx context.Context, p Provider, root string, maxDepth int, v Visitor) error {
	if maxDepth < UnlimitedDepth {
		return fmt.Errorf("tree: invalid max depth %d", maxDepth)
	}

	return walk(ctx, p, root, 0, maxDepth, v)
}

func walk(ctx context.Context, p Provider, path string, depth, maxDepth int, v Visitor) error {
	// Checked before the fetch so out-of-bound folders cost no request.
	if maxDepth != UnlimitedDepth && depth > maxDepth {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	folder, err := p.GetFolder(ctx, path)
	if err != nil {
		return fmt.Errorf("tree: fetching folder %q: %w", path, err)
	}

	if err := v.PreVisitFolder(ctx, folder); err != nil {
		return err
	}

	for _, child := range folder.children {
		switch child.kind {
		case KindFolder:
			if err := walk(ctx, p, child.folder.Path, depth+1, maxDepth, v); err != nil {
				return err
			}
		case KindFile:
			if err := v.VisitFile(ctx, child.file); err != nil {
				return err
			}
		}
	}

	return v.PostVisitFolder(ctx, folder)
}
