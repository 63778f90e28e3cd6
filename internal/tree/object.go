// Package tree models the folders and files of a document library and
// drives a bounded depth-first traversal over them through a pluggable
// Provider. The traversal order is fully deterministic: children are sorted
// by name and visited in that order, folders before their descendants.
package tree

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Kind discriminates the variants of Object.
type Kind int

const (
	KindFile Kind = iota + 1
	KindFolder
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindFolder:
		return "folder"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Entry holds the attributes shared by folders and files.
// Path is the server-relative path and uniquely identifies the object.
type Entry struct {
	Name     string
	Path     string
	Modified time.Time
	Created  time.Time
}

// Version is the two-part major.minor document version.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// File is a document in the library.
type File struct {
	Entry
	Length  int64
	Version Version
}

// Folder is a folder together with its immediate children. The children
// slice is sorted by name at construction time and never modified.
type Folder struct {
	Entry
	ItemCount int // as declared upstream, not verified against Children
	children  []Object
}

// NewFolder builds a Folder whose children are a sorted copy of children.
// Ordering is case-sensitive byte order of the names.
func NewFolder(entry Entry, itemCount int, children []Object) *Folder {
	sorted := slices.Clone(children)
	slices.SortStableFunc(sorted, func(a, b Object) int {
		return strings.Compare(a.Name(), b.Name())
	})

	return &Folder{
		Entry:     entry,
		ItemCount: itemCount,
		children:  sorted,
	}
}

// Children returns the sorted children. The returned slice is a copy.
func (f *Folder) Children() []Object {
	return slices.Clone(f.children)
}

// CountFolders returns the number of immediate subfolders.
func (f *Folder) CountFolders() int {
	return f.count(KindFolder)
}

// CountFiles returns the number of immediate files.
func (f *Folder) CountFiles() int {
	return f.count(KindFile)
}

func (f *Folder) count(k Kind) int {
	n := 0

	for i := range f.children {
		if f.children[i].kind == k {
			n++
		}
	}

	return n
}

// Object is either a folder or a file. Callers switch on Kind (or use
// IsFolder/IsFile) before reaching for the variant-only accessors.
type Object struct {
	kind   Kind
	folder *Folder
	file   *File
}

// FolderObject wraps a folder as an Object.
func FolderObject(f *Folder) Object {
	return Object{kind: KindFolder, folder: f}
}

// FileObject wraps a file as an Object.
func FileObject(f *File) Object {
	return Object{kind: KindFile, file: f}
}

func (o Object) Kind() Kind     { return o.kind }
func (o Object) IsFolder() bool { return o.kind == KindFolder }
func (o Object) IsFile() bool   { return o.kind == KindFile }

// Folder returns the folder variant, or nil for files.
func (o Object) Folder() *Folder { return o.folder }

// File returns the file variant, or nil for folders.
func (o Object) File() *File { return o.file }

// Entry returns the shared attributes of either variant.
func (o Object) Entry() Entry {
	switch o.kind {
	case KindFolder:
		return o.folder.Entry
	case KindFile:
		return o.file.Entry
	default:
		return Entry{}
	}
}

func (o Object) Name() string { return o.Entry().Name }
func (o Object) Path() string { return o.Entry().Path }
