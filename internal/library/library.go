// Package library discovers reference images on disk and serves as the
// catalog behind the folder/image API.
package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ImageExtensions are the file extensions treated as reference images.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

// ErrOutsideRoot is returned for paths escaping the library root.
var ErrOutsideRoot = errors.New("path outside library root")

// excluded top-level names never offered as folders.
var excluded = map[string]bool{
	"node_modules": true,
	"public":       true,
}

// Catalog is what a practice session needs from an image source. The local
// Library and the HTTP Client both implement it.
type Catalog interface {
	Folders(ctx context.Context) ([]string, error)
	Images(ctx context.Context, folders []string) ([]string, error)
}

type Folder struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Children []Folder `json:"children"`
}

// Library is a directory tree of image folders.
type Library struct {
	root string

	// collate.Collator is not safe for concurrent use.
	mu       sync.Mutex
	collator *collate.Collator
}

var _ Catalog = (*Library)(nil)

func New(root string) (*Library, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("library root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("library root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library root %q is not a directory", abs)
	}
	return &Library{
		root:     abs,
		collator: collate.New(language.Und, collate.IgnoreCase, collate.Numeric),
	}, nil
}

func (l *Library) Root() string {
	return l.root
}

// Folders lists the top-level folders, sorted by name.
func (l *Library) Folders(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("read folders: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && visible(e.Name()) && !excluded[e.Name()] {
			names = append(names, e.Name())
		}
	}
	l.sortNames(names)
	return names, ctx.Err()
}

// FolderTree lists every visible folder under the root as a tree. Paths are
// slash-separated and relative to the root.
func (l *Library) FolderTree(ctx context.Context) ([]Folder, error) {
	top, err := l.Folders(ctx)
	if err != nil {
		return nil, err
	}
	tree := make([]Folder, 0, len(top))
	for _, name := range top {
		f, err := l.subtree(ctx, name)
		if err != nil {
			return nil, err
		}
		tree = append(tree, f)
	}
	return tree, nil
}

func (l *Library) subtree(ctx context.Context, rel string) (Folder, error) {
	if err := ctx.Err(); err != nil {
		return Folder{}, err
	}
	f := Folder{Name: path.Base(rel), Path: rel, Children: []Folder{}}
	entries, err := os.ReadDir(filepath.Join(l.root, filepath.FromSlash(rel)))
	if err != nil {
		return Folder{}, fmt.Errorf("read folder %q: %w", rel, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && visible(e.Name()) {
			names = append(names, e.Name())
		}
	}
	l.sortNames(names)
	for _, name := range names {
		child, err := l.subtree(ctx, path.Join(rel, name))
		if err != nil {
			return Folder{}, err
		}
		f.Children = append(f.Children, child)
	}
	return f, nil
}

// Images recursively collects image paths under each folder. Results are
// relative to the root, slash-separated and deduplicated; folders that do not
// exist are skipped.
func (l *Library) Images(ctx context.Context, folders []string) ([]string, error) {
	seen := make(map[string]bool)
	images := make([]string, 0)

	for _, folder := range folders {
		folder = strings.TrimSpace(folder)
		if folder == "" {
			continue
		}
		dir, err := l.Resolve(folder)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if p != dir && !visible(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !IsImage(d.Name()) {
				return nil
			}
			rel, err := filepath.Rel(l.root, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			if !seen[rel] {
				seen[rel] = true
				images = append(images, rel)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan folder %q: %w", folder, err)
		}
	}
	return images, nil
}

// Resolve maps a slash-separated relative path to an absolute path inside the
// root.
func (l *Library) Resolve(rel string) (string, error) {
	slashed := strings.ReplaceAll(rel, "\\", "/")
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrOutsideRoot, rel)
		}
	}
	return filepath.Join(l.root, filepath.FromSlash(path.Clean("/"+slashed))), nil
}

// IsImage reports whether name has an image extension.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (l *Library) sortNames(names []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.collator.SortStrings(names)
}

func visible(name string) bool {
	return !strings.HasPrefix(name, ".")
}
