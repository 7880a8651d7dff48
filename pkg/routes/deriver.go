package routes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Deriver builds a route table from a pages directory.
// It only reads the file system and keeps no state between calls, so one
// Deriver may be shared by concurrent callers.
type Deriver struct {
	conv Conventions
}

// NewDeriver creates a deriver for the given conventions.
// Empty fields fall back to DefaultConventions.
func NewDeriver(conv Conventions) *Deriver {
	return &Deriver{conv: conv.WithDefaults()}
}

// Conventions returns the conventions in effect.
func (d *Deriver) Conventions() Conventions {
	return d.conv
}

// Derive walks paths.AbsPagesPath and returns its routes.
// A missing pages directory yields an empty table. Any conflict or file-system
// error aborts the whole derivation.
func (d *Deriver) Derive(paths Paths) ([]*RouteNode, error) {
	return d.deriveDir(paths, "")
}

// entryGroup is the contribution of one directory entry: a single node, or the
// spliced children of a directory without layout.
type entryGroup []*RouteNode

// deriveDir returns the routes for the logical sub-path dirPath.
//
// Entries are visited in listing order. Groups from static names are collected
// in head, groups from "$" names in tail; the result is reverse(head) + tail.
func (d *Deriver) deriveDir(paths Paths, dirPath string) ([]*RouteNode, error) {
	dir := filepath.Join(paths.AbsPagesPath, dirPath)
	ok, err := exists(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []*RouteNode{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var head, tail []entryGroup
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		group, err := d.deriveEntry(paths, dirPath, name)
		if err != nil {
			return nil, err
		}
		if group == nil {
			continue
		}

		if IsVariableName(name) {
			tail = append(tail, group)
		} else {
			head = append(head, group)
		}
	}

	slices.Reverse(head)
	ret := []*RouteNode{}
	for _, g := range head {
		ret = append(ret, g...)
	}
	for _, g := range tail {
		ret = append(ret, g...)
	}
	return ret, nil
}

// deriveEntry maps one directory entry to its routes. A nil group means the
// entry contributes nothing.
func (d *Deriver) deriveEntry(paths Paths, dirPath, name string) (entryGroup, error) {
	full := filepath.Join(paths.AbsPagesPath, dirPath, name)
	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", full, err)
	}

	switch {
	case info.Mode().IsRegular():
		node, err := d.fileRoute(paths, dirPath, name)
		if err != nil || node == nil {
			return nil, err
		}
		return entryGroup{node}, nil

	case info.IsDir():
		return d.dirRoutes(paths, filepath.Join(dirPath, name))
	}

	return nil, nil
}

// fileRoute maps a page file to a leaf route.
func (d *Deriver) fileRoute(paths Paths, dirPath, name string) (*RouteNode, error) {
	ext := filepath.Ext(name)
	if !d.conv.IsPageExtension(ext) {
		return nil, nil
	}
	base := strings.TrimSuffix(name, ext)
	if base == d.conv.LayoutName {
		return nil, nil
	}

	component, err := componentRef(paths.Cwd, filepath.Join(paths.AbsPagesPath, dirPath, name))
	if err != nil {
		return nil, err
	}
	return &RouteNode{
		Path:      filePath(filepath.Join(dirPath, base)),
		Exact:     true,
		Component: component,
	}, nil
}

// dirRoutes maps a subdirectory (logical path fullPath) to its routes.
func (d *Deriver) dirRoutes(paths Paths, fullPath string) (entryGroup, error) {
	routeFile, err := d.firstExisting(paths.AbsPagesPath, fullPath, d.conv.IndexRouteFiles)
	if err != nil {
		return nil, err
	}
	if routeFile != "" {
		node, err := d.indexRoute(paths, fullPath, routeFile)
		if err != nil {
			return nil, err
		}
		return entryGroup{node}, nil
	}

	layoutFile, err := d.firstExisting(paths.AbsPagesPath, fullPath, d.conv.LayoutFiles)
	if err != nil {
		return nil, err
	}
	children, err := d.deriveDir(paths, fullPath)
	if err != nil {
		return nil, err
	}

	if layoutFile == "" {
		return entryGroup(children), nil
	}

	component, err := componentRef(paths.Cwd, filepath.Join(paths.AbsPagesPath, fullPath, layoutFile))
	if err != nil {
		return nil, err
	}
	return entryGroup{{
		Path:      routePath(fullPath),
		Exact:     false,
		Component: component,
		Routes:    children,
	}}, nil
}

// indexRoute emits the single leaf for a directory holding an index route file,
// after checking that no sibling page file claims the same route.
func (d *Deriver) indexRoute(paths Paths, fullPath, routeFile string) (*RouteNode, error) {
	path := stripIndex(routePath(fullPath))

	sibling := fullPath + d.conv.DefaultExtension
	clash, err := exists(filepath.Join(paths.AbsPagesPath, sibling))
	if err != nil {
		return nil, err
	}
	if clash {
		return nil, &RouteConflictError{
			Path:      path,
			File:      toSlash(sibling),
			RouteFile: toSlash(filepath.Join(fullPath, routeFile)),
		}
	}

	component, err := componentRef(paths.Cwd, filepath.Join(paths.AbsPagesPath, fullPath, routeFile))
	if err != nil {
		return nil, err
	}
	return &RouteNode{
		Path:      path,
		Exact:     true,
		Component: component,
	}, nil
}

// firstExisting returns the first candidate present in the directory.
func (d *Deriver) firstExisting(pagesPath, fullPath string, candidates []string) (string, error) {
	for _, name := range candidates {
		ok, err := exists(filepath.Join(pagesPath, fullPath, name))
		if err != nil {
			return "", err
		}
		if ok {
			return name, nil
		}
	}
	return "", nil
}

// componentRef returns "./" followed by the slash-separated path of file
// relative to cwd.
func componentRef(cwd, file string) (string, error) {
	rel, err := filepath.Rel(cwd, file)
	if err != nil {
		return "", fmt.Errorf("relative component path for %s: %w", file, err)
	}
	return "./" + filepath.ToSlash(rel), nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}
