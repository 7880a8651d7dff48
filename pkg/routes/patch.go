package routes

import (
	"strings"
)

// PageConfig is the per-path configuration consumed by the patcher.
type PageConfig struct {
	// Route is a component that wraps the page's route (e.g., an auth guard).
	Route string `json:"Route,omitempty"`
}

// PatchOptions controls the patch pass.
type PatchOptions struct {
	// ExportStatic is set when the site is exported as static HTML.
	ExportStatic bool

	// HTMLSuffix rewrites leaf paths to end in ".html" under ExportStatic.
	HTMLSuffix bool

	// PatchMeta enables meta injection from Pages.
	PatchMeta bool

	// Pages maps route paths to page configuration.
	Pages map[string]PageConfig
}

// Patch walks the tree and mutates it in place:
//   - under ExportStatic every variable path is rejected
//   - leaves listed in Pages with a Route get Meta{"Route": ...}
//   - under ExportStatic with HTMLSuffix, leaf paths get an ".html" suffix
//
// Layout nodes are only descended into.
func Patch(nodes []*RouteNode, opts PatchOptions) error {
	for _, node := range nodes {
		if opts.ExportStatic && strings.Contains(node.Path, ":") {
			return &VariablePathExportError{Path: node.Path}
		}

		if node.Routes != nil {
			if err := Patch(node.Routes, opts); err != nil {
				return err
			}
			continue
		}

		if opts.PatchMeta {
			if page, ok := opts.Pages[node.Path]; ok && page.Route != "" {
				node.Meta = map[string]any{"Route": page.Route}
			}
		}

		if opts.ExportStatic && opts.HTMLSuffix {
			node.Path = AddHTMLSuffix(node.Path)
		}
	}
	return nil
}

// AddHTMLSuffix maps a route path to its static file name:
//
//	/        → /
//	/users/  → /users.html
//	/about   → /about.html
func AddHTMLSuffix(path string) string {
	if path == "/" {
		return path
	}
	if strings.HasSuffix(path, "/") {
		return path[:len(path)-1] + ".html"
	}
	return path + ".html"
}
