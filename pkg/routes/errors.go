package routes

import (
	"fmt"
)

// RouteConflictError reports a directory that is both an index-route directory
// and shadowed by a sibling page file with the same name.
type RouteConflictError struct {
	// Path is the route both files resolve to.
	Path string

	// File is the sibling page file (e.g., "users.js").
	File string

	// RouteFile is the index route file inside the directory (e.g., "users/page.js").
	RouteFile string
}

func (e *RouteConflictError) Error() string {
	return fmt.Sprintf("route conflict: %q and %q both resolve to %s", e.File, e.RouteFile, e.Path)
}

// VariablePathExportError reports a variable route under static export, where
// every route must map to a concrete HTML file.
type VariablePathExportError struct {
	Path string
}

func (e *VariablePathExportError) Error() string {
	return fmt.Sprintf("variable path %s does not work with exportStatic", e.Path)
}

// RoutesConfigError reports an unusable route config file.
type RoutesConfigError struct {
	File   string
	Reason string
	Err    error
}

func (e *RoutesConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("routes config %s: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("routes config %s: %s", e.File, e.Reason)
}

func (e *RoutesConfigError) Unwrap() error {
	return e.Err
}
