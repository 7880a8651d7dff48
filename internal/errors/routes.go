package errors

import (
	"errors"
	"io/fs"

	"github.com/vango-dev/pageroutes/pkg/routes"
)

// FromRoutes converts errors returned by the routes package into coded errors.
// Errors it does not recognize are returned unchanged.
func FromRoutes(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var conflict *routes.RouteConflictError
	if errors.As(err, &conflict) {
		return New("E110").
			WithDetail(conflict.File+" and "+conflict.RouteFile+" both resolve to "+conflict.Path).
			WithFiles(conflict.File, conflict.RouteFile).
			WithSuggestion("Remove " + conflict.File + " or move the page into " + conflict.RouteFile).
			Wrap(err)
	}

	var export *routes.VariablePathExportError
	if errors.As(err, &export) {
		return New("E111").
			WithDetail("Route " + export.Path + " has a variable segment").
			WithSuggestion(`Disable "exportStatic" or replace the variable route with static pages`).
			Wrap(err)
	}

	var cfg *routes.RoutesConfigError
	if errors.As(err, &cfg) {
		return New("E112").
			WithDetail(cfg.Reason).
			WithLocation(cfg.File, 0, 0).
			WithSuggestion("Make the file a JSON array of route objects, or delete it to derive routes from the pages directory").
			Wrap(err)
	}

	var invalid *routes.MultiValidationError
	if errors.As(err, &invalid) {
		files := make([]string, 0, len(invalid.Errors))
		for _, v := range invalid.Errors {
			files = append(files, v.Error())
		}
		return New("E113").WithFiles(files...).Wrap(err)
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return New("E114").
			WithDetail(err.Error()).
			WithLocation(pathErr.Path, 0, 0).
			Wrap(err)
	}

	return err
}
