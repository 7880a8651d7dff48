package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultRoutesConfigFiles are the route config file names checked at the
// project root, in order.
var DefaultRoutesConfigFiles = []string{"_routes.json", ".routes.json"}

// FindRoutesConfig returns the first route config file present in root, or ""
// when there is none.
func FindRoutesConfig(root string, names []string) (string, error) {
	if names == nil {
		names = DefaultRoutesConfigFiles
	}
	for _, name := range names {
		path := filepath.Join(root, name)
		ok, err := exists(path)
		if err != nil {
			return "", err
		}
		if ok {
			return path, nil
		}
	}
	return "", nil
}

// LoadRoutesConfig reads a route config file. The file must hold a JSON array;
// its entries are returned without further validation.
func LoadRoutesConfig(path string) ([]*RouteNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &RoutesConfigError{File: path, Reason: "read failed", Err: err}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var probe any
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, &RoutesConfigError{File: path, Reason: "invalid JSON", Err: err}
		}
		return nil, &RoutesConfigError{
			File:   path,
			Reason: fmt.Sprintf("router config must be an array, but got %s", abbreviate(trimmed, 40)),
		}
	}

	routes := []*RouteNode{}
	if err := json.Unmarshal(trimmed, &routes); err != nil {
		return nil, &RoutesConfigError{File: path, Reason: "invalid JSON", Err: err}
	}

	err = Walk(routes, func(node *RouteNode, _ int) error {
		if node == nil {
			return &RoutesConfigError{File: path, Reason: "route entries must be objects, got null"}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return routes, nil
}

func abbreviate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
