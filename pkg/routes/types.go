package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// RouteNode is one entry of the route table.
type RouteNode struct {
	// Path is the URL pattern (e.g., "/users/:id?")
	Path string

	// Exact is true for leaf routes and false for layout routes
	Exact bool

	// Component is the project-relative source file (e.g., "./src/pages/a.js")
	Component string

	// Routes are the children rendered by a layout. Nil for leaf routes.
	Routes []*RouteNode

	// Meta is set by the patcher only.
	Meta map[string]any

	// Extra holds unrecognized fields of nodes loaded from a route config file.
	Extra map[string]json.RawMessage

	// absent records path, exact and component keys missing from a decoded
	// node, so that they are not invented when it is written back.
	absent map[string]bool
}

// Paths locates the project and its pages directory.
type Paths struct {
	// Cwd is the project root; components are relative to it.
	Cwd string

	// AbsPagesPath is the absolute path of the pages directory.
	AbsPagesPath string
}

// IsLayout reports whether the node wraps nested child routes.
func (n *RouteNode) IsLayout() bool {
	return n.Routes != nil
}

var knownFields = map[string]bool{
	"path":      true,
	"exact":     true,
	"component": true,
	"routes":    true,
	"meta":      true,
}

// MarshalJSON writes the known fields in a stable order followed by any extra
// fields sorted by key. A layout always carries its routes field, even if empty.
// Path, exact and component are always written for derived nodes; for a node
// decoded from a route config file, a key it did not have is left out while
// its value is still the zero value.
func (n *RouteNode) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	write := func(key string, value any) error {
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", key, err)
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(data)
		return nil
	}

	if !n.absent["path"] || n.Path != "" {
		if err := write("path", n.Path); err != nil {
			return nil, err
		}
	}
	if !n.absent["exact"] || n.Exact {
		if err := write("exact", n.Exact); err != nil {
			return nil, err
		}
	}
	if !n.absent["component"] || n.Component != "" {
		if err := write("component", n.Component); err != nil {
			return nil, err
		}
	}
	if n.Routes != nil {
		if err := write("routes", n.Routes); err != nil {
			return nil, err
		}
	}
	if len(n.Meta) > 0 {
		if err := write("meta", n.Meta); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(n.Extra))
	for k := range n.Extra {
		if !knownFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := write(k, n.Extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the known fields and keeps everything else in Extra.
func (n *RouteNode) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return fmt.Errorf("route must be an object, got %s", data)
	}

	*n = RouteNode{}
	for _, key := range []string{"path", "exact", "component"} {
		if _, ok := fields[key]; !ok {
			if n.absent == nil {
				n.absent = make(map[string]bool)
			}
			n.absent[key] = true
		}
	}
	if raw, ok := fields["path"]; ok {
		if err := json.Unmarshal(raw, &n.Path); err != nil {
			return fmt.Errorf("route path: %w", err)
		}
	}
	if raw, ok := fields["exact"]; ok {
		if err := json.Unmarshal(raw, &n.Exact); err != nil {
			return fmt.Errorf("route %q exact: %w", n.Path, err)
		}
	}
	if raw, ok := fields["component"]; ok {
		if err := json.Unmarshal(raw, &n.Component); err != nil {
			return fmt.Errorf("route %q component: %w", n.Path, err)
		}
	}
	if raw, ok := fields["routes"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		children := []*RouteNode{}
		if err := json.Unmarshal(raw, &children); err != nil {
			return fmt.Errorf("route %q routes: %w", n.Path, err)
		}
		n.Routes = children
	}
	if raw, ok := fields["meta"]; ok {
		if err := json.Unmarshal(raw, &n.Meta); err != nil {
			return fmt.Errorf("route %q meta: %w", n.Path, err)
		}
	}

	for k, v := range fields {
		if knownFields[k] {
			continue
		}
		if n.Extra == nil {
			n.Extra = make(map[string]json.RawMessage)
		}
		n.Extra[k] = v
	}
	return nil
}

// Walk calls fn for every node depth-first, parents before children.
// Returning an error stops the walk.
func Walk(nodes []*RouteNode, fn func(node *RouteNode, depth int) error) error {
	return walk(nodes, 0, fn)
}

func walk(nodes []*RouteNode, depth int, fn func(*RouteNode, int) error) error {
	for _, n := range nodes {
		if err := fn(n, depth); err != nil {
			return err
		}
		if n.Routes != nil {
			if err := walk(n.Routes, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Count returns the total number of nodes in the tree.
func Count(nodes []*RouteNode) int {
	total := 0
	_ = Walk(nodes, func(*RouteNode, int) error {
		total++
		return nil
	})
	return total
}
