package routes

import (
	"strings"
)

// MatchResult is the outcome of resolving a URL against a route table.
type MatchResult struct {
	// Chain holds the matched layouts from outermost to innermost, ending with
	// the matched leaf when there is one.
	Chain []*RouteNode

	// Params are the values captured by variable segments.
	Params map[string]string
}

// Leaf returns the innermost matched node.
func (m *MatchResult) Leaf() *RouteNode {
	if m == nil || len(m.Chain) == 0 {
		return nil
	}
	return m.Chain[len(m.Chain)-1]
}

// Match resolves urlPath the way a first-match router does: siblings are tried
// in order, exact routes must consume the whole URL and layouts match a prefix
// before their children are tried. Children carry absolute paths.
//
// A layout whose children all fail still matches, with only itself in Chain.
func Match(nodes []*RouteNode, urlPath string) (*MatchResult, bool) {
	if i := strings.IndexAny(urlPath, "?#"); i >= 0 {
		urlPath = urlPath[:i]
	}
	segs := splitSegments(urlPath)

	chain, params, ok := matchLevel(nodes, segs)
	if !ok {
		return nil, false
	}
	return &MatchResult{Chain: chain, Params: params}, true
}

func matchLevel(nodes []*RouteNode, segs []string) ([]*RouteNode, map[string]string, bool) {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		params := make(map[string]string)
		pattern := splitSegments(node.Path)

		if node.Routes == nil {
			if matchSegments(pattern, segs, true, params) {
				return []*RouteNode{node}, params, true
			}
			continue
		}

		if !matchSegments(pattern, segs, false, params) {
			continue
		}
		chain := []*RouteNode{node}
		if sub, childParams, ok := matchLevel(node.Routes, segs); ok {
			chain = append(chain, sub...)
			for k, v := range childParams {
				params[k] = v
			}
		}
		return chain, params, true
	}
	return nil, nil, false
}

// matchSegments matches pattern against segs. With full set, every URL segment
// must be consumed; otherwise pattern only needs to match a prefix.
func matchSegments(pattern, segs []string, full bool, params map[string]string) bool {
	if len(pattern) == 0 {
		return !full || len(segs) == 0
	}

	seg := pattern[0]
	if !strings.HasPrefix(seg, ":") {
		return len(segs) > 0 && segs[0] == seg && matchSegments(pattern[1:], segs[1:], full, params)
	}

	name := strings.TrimPrefix(seg, ":")
	optional := strings.HasSuffix(name, "?")
	name = strings.TrimSuffix(name, "?")

	if len(segs) > 0 {
		params[name] = segs[0]
		if matchSegments(pattern[1:], segs[1:], full, params) {
			return true
		}
		delete(params, name)
	}
	return optional && matchSegments(pattern[1:], segs, full, params)
}

// splitSegments splits a URL path on "/" and drops empty segments, so trailing
// slashes do not affect matching.
func splitSegments(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
