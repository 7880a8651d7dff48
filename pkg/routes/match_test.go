package routes

import (
	"testing"
)

func TestMatch(t *testing.T) {
	routes := derive(t, newProject(t,
		"index.js",
		"about.js",
		"$slug.js",
		"users/_layout.js",
		"users/index.js",
		"users/new.js",
		"users/$id$.js",
		"docs/$section/$page.js",
	))

	tests := []struct {
		url    string
		chain  []string
		params map[string]string
	}{
		{"/", []string{"/"}, nil},
		{"/about", []string{"/about"}, nil},
		{"/about/", []string{"/about"}, nil},
		{"/pricing", []string{"/:slug"}, map[string]string{"slug": "pricing"}},
		{"/users", []string{"/users", "/users/"}, nil},
		{"/users/new", []string{"/users", "/users/new"}, nil},
		{"/users/42", []string{"/users", "/users/:id?"}, map[string]string{"id": "42"}},
		{"/users/42/extra", []string{"/users"}, nil},
		{"/docs/guide/intro?x=1", []string{"/docs/:section/:page"}, map[string]string{"section": "guide", "page": "intro"}},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			m, ok := Match(routes, tt.url)
			if !ok {
				t.Fatalf("Match(%q) found nothing", tt.url)
			}
			got := routePaths(m.Chain)
			if len(got) != len(tt.chain) {
				t.Fatalf("chain = %v, want %v", got, tt.chain)
			}
			for i := range got {
				if got[i] != tt.chain[i] {
					t.Fatalf("chain = %v, want %v", got, tt.chain)
				}
			}
			for k, v := range tt.params {
				if m.Params[k] != v {
					t.Errorf("param %s = %q, want %q", k, m.Params[k], v)
				}
			}
			if len(m.Params) != len(tt.params) {
				t.Errorf("params = %v, want %v", m.Params, tt.params)
			}
		})
	}
}

func TestMatchNoRoute(t *testing.T) {
	routes := derive(t, newProject(t, "about.js"))
	if m, ok := Match(routes, "/contact"); ok {
		t.Errorf("unexpected match %v", routePaths(m.Chain))
	}
}

func TestMatchFirstWins(t *testing.T) {
	routes := []*RouteNode{
		{Path: "/:any", Exact: true, Component: "first"},
		{Path: "/fixed", Exact: true, Component: "second"},
	}
	m, ok := Match(routes, "/fixed")
	if !ok || m.Leaf().Component != "first" {
		t.Errorf("first matching sibling should win")
	}
}

func TestMatchOptionalParam(t *testing.T) {
	routes := []*RouteNode{{Path: "/posts/:page?", Exact: true}}

	m, ok := Match(routes, "/posts")
	if !ok {
		t.Fatal("optional param should allow a missing segment")
	}
	if _, set := m.Params["page"]; set {
		t.Errorf("params = %v, want page unset", m.Params)
	}
}
