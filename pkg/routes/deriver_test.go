package routes

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// newProject creates a project root with the given files under src/pages.
// Entries ending in "/" create empty directories.
func newProject(t *testing.T, files ...string) Paths {
	t.Helper()
	root := t.TempDir()
	pages := filepath.Join(root, "src", "pages")
	if err := os.MkdirAll(pages, 0755); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		full := filepath.Join(pages, filepath.FromSlash(f))
		if strings.HasSuffix(f, "/") {
			if err := os.MkdirAll(full, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("export default () => null;\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return Paths{Cwd: root, AbsPagesPath: pages}
}

func derive(t *testing.T, paths Paths) []*RouteNode {
	t.Helper()
	routes, err := NewDeriver(DefaultConventions()).Derive(paths)
	if err != nil {
		t.Fatalf("Derive error: %v", err)
	}
	return routes
}

func routePaths(routes []*RouteNode) []string {
	out := make([]string, len(routes))
	for i, r := range routes {
		out[i] = r.Path
	}
	return out
}

func TestDeriveFileMapping(t *testing.T) {
	tests := []struct {
		file      string
		path      string
		component string
	}{
		{"index.js", "/", "./src/pages/index.js"},
		{"about.js", "/about", "./src/pages/about.js"},
		{"foo/index.js", "/foo/", "./src/pages/foo/index.js"},
		{"index/index.js", "/", "./src/pages/index/index.js"},
		{"$id.js", "/:id", "./src/pages/$id.js"},
		{"opt$.js", "/opt?", "./src/pages/opt$.js"},
		{"$id$.js", "/:id?", "./src/pages/$id$.js"},
		{"users/$id/edit.tsx", "/users/:id/edit", "./src/pages/users/$id/edit.tsx"},
		{"docs/intro.jsx", "/docs/intro", "./src/pages/docs/intro.jsx"},
		{"api/index.ts", "/api/", "./src/pages/api/index.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			routes := derive(t, newProject(t, tt.file))
			if len(routes) != 1 {
				t.Fatalf("got %d routes, want 1: %v", len(routes), routePaths(routes))
			}
			got := routes[0]
			if got.Path != tt.path {
				t.Errorf("Path = %q, want %q", got.Path, tt.path)
			}
			if !got.Exact {
				t.Error("Exact should be true for a page file")
			}
			if got.Component != tt.component {
				t.Errorf("Component = %q, want %q", got.Component, tt.component)
			}
			if got.Routes != nil {
				t.Errorf("Routes = %v, want nil", got.Routes)
			}
		})
	}
}

func TestDeriveStaticRoutesReverseListingOrder(t *testing.T) {
	// os.ReadDir lists entries sorted by name: a, b, c, d.
	routes := derive(t, newProject(t, "c.js", "a.js", "d.tsx", "b.jsx"))

	want := []string{"/d", "/c", "/b", "/a"}
	if got := routePaths(routes); !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestDeriveVariableRoutesForwardListingOrder(t *testing.T) {
	routes := derive(t, newProject(t, "$c.js", "$a.js", "$b$.js"))

	want := []string{"/:a", "/:b?", "/:c"}
	if got := routePaths(routes); !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestDeriveStaticBeforeVariable(t *testing.T) {
	routes := derive(t, newProject(t,
		"$slug.js",
		"about.js",
		"$id$.js",
		"contact.js",
		"$team/_layout.js",
		"$team/index.js",
		"blog/page.js",
	))

	// Listing: $id$.js, $slug.js, $team, about.js, blog, contact.js
	want := []string{"/contact", "/blog", "/about", "/:id?", "/:slug", "/:team"}
	if got := routePaths(routes); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}

	seenVariable := false
	for _, r := range routes {
		isVar := strings.Contains(r.Path, ":")
		if seenVariable && !isVar {
			t.Errorf("static route %s follows a variable route", r.Path)
		}
		seenVariable = seenVariable || isVar
	}
}

func TestDeriveMixedDirectoryExample(t *testing.T) {
	routes := derive(t, newProject(t, "a.js", "$b.js", "c/index.js"))

	want := []string{"/c/", "/a", "/:b"}
	if got := routePaths(routes); !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestDeriveSkipsIneligibleEntries(t *testing.T) {
	routes := derive(t, newProject(t,
		"index.js",
		".hidden.js",
		".git/config.js",
		"README.md",
		"styles.css",
		"_layout.js",
		"data.json",
		"empty/",
	))

	want := []string{"/"}
	if got := routePaths(routes); !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestDeriveSplicesDirectoryWithoutLayout(t *testing.T) {
	routes := derive(t, newProject(t,
		"a/b/c.js",
		"a/b/d.js",
		"a/x.js",
		"z.js",
	))

	// a contributes [/a/x, /a/b/d, /a/b/c] as one block, z is listed after a.
	want := []string{"/z", "/a/x", "/a/b/d", "/a/b/c"}
	if got := routePaths(routes); !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
	for _, r := range routes {
		if !r.Exact || r.Routes != nil {
			t.Errorf("route %s should be a spliced leaf", r.Path)
		}
	}
}

func TestDeriveVariableDirectoryWithoutLayoutGoesLast(t *testing.T) {
	routes := derive(t, newProject(t,
		"$user/index.js",
		"$user/settings.js",
		"home.js",
	))

	want := []string{"/home", "/:user/settings", "/:user/"}
	if got := routePaths(routes); !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestDeriveLayout(t *testing.T) {
	paths := newProject(t,
		"users/_layout.tsx",
		"users/index.js",
		"users/$id.js",
		"users/new.js",
	)
	routes := derive(t, paths)

	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1: %v", len(routes), routePaths(routes))
	}
	layout := routes[0]
	if layout.Path != "/users" {
		t.Errorf("Path = %q, want %q", layout.Path, "/users")
	}
	if layout.Exact {
		t.Error("Exact should be false for a layout")
	}
	if layout.Component != "./src/pages/users/_layout.tsx" {
		t.Errorf("Component = %q", layout.Component)
	}

	wantChildren := []string{"/users/new", "/users/", "/users/:id"}
	if got := routePaths(layout.Routes); !reflect.DeepEqual(got, wantChildren) {
		t.Errorf("children = %v, want %v", got, wantChildren)
	}

	direct, err := NewDeriver(DefaultConventions()).deriveDir(paths, "users")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(layout.Routes, direct) {
		t.Errorf("layout children differ from direct derivation of the directory")
	}
}

func TestDeriveLayoutPathKeepsIndex(t *testing.T) {
	routes := derive(t, newProject(t, "index/_layout.js", "index/a.js"))

	if len(routes) != 1 || routes[0].Path != "/index" {
		t.Fatalf("paths = %v, want [/index]", routePaths(routes))
	}
	if got := routePaths(routes[0].Routes); !reflect.DeepEqual(got, []string{"/index/a"}) {
		t.Errorf("children = %v", got)
	}
}

func TestDeriveLayoutPriority(t *testing.T) {
	routes := derive(t, newProject(t,
		"admin/_layout.js",
		"admin/_layout.jsx",
		"admin/_layout.tsx",
		"admin/_layout.ts",
		"admin/index.js",
	))

	if len(routes) != 1 {
		t.Fatalf("got %d routes", len(routes))
	}
	if routes[0].Component != "./src/pages/admin/_layout.tsx" {
		t.Errorf("Component = %q, want the .tsx layout", routes[0].Component)
	}
}

func TestDeriveEmptyLayout(t *testing.T) {
	routes := derive(t, newProject(t, "shell/_layout.js"))

	if len(routes) != 1 {
		t.Fatalf("got %d routes", len(routes))
	}
	if routes[0].Routes == nil || len(routes[0].Routes) != 0 {
		t.Errorf("Routes = %#v, want empty non-nil", routes[0].Routes)
	}

	data, err := json.Marshal(routes[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"routes":[]`) {
		t.Errorf("JSON = %s, want an empty routes array", data)
	}
}

func TestDeriveNestedLayouts(t *testing.T) {
	routes := derive(t, newProject(t,
		"_layout.js",
		"org/_layout.js",
		"org/$org/_layout.ts",
		"org/$org/index.js",
		"org/$org/members.js",
	))

	if len(routes) != 1 || routes[0].Path != "/org" {
		t.Fatalf("paths = %v, want [/org]", routePaths(routes))
	}
	inner := routes[0].Routes
	if len(inner) != 1 || inner[0].Path != "/org/:org" || inner[0].Exact {
		t.Fatalf("inner = %v", routePaths(inner))
	}
	if inner[0].Component != "./src/pages/org/$org/_layout.ts" {
		t.Errorf("Component = %q", inner[0].Component)
	}
	want := []string{"/org/:org/members", "/org/:org/"}
	if got := routePaths(inner[0].Routes); !reflect.DeepEqual(got, want) {
		t.Errorf("leaves = %v, want %v", got, want)
	}
}

func TestDeriveIndexRouteFile(t *testing.T) {
	routes := derive(t, newProject(t,
		"settings/page.js",
		"settings/_layout.js",
		"settings/profile.js",
	))

	if len(routes) != 1 {
		t.Fatalf("got %d routes: %v", len(routes), routePaths(routes))
	}
	r := routes[0]
	if r.Path != "/settings" || !r.Exact || r.Routes != nil {
		t.Errorf("route = %+v", r)
	}
	if r.Component != "./src/pages/settings/page.js" {
		t.Errorf("Component = %q", r.Component)
	}
}

func TestDeriveIndexRouteFilePriority(t *testing.T) {
	routes := derive(t, newProject(t, "a/page.tsx", "a/page.ts", "b/page.jsx", "b/page.tsx"))

	byPath := map[string]string{}
	for _, r := range routes {
		byPath[r.Path] = r.Component
	}
	if byPath["/a"] != "./src/pages/a/page.ts" {
		t.Errorf("/a component = %q, want page.ts", byPath["/a"])
	}
	if byPath["/b"] != "./src/pages/b/page.jsx" {
		t.Errorf("/b component = %q, want page.jsx", byPath["/b"])
	}
}

func TestDeriveIndexRouteDirectoryNamedIndex(t *testing.T) {
	routes := derive(t, newProject(t, "docs/index/page.js"))

	if got := routePaths(routes); !reflect.DeepEqual(got, []string{"/docs/"}) {
		t.Errorf("paths = %v, want [/docs/]", got)
	}
}

func TestDeriveRouteConflict(t *testing.T) {
	paths := newProject(t, "about.js", "shop/bar.js", "shop/bar/page.js")

	routes, err := NewDeriver(DefaultConventions()).Derive(paths)
	if err == nil {
		t.Fatal("expected a route conflict")
	}
	if routes != nil {
		t.Errorf("routes = %v, want nil on conflict", routePaths(routes))
	}

	var conflict *RouteConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error %T is not a RouteConflictError: %v", err, err)
	}
	if conflict.File != "shop/bar.js" {
		t.Errorf("File = %q, want %q", conflict.File, "shop/bar.js")
	}
	if conflict.RouteFile != "shop/bar/page.js" {
		t.Errorf("RouteFile = %q, want %q", conflict.RouteFile, "shop/bar/page.js")
	}
	if conflict.Path != "/shop/bar" {
		t.Errorf("Path = %q, want %q", conflict.Path, "/shop/bar")
	}
	msg := err.Error()
	if !strings.Contains(msg, "shop/bar.js") || !strings.Contains(msg, "shop/bar/page.js") {
		t.Errorf("message %q should name both files", msg)
	}
}

func TestDeriveNoConflictForOtherExtensions(t *testing.T) {
	routes, err := NewDeriver(DefaultConventions()).Derive(newProject(t, "bar.tsx", "bar/page.js"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 2 {
		t.Errorf("got %d routes, want 2", len(routes))
	}
}

func TestDeriveNoConflictWithoutIndexRouteFile(t *testing.T) {
	routes := derive(t, newProject(t, "bar.js", "bar/index.js"))

	// Listing: bar, bar.js.
	want := []string{"/bar", "/bar/"}
	if got := routePaths(routes); !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestDeriveMissingPagesDir(t *testing.T) {
	root := t.TempDir()
	routes, err := NewDeriver(Conventions{}).Derive(Paths{
		Cwd:          root,
		AbsPagesPath: filepath.Join(root, "src", "pages"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if routes == nil || len(routes) != 0 {
		t.Errorf("routes = %#v, want empty non-nil", routes)
	}
}

func TestDeriveCustomConventions(t *testing.T) {
	paths := newProject(t,
		"home.vue",
		"home.js",
		"shop/route.vue",
		"blog/layout.vue",
		"blog/$slug.vue",
	)
	d := NewDeriver(Conventions{
		Extensions:       []string{".vue"},
		DefaultExtension: ".vue",
		IndexRouteFiles:  []string{"route.vue"},
		LayoutName:       "layout",
		LayoutFiles:      []string{"layout.vue"},
	})

	routes, err := d.Derive(paths)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/shop", "/home", "/blog"}
	if got := routePaths(routes); !reflect.DeepEqual(got, want) {
		t.Fatalf("paths = %v, want %v", got, want)
	}
	blog := routes[2]
	if blog.Component != "./src/pages/blog/layout.vue" {
		t.Errorf("blog layout = %q", blog.Component)
	}
	if got := routePaths(blog.Routes); !reflect.DeepEqual(got, []string{"/blog/:slug"}) {
		t.Errorf("blog children = %v", got)
	}
}

func TestDeriveComponentRelativeToCwd(t *testing.T) {
	paths := newProject(t, "a.js")
	paths.Cwd = filepath.Dir(paths.AbsPagesPath)

	routes := derive(t, paths)
	if routes[0].Component != "./pages/a.js" {
		t.Errorf("Component = %q, want %q", routes[0].Component, "./pages/a.js")
	}
}

func TestDeriveIsRepeatable(t *testing.T) {
	paths := newProject(t, "a.js", "$b.js", "c/_layout.js", "c/d.js")
	d := NewDeriver(DefaultConventions())

	first, err := d.Derive(paths)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Derive(paths)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated derivations differ")
	}
	first[0].Path = "/mutated"
	if second[0].Path == "/mutated" {
		t.Error("derivations share nodes")
	}
}
