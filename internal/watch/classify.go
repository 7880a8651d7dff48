package watch

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vango-dev/pageroutes/internal/config"
	"github.com/vango-dev/pageroutes/pkg/routes"
)

// ChangeType represents what a changed file means for the route table.
type ChangeType int

const (
	// ChangeOther is a file that does not affect routes.
	ChangeOther ChangeType = iota
	// ChangePage is a page file or index route file in the pages directory.
	// Index route files count even without a page extension.
	ChangePage
	// ChangeLayout is a layout file in the pages directory.
	ChangeLayout
	// ChangeRoutesConfig is a route config file such as _routes.json.
	ChangeRoutesConfig
	// ChangeProjectConfig is pageroutes.json.
	ChangeProjectConfig
)

func (t ChangeType) String() string {
	switch t {
	case ChangePage:
		return "page"
	case ChangeLayout:
		return "layout"
	case ChangeRoutesConfig:
		return "routes-config"
	case ChangeProjectConfig:
		return "project-config"
	}
	return "other"
}

// AffectsRoutes reports whether a change of this type can alter the table.
func (t ChangeType) AffectsRoutes() bool {
	return t != ChangeOther
}

// Classifier maps paths to change types.
type Classifier struct {
	PagesDir      string
	Conventions   routes.Conventions
	RoutesConfigs []string
	ProjectConfig string
}

// ClassifierFor builds the classifier for a loaded project.
func ClassifierFor(cfg *config.Config) *Classifier {
	return &Classifier{
		PagesDir:      cfg.PagesPath(),
		Conventions:   cfg.RouteConventions().WithDefaults(),
		RoutesConfigs: routesConfigPaths(cfg),
		ProjectConfig: cfg.Path(),
	}
}

// Classify returns the change type for path.
func (c *Classifier) Classify(p string) ChangeType {
	clean := filepath.Clean(p)
	if c.ProjectConfig != "" && clean == filepath.Clean(c.ProjectConfig) {
		return ChangeProjectConfig
	}
	for _, rc := range c.RoutesConfigs {
		if clean == filepath.Clean(rc) {
			return ChangeRoutesConfig
		}
	}

	rel, err := filepath.Rel(c.PagesDir, clean)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ChangeOther
	}

	name := filepath.Base(clean)
	if strings.HasPrefix(name, ".") {
		return ChangeOther
	}
	for _, layout := range c.Conventions.LayoutFiles {
		if name == layout {
			return ChangeLayout
		}
	}
	for _, index := range c.Conventions.IndexRouteFiles {
		if name == index {
			return ChangePage
		}
	}
	if c.Conventions.IsPageExtension(filepath.Ext(name)) {
		return ChangePage
	}
	return ChangeOther
}

// CollectPaths returns the normalized list of paths to watch for a project:
// the pages directory, pageroutes.json and the route config files.
func CollectPaths(cfg *config.Config) []string {
	paths := []string{cfg.PagesPath()}
	if cfg.Path() != "" {
		paths = append(paths, cfg.Path())
	}
	paths = append(paths, routesConfigPaths(cfg)...)

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		clean := filepath.Clean(p)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}
	return unique
}

func routesConfigPaths(cfg *config.Config) []string {
	names := cfg.RoutesConfigFiles
	if names == nil {
		names = routes.DefaultRoutesConfigFiles
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(cfg.Dir(), name))
	}
	return out
}

// Summarize returns the distinct change types in a batch, in type order.
func Summarize(changes []Change) []ChangeType {
	seen := make(map[ChangeType]bool)
	var types []ChangeType
	for _, c := range changes {
		if !seen[c.Type] {
			seen[c.Type] = true
			types = append(types, c.Type)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// AffectsRoutes reports whether any change in the batch can alter the table.
func AffectsRoutes(changes []Change) bool {
	for _, c := range changes {
		if c.Type.AffectsRoutes() {
			return true
		}
	}
	return false
}

func sortChanges(changes []Change) {
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
}

// shouldIgnore checks if a path matches one of the ignore patterns.
func shouldIgnore(patterns []string, fullPath string) bool {
	name := filepath.Base(fullPath)
	normalized := filepath.ToSlash(fullPath)

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}

		hasPathSep := strings.ContainsAny(pattern, `/\`)
		if strings.ContainsAny(pattern, "*?[") {
			var matched bool
			if hasPathSep {
				matched, _ = path.Match(filepath.ToSlash(pattern), normalized)
			} else {
				matched, _ = filepath.Match(pattern, name)
			}
			if matched {
				return true
			}
			continue
		}

		if hasPathSep {
			if containsSegments(normalized, filepath.ToSlash(pattern)) {
				return true
			}
			continue
		}
		if containsSegments(normalized, pattern) {
			return true
		}
	}

	return false
}

// containsSegments reports whether the segments of pattern appear
// consecutively in p.
func containsSegments(p, pattern string) bool {
	parts := splitSegments(p)
	want := splitSegments(pattern)
	if len(want) == 0 || len(want) > len(parts) {
		return false
	}
	for i := 0; i <= len(parts)-len(want); i++ {
		match := true
		for j := range want {
			if parts[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func splitSegments(p string) []string {
	var out []string
	for _, part := range strings.Split(p, "/") {
		if part != "" && part != "." {
			out = append(out, part)
		}
	}
	return out
}
