package routes

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Conventions are the file names the deriver recognizes.
// Lookup lists are ordered; the first existing file wins.
type Conventions struct {
	// Extensions are the page-capable file extensions, with the leading dot.
	Extensions []string

	// DefaultExtension is used for the directory/file conflict check.
	DefaultExtension string

	// IndexRouteFiles mark a directory as a single route (e.g., "page.js").
	IndexRouteFiles []string

	// LayoutName is the base name reserved for layouts.
	LayoutName string

	// LayoutFiles are the layout candidates, most preferred first.
	LayoutFiles []string
}

// DefaultConventions returns the stock JavaScript/TypeScript conventions.
func DefaultConventions() Conventions {
	return Conventions{
		Extensions:       []string{".js", ".jsx", ".ts", ".tsx"},
		DefaultExtension: ".js",
		IndexRouteFiles:  []string{"page.js", "page.ts", "page.jsx", "page.tsx"},
		LayoutName:       "_layout",
		LayoutFiles:      []string{"_layout.tsx", "_layout.ts", "_layout.jsx", "_layout.js"},
	}
}

// WithDefaults fills empty fields from DefaultConventions.
func (c Conventions) WithDefaults() Conventions {
	def := DefaultConventions()
	if len(c.Extensions) == 0 {
		c.Extensions = def.Extensions
	}
	if c.DefaultExtension == "" {
		c.DefaultExtension = def.DefaultExtension
	}
	if c.IndexRouteFiles == nil {
		c.IndexRouteFiles = def.IndexRouteFiles
	}
	if c.LayoutName == "" {
		c.LayoutName = def.LayoutName
	}
	if len(c.LayoutFiles) == 0 {
		c.LayoutFiles = make([]string, 0, len(c.Extensions))
		for _, ext := range layoutPreference(c.Extensions) {
			c.LayoutFiles = append(c.LayoutFiles, c.LayoutName+ext)
		}
	}
	return c
}

// layoutPreference orders extensions the way the stock layout list does:
// last recognized extension first.
func layoutPreference(exts []string) []string {
	out := slices.Clone(exts)
	slices.Reverse(out)
	return out
}

// Validate checks that the conventions are usable.
func (c Conventions) Validate() error {
	if len(c.Extensions) == 0 {
		return fmt.Errorf("conventions: no page extensions")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("conventions: extension %q must start with a dot", ext)
		}
	}
	if !c.IsPageExtension(c.DefaultExtension) {
		return fmt.Errorf("conventions: default extension %q is not a page extension", c.DefaultExtension)
	}
	if c.LayoutName == "" {
		return fmt.Errorf("conventions: empty layout name")
	}
	for _, name := range c.LayoutFiles {
		ext := filepath.Ext(name)
		if strings.TrimSuffix(name, ext) != c.LayoutName || !c.IsPageExtension(ext) {
			return fmt.Errorf("conventions: layout file %q must be %s with a page extension", name, c.LayoutName)
		}
	}
	for _, name := range c.IndexRouteFiles {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("conventions: index route file %q must be a plain file name", name)
		}
	}
	return nil
}

// IsPageExtension reports whether ext is one of the recognized extensions.
func (c Conventions) IsPageExtension(ext string) bool {
	return slices.Contains(c.Extensions, ext)
}
