package routes

import (
	"strings"
)

// VariablePath converts a logical file path into a route pattern.
// Separators become forward slashes, and in each segment a leading "$" becomes
// ":" and a trailing "$" becomes "?":
//
//	users/$id     → users/:id
//	opt$          → opt?
//	$id$          → :id?
func VariablePath(p string) string {
	segments := strings.Split(toSlash(p), "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, "$") {
			seg = ":" + seg[1:]
		}
		if strings.HasSuffix(seg, "$") {
			seg = seg[:len(seg)-1] + "?"
		}
		segments[i] = seg
	}
	return strings.Join(segments, "/")
}

// IsVariableName reports whether a raw directory entry name produces a variable
// route segment.
func IsVariableName(name string) bool {
	return strings.HasPrefix(name, "$")
}

// routePath builds "/<logical>" with variables translated.
func routePath(logical string) string {
	return toSlash("/" + VariablePath(logical))
}

// stripIndex turns a trailing "/index" segment into "/".
func stripIndex(p string) string {
	if strings.HasSuffix(p, "/index") {
		return strings.TrimSuffix(p, "index")
	}
	return p
}

// filePath applies both index rules used for page files.
func filePath(logical string) string {
	p := routePath(logical)
	if p == "/index/index" {
		return "/"
	}
	return stripIndex(p)
}

// toSlash converts backslashes on every OS, not only on Windows.
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
