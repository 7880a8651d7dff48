package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E109)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No pageroutes.json was found in the current directory or any parent directory.",
		DocURL:   "https://pageroutes.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "pageroutes.json could not be read or is not valid JSON.",
		DocURL:   "https://pageroutes.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or inconsistent.",
		DocURL:   "https://pageroutes.dev/docs/errors/E102",
	},

	// ============================================
	// Route Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryRoutes,
		Message:  "Route conflict",
		Detail:   "A page file and a directory with an index route file resolve to the same route.",
		DocURL:   "https://pageroutes.dev/docs/errors/E110",
	},
	"E111": {
		Category: CategoryExport,
		Message:  "Variable path with exportStatic",
		Detail:   "Static export writes one HTML file per route, so routes with variable segments cannot be exported.",
		DocURL:   "https://pageroutes.dev/docs/errors/E111",
	},
	"E112": {
		Category: CategoryRoutes,
		Message:  "Invalid route config file",
		Detail:   "The route config file must contain a JSON array of routes.",
		DocURL:   "https://pageroutes.dev/docs/errors/E112",
	},
	"E113": {
		Category: CategoryRoutes,
		Message:  "Route validation failed",
		Detail:   "The route table contains duplicate or malformed routes.",
		DocURL:   "https://pageroutes.dev/docs/errors/E113",
	},
	"E114": {
		Category: CategoryRoutes,
		Message:  "Pages directory unreadable",
		Detail:   "A file or directory under the pages directory could not be read.",
		DocURL:   "https://pageroutes.dev/docs/errors/E114",
	},

	// ============================================
	// Publish Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryPublish,
		Message:  "Publish failed",
		Detail:   "The route manifest could not be uploaded.",
		DocURL:   "https://pageroutes.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryPublish,
		Message:  "Publish not configured",
		Detail:   "No bucket is configured for publishing the route manifest.",
		DocURL:   "https://pageroutes.dev/docs/errors/E121",
	},

	// ============================================
	// CLI Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryCLI,
		Message:  "No route matched",
		Detail:   "No route in the table matches the given URL.",
		DocURL:   "https://pageroutes.dev/docs/errors/E130",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
