// Package errors provides structured, actionable error messages for pageroutes.
//
// Every error has a code (e.g., "E110") that maps to a category, a short
// message, a longer explanation and a documentation URL. Errors from the routes
// package are converted with FromRoutes so the CLI can print the files involved
// and a hint on how to fix them.
//
// # Usage
//
//	err := errors.New("E101").
//	    WithLocation("pageroutes.json", 4, 12).
//	    WithSuggestion("Check that pageroutes.json is valid JSON")
//
//	fmt.Print(err.Format())
//	// Output:
//	// ✗ E101 Invalid configuration file
//	//   --> pageroutes.json:4:12
//	//    |
//	//  3 |   "paths": {
//	//  4 |     "pages": src/pages
//	//    |            ^
//	//  5 |   }
//	//    |
//	//
//	//   hint: Check that pageroutes.json is valid JSON
//	//   docs: https://pageroutes.dev/docs/errors/E101
package errors
