// Package routes derives a route table from a directory of page files.
//
// The route table is an ordered, possibly nested list of RouteNode values that a
// router generator turns into client-side routing code. Routes come from one of
// two producers:
//   - A route config file (_routes.json) at the project root, loaded as-is
//   - The pages directory, walked with file-system naming conventions
//
// # File Structure Convention
//
//	src/pages/
//	├── index.js           → /
//	├── about.js           → /about
//	├── $id.js             → /:id
//	├── users/
//	│   ├── _layout.tsx    → layout for /users (exact: false)
//	│   ├── index.js       → /users/
//	│   └── $id$.js        → /users/:id?
//	└── settings/
//	    └── page.js        → /settings (the directory is one route)
//
// Static routes are ordered before variable routes within each level so that a
// first-match router prefers literal paths.
//
// # Usage
//
//	result, err := routes.Resolve(ctx, routes.Paths{
//	    Cwd:          root,
//	    AbsPagesPath: filepath.Join(root, "src/pages"),
//	}, routes.Options{})
//	if err != nil {
//	    return err
//	}
//
//	for _, r := range result.Routes {
//	    fmt.Println(r.Path, r.Component)
//	}
package routes
