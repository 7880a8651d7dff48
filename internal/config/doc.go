// Package config provides configuration parsing for pageroutes projects.
//
// The configuration is stored in pageroutes.json at the project root.
// This package handles loading, saving, and validating configuration, and
// turns it into the inputs of routes.Resolve.
//
// # Configuration File Structure
//
//	{
//	  "paths": {
//	    "pages": "src/pages"
//	  },
//	  "exportStatic": {"htmlSuffix": true},
//	  "pages": {
//	    "/admin": {"Route": "./src/routes/PrivateRoute.js"}
//	  },
//	  "conventions": {
//	    "indexRouteFiles": ["page.js", "page.tsx"]
//	  },
//	  "dev": {
//	    "port": 8000,
//	    "interval": "250ms"
//	  },
//	  "publish": {
//	    "bucket": "my-site-routes",
//	    "prefix": "prod/",
//	    "region": "eu-west-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := routes.Resolve(ctx, cfg.RoutePaths(), cfg.RouteOptions())
package config
