package routes

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/pageroutes/pkg/routes"

// Source identifies which producer built a route table.
type Source string

const (
	// SourceConfigFile means the routes came from a route config file.
	SourceConfigFile Source = "config"

	// SourcePagesDir means the routes were derived from the pages directory.
	SourcePagesDir Source = "pages"
)

// Options configures Resolve.
type Options struct {
	// Conventions override the deriver's file names. Empty fields use defaults.
	Conventions Conventions

	// RoutesConfigFiles are the route config names checked at Paths.Cwd.
	// Nil means DefaultRoutesConfigFiles; an empty slice disables the lookup.
	RoutesConfigFiles []string

	// ExportStatic enables static export checks.
	ExportStatic bool

	// HTMLSuffix enables the ".html" rewrite under ExportStatic.
	HTMLSuffix bool

	// Pages is the per-path page configuration used for meta injection.
	Pages map[string]PageConfig

	// Tracer overrides the global OpenTelemetry tracer.
	Tracer trace.Tracer
}

// Result is a resolved route table.
type Result struct {
	Routes []*RouteNode `json:"routes"`
	Source Source       `json:"source"`

	// ConfigFile is the route config file used, if any.
	ConfigFile string `json:"configFile,omitempty"`
}

// Resolve builds the route table for a project: from a route config file when
// one exists at paths.Cwd, otherwise from the pages directory. The patch pass
// runs on either result; meta injection only applies to derived routes.
func Resolve(ctx context.Context, paths Paths, opts Options) (*Result, error) {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	_, span := tracer.Start(ctx, "routes.Resolve", trace.WithAttributes(
		attribute.String("pageroutes.pages_dir", paths.AbsPagesPath),
		attribute.Bool("pageroutes.export_static", opts.ExportStatic),
	))
	defer span.End()

	result, err := resolve(paths, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("pageroutes.source", string(result.Source)),
		attribute.Int("pageroutes.route_count", Count(result.Routes)),
	)
	return result, nil
}

func resolve(paths Paths, opts Options) (*Result, error) {
	configFile, err := FindRoutesConfig(paths.Cwd, opts.RoutesConfigFiles)
	if err != nil {
		return nil, err
	}

	result := &Result{ConfigFile: configFile}
	if configFile != "" {
		result.Source = SourceConfigFile
		result.Routes, err = LoadRoutesConfig(configFile)
	} else {
		result.Source = SourcePagesDir
		result.Routes, err = NewDeriver(opts.Conventions).Derive(paths)
	}
	if err != nil {
		return nil, err
	}

	err = Patch(result.Routes, PatchOptions{
		ExportStatic: opts.ExportStatic,
		HTMLSuffix:   opts.HTMLSuffix,
		PatchMeta:    result.Source == SourcePagesDir,
		Pages:        opts.Pages,
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
