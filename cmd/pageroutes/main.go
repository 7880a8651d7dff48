package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vango-dev/pageroutes/internal/config"
	"github.com/vango-dev/pageroutes/internal/errors"
	"github.com/vango-dev/pageroutes/pkg/routes"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(errors.FromRoutes(err))
		os.Exit(1)
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	dir     string
	noColor bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "pageroutes",
		Short: "Derive route tables from a pages directory",
		Long: `pageroutes turns a directory of page files into a nested route table.

File naming conventions:

  • index.js         → /
  • users.js         → /users
  • $id.js           → /:id
  • $id$.js          → /:id?
  • users/_layout.js → layout wrapping everything under /users
  • users/page.js    → /users, used instead of recursing into users/

A _routes.json file at the project root replaces the derived table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "Project directory (default: nearest parent with "+config.ConfigFileName+")")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		routesCmd(flags),
		checkCmd(flags),
		matchCmd(flags),
		serveCmd(flags),
		publishCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

// loadProject loads and validates the project configuration.
func loadProject(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.dir == "" {
		cfg, err = config.LoadFromWorkingDir()
	} else {
		var root string
		root, err = config.FindProjectRoot(flags.dir)
		if err == nil {
			cfg, err = config.Load(root)
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveProject loads the project and resolves its route table.
func resolveProject(ctx context.Context, flags *globalFlags) (*config.Config, *routes.Result, error) {
	cfg, err := loadProject(flags)
	if err != nil {
		return nil, nil, err
	}
	result, err := routes.Resolve(ctx, cfg.RoutePaths(), cfg.RouteOptions())
	if err != nil {
		return cfg, nil, errors.FromRoutes(err)
	}
	return cfg, result, nil
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	redFn  = color.New(color.FgRed).SprintFunc()
	faint  = color.New(color.FgHiBlack).SprintFunc()
)

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", green("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", yellow("⚠"), fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", redFn("✗"), fmt.Sprintf(format, args...))
}
