package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/pageroutes/internal/errors"
	"github.com/vango-dev/pageroutes/pkg/routes"
)

func checkCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve and validate the route table",
		Long: `Resolve the route table and run structural checks on it.

The command fails on route conflicts, variable routes under exportStatic,
malformed route config files, duplicate sibling paths and nodes that are
neither a page nor a layout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := resolveProject(cmd.Context(), flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if err := routes.Validate(result.Routes); err != nil {
				return errors.FromRoutes(err)
			}

			if len(result.Routes) == 0 {
				warn(out, "No routes found")
				if result.Source == routes.SourcePagesDir {
					info(out, "Add page files to the pages directory")
				}
				return nil
			}

			success(out, "%d routes OK", routes.Count(result.Routes))
			if result.ConfigFile != "" {
				info(out, "Source: %s", result.ConfigFile)
			} else {
				info(out, "Source: pages directory")
			}
			return nil
		},
	}

	return cmd
}
