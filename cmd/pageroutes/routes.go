package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pageroutes/pkg/routes"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	var (
		output  string
		compact bool
		tree    bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Long: `Resolve the route table and print it as JSON.

Examples:
  pageroutes routes
  pageroutes routes -o dist/routes.json
  pageroutes routes --tree`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := resolveProject(cmd.Context(), flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if tree {
				printTree(out, result.Routes)
				return nil
			}

			var data []byte
			if compact {
				data, err = json.Marshal(result.Routes)
			} else {
				data, err = json.MarshalIndent(result.Routes, "", "  ")
			}
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if output == "" {
				_, err = out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			success(out, "Wrote %d routes to %s (source: %s)", routes.Count(result.Routes), output, result.Source)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the table to a file instead of stdout")
	cmd.Flags().BoolVar(&compact, "compact", false, "Print compact JSON")
	cmd.Flags().BoolVar(&tree, "tree", false, "Print an indented tree instead of JSON")

	return cmd
}

// printTree prints one line per route, children indented under layouts.
func printTree(w io.Writer, nodes []*routes.RouteNode) {
	routes.Walk(nodes, func(n *routes.RouteNode, depth int) error {
		indent := strings.Repeat("  ", depth)
		kind := "page"
		if n.IsLayout() {
			kind = "layout"
		}
		fmt.Fprintf(w, "%s%-24s %s %s\n", indent, n.Path, faint(kind), n.Component)
		return nil
	})
}
