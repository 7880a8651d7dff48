package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pageroutes/internal/errors"
	"github.com/vango-dev/pageroutes/pkg/routes"
)

func matchCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <url>",
		Short: "Show which route a URL resolves to",
		Long: `Resolve the route table and show the layouts and page a URL matches.

Examples:
  pageroutes match /users/42
  pageroutes match "/search?q=shoes"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := resolveProject(cmd.Context(), flags)
			if err != nil {
				return err
			}

			url := args[0]
			m, ok := routes.Match(result.Routes, url)
			if !ok {
				return errors.New("E130").
					WithDetail("No route matches " + url).
					WithSuggestion("Run `pageroutes routes --tree` to list the available routes")
			}

			out := cmd.OutOrStdout()
			success(out, "%s", url)
			for i, n := range m.Chain {
				kind := "page"
				if n.IsLayout() {
					kind = "layout"
				}
				fmt.Fprintf(out, "  %*s%s %s %s\n", i*2, "", n.Path, faint(kind), n.Component)
			}
			if m.Leaf().IsLayout() {
				warn(out, "Only the layout %s matched; none of its children did", m.Leaf().Path)
			}

			if len(m.Params) > 0 {
				names := make([]string, 0, len(m.Params))
				for name := range m.Params {
					names = append(names, name)
				}
				sort.Strings(names)
				fmt.Fprintln(out)
				for _, name := range names {
					info(out, "%s = %s", name, m.Params[name])
				}
			}
			return nil
		},
	}

	return cmd
}
