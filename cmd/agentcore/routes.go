package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/agentcore/internal/presentation/graph"
	"github.com/aretw0/agentcore/internal/presentation/tui"
	"github.com/aretw0/agentcore/internal/workflow"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the routing table in priority order",
	Long: `Prints the ordered routing table. The first row whose match succeeds selects the workflow.

Formats:
- table (default): aligned columns.
- markdown: a Markdown table, rendered for the terminal when stdout is one.
- mermaid: a Mermaid flowchart (graph TD) of routes and their steps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		routes := workflow.Routes(workflow.DefaultBindings())
		out := cmd.OutOrStdout()

		switch format {
		case "table":
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PRIORITY\tMATCH\tWORKFLOW\tSTEPS")
			for _, r := range routes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Priority, r.Match, r.Workflow, strings.Join(r.Steps, " -> "))
			}
			return w.Flush()
		case "markdown":
			md := graph.GenerateMarkdown(routes)
			if out == os.Stdout && tui.IsTerminal(os.Stdout) {
				render, err := tui.NewRenderer()
				if err != nil {
					return err
				}
				if md, err = render(md); err != nil {
					return err
				}
			}
			_, err := fmt.Fprint(out, md)
			return err
		case "mermaid":
			_, err := fmt.Fprint(out, graph.GenerateMermaid(routes))
			return err
		default:
			return fmt.Errorf("unknown format %q (supported: table, markdown, mermaid)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
	routesCmd.Flags().String("format", "table", "Output format: 'table', 'markdown' or 'mermaid'")
}
