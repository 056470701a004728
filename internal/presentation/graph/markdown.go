package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/agentcore/internal/workflow"
)

// GenerateMarkdown renders the routing table as a Markdown table.
func GenerateMarkdown(routes []workflow.Route) string {
	var sb strings.Builder
	sb.WriteString("# Routing table\n\n")
	sb.WriteString("| Priority | Match | Workflow | Steps |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, r := range routes {
		steps := make([]string, len(r.Steps))
		for i, s := range r.Steps {
			steps[i] = "`" + s + "`"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n",
			r.Priority, escapeCell(r.Match), r.Workflow, escapeCell(strings.Join(steps, " → ")))
	}
	fmt.Fprintf(&sb, "\nAnything else: `%s`.\n", workflow.UnknownWorkflowMessage)
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
