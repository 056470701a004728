// Package graph renders the routing table as diagrams.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/agentcore/internal/workflow"
)

// GenerateMermaid produces a Mermaid flowchart of the routing table.
// It applies semantic styling:
// - Task entry and the fallback: ((Circle))
// - Workflow: [Rectangle]
// - Tool step: [[Subroutine]]
// - Reasoning step: {{Hexagon}}
// - Extraction step: [/Parallelogram/]
// Steps chain in execution order; routes are tried in priority order.
func GenerateMermaid(routes []workflow.Route) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    task((\"task\"))\n")

	for _, r := range routes {
		wfID := "wf_" + sanitizeMermaidID(r.Priority)
		label := strings.ReplaceAll(r.Match, "\"", "'")
		fmt.Fprintf(&sb, "    task -- \"%s: %s\" --> %s[\"%s\"]\n", r.Priority, label, wfID, r.Workflow)

		prev := wfID
		for i, step := range r.Steps {
			stepID := fmt.Sprintf("%s_s%d", wfID, i+1)
			opener, closer := stepShape(step)
			fmt.Fprintf(&sb, "    %s --> %s%s\"%s\"%s\n", prev, stepID, opener, strings.ReplaceAll(step, "\"", "'"), closer)
			prev = stepID
		}
	}

	sb.WriteString("    task -. \"no match\" .-> unknown((\"" + workflow.UnknownWorkflowMessage + "\"))\n")
	return sb.String()
}

// stepShape picks the node shape from the step's rendered form.
func stepShape(step string) (string, string) {
	_, call, _ := strings.Cut(step, " = ")
	switch {
	case strings.HasPrefix(call, "reason("):
		return "{{", "}}"
	case strings.Contains(step, " <- "):
		return "[/", "/]"
	default:
		return "[[", "]]"
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
