package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/agentcore/pkg/observability"
)

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Execute one workflow and print the JSON result",
	Example: `  agentcore exec --task "weather analysis" --param city=Austin
  agentcore exec --task "start glue job" --param job_name=nightly-etl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		task, _ := cmd.Flags().GetString("task")
		params, _ := cmd.Flags().GetStringArray("param")

		raw, err := buildRequest(task, params)
		if err != nil {
			return err
		}

		in, _, err := newInterpreter(cmd.Context(), cfg, observability.NewMetrics(), logger)
		if err != nil {
			return err
		}
		result := in.ExecuteRaw(cmd.Context(), raw)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// buildRequest assembles a workflow request from --param key=value pairs. Values that parse
// as JSON keep their JSON type; anything else is a string.
func buildRequest(task string, params []string) (map[string]any, error) {
	raw := map[string]any{"task": task}
	for _, p := range params {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", p)
		}
		if key == "task" {
			return nil, fmt.Errorf("use --task to set the task")
		}
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
		raw[key] = v
	}
	return raw, nil
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().String("task", "", "Task description used for routing")
	execCmd.Flags().StringArray("param", nil, "Workflow parameter as key=value (repeatable)")
	_ = execCmd.MarkFlagRequired("task")
}
