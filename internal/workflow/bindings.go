package workflow

import "strconv"

// Provider ids used by the shipped bindings.
const (
	ServerAWS      = "aws"
	ServerCustom   = "custom"
	ServerDatabase = "database"
	ServerK8s      = "k8s"
)

// Binding routes tasks that satisfy Matcher either to Template or, when Branches is set,
// to the first matching branch.
type Binding struct {
	Matcher  Matcher
	Template *Template
	Branches []Binding
}

// DefaultBindings returns the shipped routing table in priority order.
// Keywords overlap, so order is part of the contract: "glue" tasks check "start" before
// falling back to the job listing, and "kubernetes"/"k8s" tasks check scale, status,
// pods and troubleshoot in that order.
func DefaultBindings() []Binding {
	return []Binding{
		{
			Matcher: Keywords("bedrock"),
			Template: &Template{
				Name: "bedrock_test",
				Steps: []Step{
					ReasonParam("invoke", "prompt", "Hello from Agent Core!"),
				},
			},
		},
		{
			Matcher: Keywords("s3"),
			Template: &Template{
				Name: "s3_list",
				Steps: []Step{
					ToolCall("list_buckets", ServerAWS, "list_s3_buckets"),
				},
			},
		},
		{
			Matcher: Keywords("weather"),
			Template: &Template{
				Name: "weather_analysis",
				Steps: []Step{
					ToolCall("get_weather", ServerCustom, "get_weather",
						Param("city", "city", "San Francisco")),
					Reason("ai_analysis", "Analyze this weather: ", "get_weather"),
					ToolCall("store_result", ServerCustom, "store_data",
						Format("key", "weather_%v", "city", "San Francisco"),
						Output("value", "ai_analysis")),
				},
			},
		},
		{
			Matcher: Keywords("database"),
			Template: &Template{
				Name: "database_query",
				Steps: []Step{
					ToolCall("execute_query", ServerDatabase, "execute_query",
						Param("query", "query", "SELECT * FROM users")),
				},
			},
		},
		{
			Matcher: Keywords("kubernetes", "k8s"),
			Branches: []Binding{
				{
					Matcher: Keywords("scale"),
					Template: &Template{
						Name: "k8s_scale",
						Steps: []Step{
							ToolCall("scale_deployment", ServerK8s, "scale_deployment",
								Param("deployment_name", "deployment_name", "agent-core"),
								Param("replicas", "replicas", 3)),
						},
					},
				},
				{
					Matcher: Keywords("status", "health"),
					Template: &Template{
						Name: "k8s_health_check",
						Steps: []Step{
							ToolCall("get_status", ServerK8s, "get_cluster_status"),
							Reason("ai_analysis", "Analyze this Kubernetes cluster status: ", "get_status"),
						},
					},
				},
				{
					Matcher: Keywords("pods"),
					Template: &Template{
						Name: "k8s_list_pods",
						Steps: []Step{
							ToolCall("list_pods", ServerK8s, "list_pods",
								Param("namespace", "namespace", "default")),
						},
					},
				},
				{
					Matcher: Keywords("troubleshoot"),
					Template: &Template{
						Name: "k8s_troubleshoot",
						Requires: []Requirement{
							{Param: "pod_name", Message: "pod_name required for troubleshooting"},
						},
						Steps: []Step{
							ToolCall("analyze_pod", ServerK8s, "troubleshoot_pod",
								Param("pod_name", "pod_name", nil)),
							Reason("ai_recommendations", "Provide troubleshooting recommendations: ", "analyze_pod"),
						},
					},
				},
				{
					Matcher: Always(),
					Template: &Template{
						Name: "k8s_general",
						Steps: []Step{
							ToolCall("get_status", ServerK8s, "get_cluster_status"),
						},
					},
				},
			},
		},
		{
			Matcher: Keywords("glue"),
			Branches: []Binding{
				{
					Matcher: Keywords("start"),
					Template: &Template{
						Name: "glue_job_execution",
						Steps: []Step{
							ToolCall("start_job", ServerAWS, "start_glue_job",
								Param("job_name", "job_name", "my-etl-job")),
							Extract("start_job", "run_id", "run_id"),
							ToolCall("check_status", ServerAWS, "get_glue_job_status",
								Param("job_name", "job_name", "my-etl-job"),
								Var("run_id", "run_id")),
							Reason("ai_analysis", "Analyze this Glue job execution: ", "check_status"),
						},
					},
				},
				{
					Matcher: Always(),
					Template: &Template{
						Name: "glue_jobs_analysis",
						Steps: []Step{
							ToolCall("list_jobs", ServerAWS, "list_glue_jobs"),
							Reason("ai_analysis", "Analyze these Glue jobs and suggest optimizations: ", "list_jobs"),
						},
					},
				},
			},
		},
	}
}

// Route is one flattened row of the routing table.
type Route struct {
	Priority string
	Match    string
	Workflow string
	Steps    []string
}

// Routes flattens bindings into priority order, numbering nested branches 5.a, 5.b, ...
func Routes(bindings []Binding) []Route {
	var out []Route
	for i, b := range bindings {
		out = appendRoutes(out, b, strconv.Itoa(i+1), b.Matcher.String())
	}
	return out
}

func appendRoutes(out []Route, b Binding, priority, match string) []Route {
	if b.Template != nil {
		steps := make([]string, 0, len(b.Template.Steps))
		for _, s := range b.Template.Steps {
			steps = append(steps, s.String())
		}
		return append(out, Route{Priority: priority, Match: match, Workflow: b.Template.Name, Steps: steps})
	}
	for j, br := range b.Branches {
		out = appendRoutes(out, br, priority+"."+string(rune('a'+j)), match+" & "+br.Matcher.String())
	}
	return out
}
