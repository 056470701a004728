package aws

import (
	"context"
	"encoding/json"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aretw0/agentcore/pkg/domain"
	"github.com/aretw0/agentcore/pkg/registry"
)

const (
	defaultBedrockTokens = 100
	maxBedrockTokens     = 100
)

type toolset struct {
	clients *Clients
	modelID string
}

// Tools returns the AWS tool table bound to clients. The descriptors are valid even when
// clients is nil; the handlers are only reached once the session is ready.
func Tools(clients *Clients, opts Options) []registry.Tool {
	opts = opts.withDefaults()
	ts := &toolset{clients: clients, modelID: opts.ModelID}

	return []registry.Tool{
		{
			Descriptor: domain.ToolDescriptor{
				Name:        "list_s3_buckets",
				Description: "List all S3 buckets",
			},
			Handler: ts.listS3Buckets,
		},
		{
			Descriptor: domain.ToolDescriptor{
				Name:        "invoke_bedrock_model",
				Description: "Invoke Bedrock model for AI tasks",
				InputSchema: domain.InputSchema{
					Properties: map[string]domain.Property{
						"prompt":     {Type: "string", Description: "Text prompt for the model"},
						"max_tokens": {Type: "integer", Description: "Maximum tokens to generate", Default: defaultBedrockTokens},
					},
					Required: []string{"prompt"},
				},
			},
			Handler: ts.invokeBedrock,
		},
		{
			Descriptor: domain.ToolDescriptor{
				Name:        "list_glue_jobs",
				Description: "List all AWS Glue ETL jobs",
			},
			Handler: ts.listGlueJobs,
		},
		{
			Descriptor: domain.ToolDescriptor{
				Name:        "start_glue_job",
				Description: "Start an AWS Glue ETL job",
				InputSchema: domain.InputSchema{
					Properties: map[string]domain.Property{
						"job_name": {Type: "string", Description: "Name of the Glue job to start"},
					},
					Required: []string{"job_name"},
				},
			},
			Handler: ts.startGlueJob,
		},
		{
			Descriptor: domain.ToolDescriptor{
				Name:        "get_glue_job_status",
				Description: "Get status of a Glue job run",
				InputSchema: domain.InputSchema{
					Properties: map[string]domain.Property{
						"job_name": {Type: "string", Description: "Name of the Glue job"},
						"run_id":   {Type: "string", Description: "Job run ID"},
					},
					Required: []string{"job_name", "run_id"},
				},
			},
			Handler: ts.getGlueJobStatus,
		},
	}
}

func (ts *toolset) listS3Buckets(ctx context.Context, _ map[string]any) domain.ToolResult {
	out, err := ts.clients.S3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return domain.Failf(domain.KindBackend, "S3 error: %v", err)
	}
	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		names = append(names, awssdk.ToString(b.Name))
	}
	encoded, err := json.Marshal(names)
	if err != nil {
		return domain.Failf(domain.KindBackend, "S3 error: %v", err)
	}
	return domain.Text("S3 Buckets: " + string(encoded))
}

func (ts *toolset) invokeBedrock(ctx context.Context, args map[string]any) domain.ToolResult {
	prompt, err := registry.StringArg(args, "prompt")
	if err != nil {
		return domain.Failf(domain.KindInvalidRequest, "Bedrock error: %v", err)
	}
	maxTokens, err := registry.IntArg(args, "max_tokens", defaultBedrockTokens)
	if err != nil {
		return domain.Failf(domain.KindInvalidRequest, "Bedrock error: %v", err)
	}
	maxTokens = min(maxTokens, maxBedrockTokens)

	text, err := InvokeTitan(ctx, ts.clients.Bedrock, ts.modelID, prompt, maxTokens)
	if err != nil {
		return domain.Failf(domain.KindBackend, "Bedrock error: %v", err)
	}
	return domain.Text(text)
}

type glueJob struct {
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	Created      *string `json:"created"`
	LastModified *string `json:"last_modified"`
}

func (ts *toolset) listGlueJobs(ctx context.Context, _ map[string]any) domain.ToolResult {
	out, err := ts.clients.Glue.GetJobs(ctx, &glue.GetJobsInput{})
	if err != nil {
		return domain.Failf(domain.KindBackend, "Glue error: %v", err)
	}
	jobs := make([]glueJob, 0, len(out.Jobs))
	for _, j := range out.Jobs {
		jobs = append(jobs, glueJob{
			Name:         awssdk.ToString(j.Name),
			Role:         awssdk.ToString(j.Role),
			Created:      timestamp(j.CreatedOn),
			LastModified: timestamp(j.LastModifiedOn),
		})
	}
	return jsonText("Glue error", jobs)
}

func (ts *toolset) startGlueJob(ctx context.Context, args map[string]any) domain.ToolResult {
	jobName, err := registry.StringArg(args, "job_name")
	if err != nil {
		return domain.Failf(domain.KindInvalidRequest, "Glue job start error: %v", err)
	}
	out, err := ts.clients.Glue.StartJobRun(ctx, &glue.StartJobRunInput{JobName: awssdk.String(jobName)})
	if err != nil {
		return domain.Failf(domain.KindBackend, "Glue job start error: %v", err)
	}
	return jsonText("Glue job start error", map[string]any{
		"job_name": jobName,
		"run_id":   awssdk.ToString(out.JobRunId),
		"status":   "STARTING",
	})
}

func (ts *toolset) getGlueJobStatus(ctx context.Context, args map[string]any) domain.ToolResult {
	jobName, err := registry.StringArg(args, "job_name")
	if err != nil {
		return domain.Failf(domain.KindInvalidRequest, "Glue job status error: %v", err)
	}
	runID, err := registry.StringArg(args, "run_id")
	if err != nil {
		return domain.Failf(domain.KindInvalidRequest, "Glue job status error: %v", err)
	}
	out, err := ts.clients.Glue.GetJobRun(ctx, &glue.GetJobRunInput{
		JobName: awssdk.String(jobName),
		RunId:   awssdk.String(runID),
	})
	if err != nil {
		return domain.Failf(domain.KindBackend, "Glue job status error: %v", err)
	}
	run := out.JobRun
	if run == nil {
		return domain.Failf(domain.KindBackend, "Glue job status error: run %s not found", runID)
	}
	return jsonText("Glue job status error", map[string]any{
		"job_name":       jobName,
		"run_id":         runID,
		"state":          string(run.JobRunState),
		"started_on":     timestamp(run.StartedOn),
		"completed_on":   timestamp(run.CompletedOn),
		"execution_time": run.ExecutionTime,
	})
}

func jsonText(category string, v any) domain.ToolResult {
	res, err := domain.JSONText(v)
	if err != nil {
		return domain.Failf(domain.KindBackend, "%s: %v", category, err)
	}
	return res
}

func timestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
