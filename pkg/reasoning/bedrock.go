package reasoning

import (
	"context"

	"github.com/aretw0/agentcore/pkg/adapters/aws"
)

// Bedrock generates text with a Titan model on Amazon Bedrock.
type Bedrock struct {
	api     aws.BedrockAPI
	modelID string
}

// NewBedrock wraps a Bedrock runtime client.
func NewBedrock(api aws.BedrockAPI, modelID string) *Bedrock {
	if modelID == "" {
		modelID = aws.DefaultModelID
	}
	return &Bedrock{api: api, modelID: modelID}
}

func (b *Bedrock) Name() string { return "Bedrock" }

func (b *Bedrock) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return aws.InvokeTitan(ctx, b.api, b.modelID, prompt, maxTokens)
}
