package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type titanRequest struct {
	InputText            string          `json:"inputText"`
	TextGenerationConfig titanGeneration `json:"textGenerationConfig"`
}

type titanGeneration struct {
	MaxTokenCount int `json:"maxTokenCount"`
}

type titanResponse struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

// InvokeTitan runs a single Titan text-generation request and returns the first output.
func InvokeTitan(ctx context.Context, api BedrockAPI, modelID, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(titanRequest{
		InputText:            prompt,
		TextGenerationConfig: titanGeneration{MaxTokenCount: maxTokens},
	})
	if err != nil {
		return "", fmt.Errorf("encode titan request: %w", err)
	}

	out, err := api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     awssdk.String(modelID),
		Body:        body,
		ContentType: awssdk.String("application/json"),
		Accept:      awssdk.String("application/json"),
	})
	if err != nil {
		return "", err
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decode titan response: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", errors.New("titan response has no results")
	}
	return resp.Results[0].OutputText, nil
}
