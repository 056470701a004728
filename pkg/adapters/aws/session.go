package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

const (
	DefaultServiceRegion = "us-west-2"
	DefaultModelID       = "amazon.titan-text-lite-v1"
)

// CredentialsMessage is the error every call returns when the session failed to initialize.
const CredentialsMessage = "AWS credentials not configured"

// Options configures the AWS session. Zero values fall back to the defaults above.
type Options struct {
	// Region is the session region. Empty defers to the SDK's environment/shared config.
	Region string `mapstructure:"region"`
	// ServiceRegion is the region for Glue and Bedrock.
	ServiceRegion string `mapstructure:"service_region"`
	// ModelID is the Bedrock model used by invoke_bedrock_model.
	ModelID string `mapstructure:"model_id"`
}

func (o Options) withDefaults() Options {
	if o.ServiceRegion == "" {
		o.ServiceRegion = DefaultServiceRegion
	}
	if o.ModelID == "" {
		o.ModelID = DefaultModelID
	}
	return o
}

// LoadConfig loads the default credential chain.
func LoadConfig(ctx context.Context, opts Options) (awssdk.Config, error) {
	opts = opts.withDefaults()
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = opts.ServiceRegion
	}
	return cfg, nil
}

// VerifyIdentity proves the credentials work by asking STS who we are.
func VerifyIdentity(ctx context.Context, api STSAPI) (string, error) {
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("verify aws identity: %w", err)
	}
	return awssdk.ToString(out.Arn), nil
}

// NewClients builds the service clients. Glue and Bedrock are pinned to the service region.
func NewClients(cfg awssdk.Config, opts Options) *Clients {
	opts = opts.withDefaults()
	return &Clients{
		S3: s3.NewFromConfig(cfg),
		Glue: glue.NewFromConfig(cfg, func(o *glue.Options) {
			o.Region = opts.ServiceRegion
		}),
		Bedrock: bedrockruntime.NewFromConfig(cfg, func(o *bedrockruntime.Options) {
			o.Region = opts.ServiceRegion
		}),
	}
}

// Connect loads config, verifies the identity and returns ready clients.
// Any failure means the session is not initialized.
func Connect(ctx context.Context, opts Options) (*Clients, string, error) {
	cfg, err := LoadConfig(ctx, opts)
	if err != nil {
		return nil, "", err
	}
	arn, err := VerifyIdentity(ctx, sts.NewFromConfig(cfg))
	if err != nil {
		return nil, "", err
	}
	return NewClients(cfg, opts), arn, nil
}
