// Package aws implements the AWS tool provider: S3 bucket listing, Bedrock text
// generation and Glue job control over aws-sdk-go-v2.
package aws
