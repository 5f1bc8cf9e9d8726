package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"go.uber.org/zap"

	"github.com/formgate/gateway/internal/logger"
)

// secretsResolver fetches a secret string from AWS Secrets Manager using an
// ARN named by an environment variable, falling back to a plain environment
// variable when the ARN var is unset or the fetch fails.
type secretsResolver struct {
	svc *secretsmanager.Client
}

func newSecretsResolver(ctx context.Context) (*secretsResolver, error) {
	awsCfg, err := awscfg.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return &secretsResolver{svc: secretsmanager.NewFromConfig(awsCfg)}, nil
}

// stringSecret resolves a single string secret, handling secrets stored as
// plain text or as single-key JSON documents.
func (r *secretsResolver) stringSecret(ctx context.Context, arnEnvVar, fallbackEnvVar string) (string, error) {
	log := logger.For(logger.ComponentConfig)

	if arn := os.Getenv(arnEnvVar); arn != "" {
		out, err := r.svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(arn)})
		if err == nil && out.SecretString != nil && *out.SecretString != "" {
			raw := *out.SecretString

			var asJSON map[string]string
			if jsonErr := json.Unmarshal([]byte(raw), &asJSON); jsonErr == nil && len(asJSON) == 1 {
				for _, v := range asJSON {
					return v, nil
				}
			}
			return raw, nil
		}
		log.Warn("secrets manager fetch failed, falling back to environment",
			zap.String("arn_env_var", arnEnvVar),
			zap.String("fallback_env_var", fallbackEnvVar),
			zap.Error(err))
	}

	if v := os.Getenv(fallbackEnvVar); v != "" {
		return v, nil
	}

	return "", fmt.Errorf("secret not found via %q or %q", arnEnvVar, fallbackEnvVar)
}
