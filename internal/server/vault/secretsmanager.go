package vault

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManagerAPI is the part of *secretsmanager.Client we call.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type SecretsManagerSource struct {
	client   SecretsManagerAPI
	secretID string
	timeout  time.Duration
}

// NewSecretsManagerSource reads secretID (name or ARN). A positive timeout
// bounds each fetch.
func NewSecretsManagerSource(client SecretsManagerAPI, secretID string, timeout time.Duration) *SecretsManagerSource {
	return &SecretsManagerSource{client: client, secretID: secretID, timeout: timeout}
}

func (s *SecretsManagerSource) FetchSecret(ctx context.Context) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretID),
	})
	if err != nil {
		return "", fmt.Errorf("secretsmanager get %s: %w", s.secretID, err)
	}

	raw := aws.ToString(out.SecretString)
	if raw == "" && len(out.SecretBinary) > 0 {
		raw = string(out.SecretBinary)
	}

	secret, err := ParseSecret(raw)
	if err != nil {
		return "", fmt.Errorf("secretsmanager %s: %w", s.secretID, err)
	}
	return secret, nil
}
