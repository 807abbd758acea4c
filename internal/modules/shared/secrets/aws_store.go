package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/gaborage/go-bricks/logger"

	"github.com/gaborage/total-search/internal/modules/shared/cache"
)

const (
	defaultCacheTTL     = 5 * time.Minute
	defaultCacheMaxSize = 100
)

type AWSSecretsConfig struct {
	Prefix      string
	CacheTTL    time.Duration
	EndpointURL string
}

// SecretsManagerAPI is the subset of the Secrets Manager client in use.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
	ListSecrets(ctx context.Context, params *secretsmanager.ListSecretsInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error)
}

// AWSSecretsStore reads `{prefix}/{service}` secrets holding a flat JSON
// object and caches them for CacheTTL.
type AWSSecretsStore struct {
	client SecretsManagerAPI
	cache  *cache.MemoryStore
	prefix string
	logger logger.Logger
}

// NewAWSSecretsStore loads the default AWS configuration. EndpointURL
// points the client at LocalStack or another compatible endpoint.
func NewAWSSecretsStore(ctx context.Context, log logger.Logger, cfg AWSSecretsConfig) (*AWSSecretsStore, error) {
	if cfg.Prefix == "" {
		return nil, fmt.Errorf("AWS Secrets Manager prefix cannot be empty")
	}

	awsConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.EndpointURL != "" {
		awsConfig.BaseEndpoint = aws.String(cfg.EndpointURL)
	}

	return NewAWSSecretsStoreWithClient(secretsmanager.NewFromConfig(awsConfig), log, cfg), nil
}

func NewAWSSecretsStoreWithClient(client SecretsManagerAPI, log logger.Logger, cfg AWSSecretsConfig) *AWSSecretsStore {
	ttl := defaultCacheTTL
	if cfg.CacheTTL > 0 {
		ttl = cfg.CacheTTL
	}

	log.Info().
		Str("prefix", cfg.Prefix).
		Dur("cache_ttl", ttl).
		Msg("Initializing AWS Secrets Manager credential store")

	return &AWSSecretsStore{
		client: client,
		cache:  cache.NewMemoryStore(ttl, defaultCacheMaxSize),
		prefix: strings.TrimSuffix(cfg.Prefix, "/"),
		logger: log,
	}
}

func (s *AWSSecretsStore) Credentials(ctx context.Context, service string) (Credentials, error) {
	if service == "" {
		return nil, fmt.Errorf("service name cannot be empty")
	}

	var creds Credentials
	if ok, err := cache.GetJSON(ctx, s.cache, service, &creds); err == nil && ok {
		s.logger.Debug().Str("service", service).Msg("Retrieved credentials from cache")
		return creds, nil
	}

	creds, err := s.fetch(ctx, service)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error().Err(err).Str("service", service).Msg("Failed to fetch credentials from AWS Secrets Manager")
		}
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.cache, service, creds); err != nil {
		s.logger.Warn().Err(err).Str("service", service).Msg("Failed to cache credentials")
	}
	s.logger.Info().Str("service", service).Int("keys", len(creds)).Msg("Retrieved credentials from AWS Secrets Manager")
	return creds, nil
}

func (s *AWSSecretsStore) fetch(ctx context.Context, service string) (Credentials, error) {
	secretName := s.secretName(service)

	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, secretName)
		}
		return nil, fmt.Errorf("failed to retrieve secret %s: %w", secretName, err)
	}

	if result.SecretString == nil {
		return nil, fmt.Errorf("secret value is empty for %s", secretName)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(*result.SecretString), &creds); err != nil {
		return nil, fmt.Errorf("failed to parse secret JSON for %s: %w", secretName, err)
	}
	return creds, nil
}

func (s *AWSSecretsStore) secretName(service string) string {
	return fmt.Sprintf("%s/%s", s.prefix, service)
}

// ListServices lists the services that have a secret under the prefix.
func (s *AWSSecretsStore) ListServices(ctx context.Context) ([]string, error) {
	prefix := s.prefix + "/"

	var services []string
	var nextToken *string

	for {
		input := &secretsmanager.ListSecretsInput{
			Filters: []types.Filter{
				{
					Key:    types.FilterNameStringTypeName,
					Values: []string{prefix},
				},
			},
			NextToken: nextToken,
		}

		result, err := s.client.ListSecrets(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list secrets: %w", err)
		}

		for _, secret := range result.SecretList {
			if secret.Name == nil {
				continue
			}
			name := strings.TrimPrefix(*secret.Name, prefix)
			if name != "" && name != *secret.Name && !strings.Contains(name, "/") {
				services = append(services, name)
			}
		}

		if result.NextToken == nil {
			break
		}
		nextToken = result.NextToken
	}

	return services, nil
}

// Close stops the cache sweeper.
func (s *AWSSecretsStore) Close() error {
	return s.cache.Close()
}
