package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/gaborage/go-bricks/logger"
)

type mockSecretsManager struct {
	getCalls int
	secrets  map[string]string
	pages    [][]string
}

func (m *mockSecretsManager) GetSecretValue(_ context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	m.getCalls++
	v, ok := m.secrets[aws.ToString(params.SecretId)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("not found")}
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func (m *mockSecretsManager) ListSecrets(_ context.Context, params *secretsmanager.ListSecretsInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.ListSecretsOutput, error) {
	page := 0
	if params.NextToken != nil {
		page = 1
	}
	out := &secretsmanager.ListSecretsOutput{}
	for _, name := range m.pages[page] {
		out.SecretList = append(out.SecretList, types.SecretListEntry{Name: aws.String(name)})
	}
	if page+1 < len(m.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func newMockLogger() logger.Logger {
	return logger.New("info", false)
}

func TestAWSSecretsStoreCredentials(t *testing.T) {
	ctx := context.Background()
	client := &mockSecretsManager{
		secrets: map[string]string{
			"total-search/keywordtool": `{"api_key":"kt-123"}`,
			"total-search/meta":        `not json`,
		},
	}
	store := NewAWSSecretsStoreWithClient(client, newMockLogger(), AWSSecretsConfig{Prefix: "total-search/"})
	defer store.Close()

	creds, err := store.Credentials(ctx, ServiceKeywordTool)
	if err != nil {
		t.Fatalf("Credentials() unexpected error = %v", err)
	}
	if creds[KeyAPIKey] != "kt-123" {
		t.Errorf("Credentials() api_key = %v, want kt-123", creds[KeyAPIKey])
	}

	if _, err := store.Credentials(ctx, ServiceKeywordTool); err != nil {
		t.Fatalf("Credentials() cached call unexpected error = %v", err)
	}
	if client.getCalls != 1 {
		t.Errorf("GetSecretValue calls = %v, want 1", client.getCalls)
	}

	if _, err := store.Credentials(ctx, ServiceTikTok); !errors.Is(err, ErrNotFound) {
		t.Errorf("Credentials() error = %v, want %v", err, ErrNotFound)
	}
	if _, err := store.Credentials(ctx, ServiceMeta); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Credentials() error = %v, want parse error", err)
	}
}

func TestAWSSecretsStoreListServices(t *testing.T) {
	client := &mockSecretsManager{
		pages: [][]string{
			{"total-search/keywordtool", "total-search/meta", "other/tiktok"},
			{"total-search/nested/path", "total-search/searchapi"},
		},
	}
	store := NewAWSSecretsStoreWithClient(client, newMockLogger(), AWSSecretsConfig{Prefix: "total-search"})
	defer store.Close()

	services, err := store.ListServices(context.Background())
	if err != nil {
		t.Fatalf("ListServices() unexpected error = %v", err)
	}
	want := []string{"keywordtool", "meta", "searchapi"}
	if len(services) != len(want) {
		t.Fatalf("ListServices() = %v, want %v", services, want)
	}
	for i := range want {
		if services[i] != want[i] {
			t.Errorf("ListServices()[%d] = %v, want %v", i, services[i], want[i])
		}
	}
}

func TestChainStore(t *testing.T) {
	ctx := context.Background()

	primary := NewStaticStore(newMockLogger())
	primary.Set(ServiceMeta, Credentials{KeyAccessToken: "from-primary"})

	fallback := NewStaticStore(newMockLogger())
	fallback.Set(ServiceMeta, Credentials{KeyAccessToken: "from-fallback"})
	fallback.Set(ServiceTikTok, Credentials{KeyAccessToken: "tt"})
	fallback.Set(ServiceSearchAPI, Credentials{KeyAPIKey: ""})

	chain := NewChainStore(primary, fallback)

	tests := []struct {
		service string
		key     string
		want    string
	}{
		{ServiceMeta, KeyAccessToken, "from-primary"},
		{ServiceTikTok, KeyAccessToken, "tt"},
		{ServiceSearchAPI, KeyAPIKey, ""},
		{ServiceKeywordTool, KeyAPIKey, ""},
	}

	for _, tt := range tests {
		t.Run(tt.service, func(t *testing.T) {
			got, err := Lookup(ctx, chain, tt.service, tt.key)
			if err != nil {
				t.Fatalf("Lookup() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Lookup() = %q, want %q", got, tt.want)
			}
		})
	}

	services, _ := fallback.ListServices(ctx)
	if len(services) != 2 {
		t.Errorf("ListServices() = %v, want meta and tiktok only", services)
	}
}

func TestServicesAcrossChain(t *testing.T) {
	ctx := context.Background()

	primary := NewStaticStore(newMockLogger())
	primary.Set(ServiceTikTok, Credentials{KeyAccessToken: "tt"})
	primary.Set(ServiceMeta, Credentials{KeyAccessToken: "meta"})

	fallback := NewStaticStore(newMockLogger())
	fallback.Set(ServiceMeta, Credentials{KeyAccessToken: "other"})
	fallback.Set(ServiceKeywordTool, Credentials{KeyAPIKey: "kt"})

	services, err := Services(ctx, NewChainStore(primary, fallback))
	if err != nil {
		t.Fatalf("Services() unexpected error = %v", err)
	}
	want := []string{ServiceKeywordTool, ServiceMeta, ServiceTikTok}
	if len(services) != len(want) {
		t.Fatalf("Services() = %v, want %v", services, want)
	}
	for i := range want {
		if services[i] != want[i] {
			t.Errorf("Services()[%d] = %v, want %v", i, services[i], want[i])
		}
	}
}
