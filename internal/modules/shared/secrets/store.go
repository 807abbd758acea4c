// Package secrets resolves provider credentials (API keys and access
// tokens) from static settings or AWS Secrets Manager.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gaborage/go-bricks/logger"
)

// Provider services that carry credentials.
const (
	ServiceKeywordTool = "keywordtool"
	ServiceMeta        = "meta"
	ServiceTikTok      = "tiktok"
	ServiceSearchAPI   = "searchapi"
)

// Credential keys inside a service secret.
const (
	KeyAPIKey      = "api_key"
	KeyAccessToken = "access_token"
)

var ErrNotFound = errors.New("credentials not found")

// Credentials is the key/value content of one service secret.
type Credentials map[string]string

// Store resolves the credentials of a provider service.
type Store interface {
	Credentials(ctx context.Context, service string) (Credentials, error)
}

// Lister is a Store that can enumerate the services it holds.
type Lister interface {
	ListServices(ctx context.Context) ([]string, error)
}

// Services returns the sorted services s holds credentials for. A store that
// cannot enumerate its services yields none.
func Services(ctx context.Context, s Store) ([]string, error) {
	l, ok := s.(Lister)
	if !ok {
		return []string{}, nil
	}
	services, err := l.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	slices.Sort(services)
	return services, nil
}

// Lookup returns one credential value, or "" when the service or key is
// unknown. Other store failures are returned.
func Lookup(ctx context.Context, s Store, service, key string) (string, error) {
	creds, err := s.Credentials(ctx, service)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return creds[key], nil
}

// StaticStore serves credentials from configuration.
type StaticStore struct {
	services map[string]Credentials
	logger   logger.Logger
	mu       sync.RWMutex
}

func NewStaticStore(log logger.Logger) *StaticStore {
	return &StaticStore{
		services: make(map[string]Credentials),
		logger:   log,
	}
}

// Set stores credentials for a service. Empty values are dropped, and a
// service left without values is removed.
func (s *StaticStore) Set(service string, creds Credentials) {
	clean := make(Credentials, len(creds))
	for k, v := range creds {
		if v != "" {
			clean[k] = v
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(clean) == 0 {
		delete(s.services, service)
		return
	}
	s.services[service] = clean
	s.logger.Debug().Str("service", service).Int("keys", len(clean)).Msg("Registered static credentials")
}

func (s *StaticStore) Credentials(_ context.Context, service string) (Credentials, error) {
	if service == "" {
		return nil, fmt.Errorf("service name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	creds, ok := s.services[service]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, service)
	}
	out := make(Credentials, len(creds))
	for k, v := range creds {
		out[k] = v
	}
	return out, nil
}

// ListServices returns the services with credentials.
func (s *StaticStore) ListServices(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	services := make([]string, 0, len(s.services))
	for name := range s.services {
		services = append(services, name)
	}
	return services, nil
}

// ChainStore asks each store in order and returns the first hit.
type ChainStore struct {
	stores []Store
}

func NewChainStore(stores ...Store) *ChainStore {
	return &ChainStore{stores: stores}
}

func (c *ChainStore) Credentials(ctx context.Context, service string) (Credentials, error) {
	for _, s := range c.stores {
		creds, err := s.Credentials(ctx, service)
		if err == nil {
			return creds, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, service)
}

// ListServices merges the services of every store that can list them.
func (c *ChainStore) ListServices(ctx context.Context) ([]string, error) {
	services := []string{}
	for _, s := range c.stores {
		l, ok := s.(Lister)
		if !ok {
			continue
		}
		names, err := l.ListServices(ctx)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if !slices.Contains(services, name) {
				services = append(services, name)
			}
		}
	}
	return services, nil
}
