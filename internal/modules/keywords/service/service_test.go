package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gaborage/go-bricks/logger"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
)

// mockProvider implements provider.Provider for testing
type mockProvider struct {
	suggestionsFunc   func(ctx context.Context, keyword string, platform kw.Platform, country, language string) ([]kw.KeywordSuggestion, error)
	volumesFunc       func(ctx context.Context, keywords []string, platform kw.Platform, country string) (map[string]kw.PlatformMetric, error)
	crossPlatformFunc func(ctx context.Context, keyword string, platforms []kw.Platform, country string) (kw.CrossPlatformKeyword, error)
	batchFunc         func(ctx context.Context, keywords []string, platforms []kw.Platform, country string) ([]kw.CrossPlatformKeyword, error)
}

func (m *mockProvider) Suggestions(ctx context.Context, keyword string, platform kw.Platform, country, language string) ([]kw.KeywordSuggestion, error) {
	if m.suggestionsFunc != nil {
		return m.suggestionsFunc(ctx, keyword, platform, country, language)
	}
	return nil, errors.New("not implemented")
}

func (m *mockProvider) Volumes(ctx context.Context, keywords []string, platform kw.Platform, country string) (map[string]kw.PlatformMetric, error) {
	if m.volumesFunc != nil {
		return m.volumesFunc(ctx, keywords, platform, country)
	}
	return nil, errors.New("not implemented")
}

func (m *mockProvider) CrossPlatform(ctx context.Context, keyword string, platforms []kw.Platform, country string) (kw.CrossPlatformKeyword, error) {
	if m.crossPlatformFunc != nil {
		return m.crossPlatformFunc(ctx, keyword, platforms, country)
	}
	return kw.CrossPlatformKeyword{}, errors.New("not implemented")
}

func (m *mockProvider) CrossPlatformBatch(ctx context.Context, keywords []string, platforms []kw.Platform, country string) ([]kw.CrossPlatformKeyword, error) {
	if m.batchFunc != nil {
		return m.batchFunc(ctx, keywords, platforms, country)
	}
	return nil, errors.New("not implemented")
}

func newMockLogger() logger.Logger {
	return logger.New("info", false)
}

func keywordList(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("keyword %d", i)
	}
	return out
}

func TestSuggestions(t *testing.T) {
	tests := []struct {
		name         string
		keyword      string
		platform     string
		country      string
		providerErr  error
		wantErr      error
		wantPlatform kw.Platform
	}{
		{"success", "grwm", "tiktok", "us", nil, nil, kw.PlatformTikTok},
		{"endpoint alias", "grwm", "appstore", "", nil, nil, kw.PlatformAppStore},
		{"blank keyword", "  ", "tiktok", "us", nil, ErrValidation, ""},
		{"unknown platform", "grwm", "myspace", "us", nil, ErrValidation, ""},
		{"bad country", "grwm", "google", "usa", nil, ErrValidation, ""},
		{"provider failure", "grwm", "google", "us", errors.New("boom"), ErrInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPlatform kw.Platform
			svc := NewService(&mockProvider{
				suggestionsFunc: func(_ context.Context, _ string, p kw.Platform, _, _ string) ([]kw.KeywordSuggestion, error) {
					gotPlatform = p
					if tt.providerErr != nil {
						return nil, tt.providerErr
					}
					return []kw.KeywordSuggestion{{Keyword: "grwm makeup", Platform: p}}, nil
				},
			}, newMockLogger())

			got, err := svc.Suggestions(context.Background(), tt.keyword, tt.platform, tt.country, "en")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Suggestions() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Suggestions() unexpected error = %v", err)
			}
			if len(got) != 1 || gotPlatform != tt.wantPlatform {
				t.Errorf("Suggestions() = %v on %v, want one suggestion on %v", got, gotPlatform, tt.wantPlatform)
			}
		})
	}
}

func TestCrossPlatform(t *testing.T) {
	var gotPlatforms []kw.Platform
	svc := NewService(&mockProvider{
		crossPlatformFunc: func(_ context.Context, keyword string, platforms []kw.Platform, _ string) (kw.CrossPlatformKeyword, error) {
			gotPlatforms = platforms
			return kw.NewCrossPlatformKeyword(keyword, kw.NewPlatformMetric(kw.PlatformTikTok, 100, nil)), nil
		},
	}, newMockLogger())

	record, err := svc.CrossPlatform(context.Background(), "haul", "TikTok, google", "us")
	if err != nil {
		t.Fatalf("CrossPlatform() unexpected error = %v", err)
	}
	if record.TotalVolume() != 100 {
		t.Errorf("CrossPlatform() total = %v, want 100", record.TotalVolume())
	}
	if len(gotPlatforms) != 2 || gotPlatforms[0] != kw.PlatformTikTok || gotPlatforms[1] != kw.PlatformGoogle {
		t.Errorf("CrossPlatform() platforms = %v, want [tiktok google]", gotPlatforms)
	}

	if _, err := svc.CrossPlatform(context.Background(), "haul", "", "us"); err != nil {
		t.Fatalf("CrossPlatform() unexpected error = %v", err)
	}
	if gotPlatforms != nil {
		t.Errorf("CrossPlatform() platforms = %v, want nil for defaults", gotPlatforms)
	}

	if _, err := svc.CrossPlatform(context.Background(), "haul", "google,friendster", "us"); !errors.Is(err, ErrValidation) {
		t.Errorf("CrossPlatform() error = %v, want %v", err, ErrValidation)
	}
}

func TestBatch(t *testing.T) {
	tests := []struct {
		name      string
		keywords  []string
		platforms []string
		wantErr   error
		wantCount int
	}{
		{"success", []string{"a", " b ", ""}, []string{"google"}, nil, 2},
		{"at limit", keywordList(MaxBatchKeywords), nil, nil, MaxBatchKeywords},
		{"over limit", keywordList(MaxBatchKeywords + 1), nil, ErrValidation, 0},
		{"empty", []string{" "}, nil, ErrValidation, 0},
		{"bad platform", []string{"a"}, []string{"orkut"}, ErrValidation, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&mockProvider{
				batchFunc: func(_ context.Context, keywords []string, _ []kw.Platform, _ string) ([]kw.CrossPlatformKeyword, error) {
					out := make([]kw.CrossPlatformKeyword, len(keywords))
					for i, k := range keywords {
						out[i] = kw.NewCrossPlatformKeyword(k)
					}
					return out, nil
				},
			}, newMockLogger())

			got, err := svc.Batch(context.Background(), tt.keywords, tt.platforms, "us")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Batch() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Batch() unexpected error = %v", err)
			}
			if len(got) != tt.wantCount {
				t.Errorf("Batch() returned %d records, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestVolume(t *testing.T) {
	svc := NewService(&mockProvider{
		volumesFunc: func(_ context.Context, keywords []string, p kw.Platform, _ string) (map[string]kw.PlatformMetric, error) {
			out := map[string]kw.PlatformMetric{}
			for _, k := range keywords {
				out[k] = kw.NewPlatformMetric(p, 10, nil)
			}
			return out, nil
		},
	}, newMockLogger())

	got, err := svc.Volume(context.Background(), "pinterest", []string{"a", "b"}, "gb")
	if err != nil {
		t.Fatalf("Volume() unexpected error = %v", err)
	}
	if got.Platform != kw.PlatformPinterest || len(got.Keywords) != 2 {
		t.Errorf("Volume() = %+v, want 2 pinterest keywords", got)
	}

	if _, err := svc.Volume(context.Background(), "pinterest", keywordList(MaxVolumeKeywords+1), "us"); !errors.Is(err, ErrValidation) {
		t.Errorf("Volume() error = %v, want %v", err, ErrValidation)
	}
}

func TestPlatforms(t *testing.T) {
	svc := NewService(&mockProvider{}, newMockLogger())

	got := svc.Platforms()
	if len(got) != 14 {
		t.Fatalf("Platforms() returned %d entries, want 14", len(got))
	}
	if got[0].ID != kw.PlatformGoogle || !got[0].HasPreciseVolume || got[0].VolumeSource != "Keyword Planner" {
		t.Errorf("Platforms()[0] = %+v, want precise google", got[0])
	}
	if got[2].ID != kw.PlatformTikTok || got[2].HasPreciseVolume || got[2].VolumeSource != "Clickstream" {
		t.Errorf("Platforms()[2] = %+v, want estimated tiktok", got[2])
	}
}
