// Package settings provides the persisted operator settings store.
//
// Settings survive process restarts via durable storage and always load into
// one canonical shape: older persisted blobs are upgraded in place, missing
// keys receive default values, and malformed content falls back to the
// defaults without error.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sri-intel/console-service/internal/core/storage"
	"github.com/sri-intel/console-service/internal/domain/models"
)

// Store holds the operator settings.
//
// The provider map is the source of truth for API keys; the legacy flat
// apiKey field is re-derived from the default provider entry after every
// mutation, so the two representations can never drift.
type Store struct {
	durable storage.Store
	scoped  storage.Store

	mu       sync.Mutex
	settings models.Settings
}

// Config holds the configuration for the settings store.
type Config struct {
	Durable storage.Store
	Session storage.Store
}

// NewStore creates a settings store initialized with the defaults.
// Call Load to merge persisted state in.
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Durable == nil {
		return nil, fmt.Errorf("durable store is required")
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("session store is required")
	}

	return &Store{
		durable:  cfg.Durable,
		scoped:   cfg.Session,
		settings: DefaultSettings(),
	}, nil
}

// Decode parses a persisted settings blob into the canonical shape.
//
// Missing keys are filled from the defaults, a blob without the provider map
// is upgraded by synthesizing default entries and copying the legacy flat
// API key into the default provider, and malformed content yields the plain
// defaults. Decode is pure and idempotent: feeding its own marshaled output
// back in reproduces the same value.
func Decode(raw []byte) models.Settings {
	defaults := DefaultSettings()
	if len(raw) == 0 {
		return defaults
	}

	// Probe for provider-map presence before merging; merging over defaults
	// would mask an absent map.
	var probe struct {
		LLMConfigs map[string]models.ProviderConfig `json:"llmConfigs"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return defaults
	}

	out := DefaultSettings()
	if err := json.Unmarshal(raw, &out); err != nil {
		return defaults
	}

	// An explicit "llmConfigs": null unmarshals the prefilled map to nil;
	// treat it like an absent map.
	if out.LLMConfigs == nil {
		out.LLMConfigs = defaults.LLMConfigs
	}

	if probe.LLMConfigs == nil {
		cfg := out.LLMConfigs[models.DefaultProvider]
		cfg.APIKey = out.APIKey
		out.LLMConfigs[models.DefaultProvider] = cfg
	}

	return syncLegacyKey(out)
}

// syncLegacyKey re-derives the flat API key from the default provider entry.
func syncLegacyKey(s models.Settings) models.Settings {
	s.APIKey = s.LLMConfigs[models.DefaultProvider].APIKey
	return s
}

// Load reads persisted settings from durable storage and replaces the
// in-memory state. A storage read failure keeps the defaults and is
// returned so the caller can log it; malformed content is absorbed.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.durable.Get(ctx, storage.KeySettings)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	s.mu.Lock()
	s.settings = Decode(raw)
	s.mu.Unlock()
	return nil
}

// Settings returns a deep copy of the current settings.
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Patch is a shallow settings patch; nil fields are left untouched.
type Patch struct {
	Model       *string `json:"model"`
	APIKey      *string `json:"apiKey"`
	ZoneFilter  *string `json:"zoneFilter"`
	StageFilter *string `json:"stageFilter"`
}

// ProviderPatch is a per-provider patch; nil fields are left untouched.
type ProviderPatch struct {
	Enabled *bool   `json:"enabled"`
	APIKey  *string `json:"apiKey"`
	Model   *string `json:"model"`
	BaseURL *string `json:"baseUrl"`
}

// UpdateSettings merges the patch into the current settings. A flat API key
// write cascades into the default provider entry. The merged result is
// persisted before the call returns.
func (s *Store) UpdateSettings(ctx context.Context, patch Patch) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Model != nil {
		s.settings.Model = *patch.Model
	}
	if patch.ZoneFilter != nil {
		s.settings.ZoneFilter = *patch.ZoneFilter
	}
	if patch.StageFilter != nil {
		s.settings.StageFilter = *patch.StageFilter
	}
	if patch.APIKey != nil {
		if s.settings.LLMConfigs == nil {
			s.settings.LLMConfigs = make(map[string]models.ProviderConfig)
		}
		cfg := s.settings.LLMConfigs[models.DefaultProvider]
		cfg.APIKey = *patch.APIKey
		s.settings.LLMConfigs[models.DefaultProvider] = cfg
	}
	s.settings = syncLegacyKey(s.settings)

	if err := s.persistLocked(ctx); err != nil {
		return models.Settings{}, err
	}
	return s.settings.Clone(), nil
}

// UpdateProvider merges the patch into the named provider's configuration
// only. An API key write on the default provider mirrors back into the flat
// field. The result is persisted before the call returns.
func (s *Store) UpdateProvider(ctx context.Context, provider string, patch ProviderPatch) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settings.LLMConfigs == nil {
		s.settings.LLMConfigs = make(map[string]models.ProviderConfig)
	}

	cfg := s.settings.LLMConfigs[provider]
	if patch.Enabled != nil {
		cfg.Enabled = *patch.Enabled
	}
	if patch.APIKey != nil {
		cfg.APIKey = *patch.APIKey
	}
	if patch.Model != nil {
		cfg.Model = *patch.Model
	}
	if patch.BaseURL != nil {
		cfg.BaseURL = *patch.BaseURL
	}
	s.settings.LLMConfigs[provider] = cfg
	s.settings = syncLegacyKey(s.settings)

	if err := s.persistLocked(ctx); err != nil {
		return models.Settings{}, err
	}
	return s.settings.Clone(), nil
}

// Reset clears the settings-owned durable keys and the entire session-scoped
// store, then restores the in-memory defaults.
func (s *Store) Reset(ctx context.Context) error {
	var firstErr error
	if _, err := s.durable.Delete(ctx, storage.KeySettings); err != nil {
		firstErr = err
	}
	if _, err := s.durable.Delete(ctx, storage.KeyParams); err != nil && firstErr == nil {
		firstErr = err
	}
	if _, err := s.scoped.DeletePattern(ctx, "*"); err != nil && firstErr == nil {
		firstErr = err
	}

	s.mu.Lock()
	s.settings = DefaultSettings()
	s.mu.Unlock()

	if firstErr != nil {
		return fmt.Errorf("failed to clear settings storage: %w", firstErr)
	}
	return nil
}

// persistLocked writes the current settings to durable storage.
// The caller must hold s.mu.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.durable.Set(ctx, storage.KeySettings, data, 0); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}
