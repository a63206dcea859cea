package models

// DefaultProvider is the provider entry mirrored by the legacy flat API key
// field. Writes to either representation converge on this entry.
const DefaultProvider = "openai"

// ProviderConfig holds the connection settings for one LLM provider.
type ProviderConfig struct {
	Enabled bool   `json:"enabled"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
	BaseURL string `json:"baseUrl"`
}

// Settings is the persisted operator configuration.
//
// APIKey is the legacy flat representation of the default provider's key,
// kept for older dashboard builds that read it directly. The LLMConfigs map
// is the source of truth; APIKey is re-derived from the default provider
// entry after every mutation.
type Settings struct {
	Model       string                    `json:"model"`
	APIKey      string                    `json:"apiKey"`
	ZoneFilter  string                    `json:"zoneFilter"`
	StageFilter string                    `json:"stageFilter"`
	LLMConfigs  map[string]ProviderConfig `json:"llmConfigs"`
}

// Clone returns a deep copy of the settings, so callers can mutate the
// result without corrupting the store's state or the default template.
func (s Settings) Clone() Settings {
	out := s
	if s.LLMConfigs != nil {
		out.LLMConfigs = make(map[string]ProviderConfig, len(s.LLMConfigs))
		for name, cfg := range s.LLMConfigs {
			out.LLMConfigs[name] = cfg
		}
	}
	return out
}
