package settings

import "github.com/sri-intel/console-service/internal/domain/models"

// DefaultSettings returns the hardcoded defaults. The map is built fresh on
// every call so a reset can never hand out a reference to a shared template.
func DefaultSettings() models.Settings {
	return models.Settings{
		Model:       "deepseek-chat",
		APIKey:      "",
		ZoneFilter:  "all",
		StageFilter: "all",
		LLMConfigs: map[string]models.ProviderConfig{
			models.DefaultProvider: {
				Enabled: true,
				Model:   "gpt-4o-mini",
				BaseURL: "https://api.openai.com/v1",
			},
			"deepseek": {
				Enabled: false,
				Model:   "deepseek-chat",
				BaseURL: "https://api.deepseek.com/v1",
			},
			"qwen": {
				Enabled: false,
				Model:   "qwen-plus",
				BaseURL: "https://dashscope.aliyuncs.com/compatible-mode/v1",
			},
		},
	}
}
