// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// LoginRequest represents the login call. Either username or phone carries
// the login identifier; both forms are accepted.
type LoginRequest struct {
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

// Identifier returns the login identifier, preferring username.
func (r LoginRequest) Identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Phone
}

// UpdateSettingsRequest is a shallow settings patch; absent fields are left
// untouched.
type UpdateSettingsRequest struct {
	Model       *string `json:"model"`
	APIKey      *string `json:"apiKey"`
	ZoneFilter  *string `json:"zoneFilter"`
	StageFilter *string `json:"stageFilter"`
}

// UpdateProviderRequest is a per-provider patch; absent fields are left
// untouched.
type UpdateProviderRequest struct {
	Enabled *bool   `json:"enabled"`
	APIKey  *string `json:"apiKey"`
	Model   *string `json:"model"`
	BaseURL *string `json:"baseUrl"`
}

// PutParamsRequest replaces the global parameters.
type PutParamsRequest struct {
	Options       map[string][]string `json:"options" binding:"required"`
	MeddicWeights map[string]float64  `json:"meddicWeights" binding:"required"`
}
