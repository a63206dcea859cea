package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sri-intel/console-service/internal/api/dto"
	"github.com/sri-intel/console-service/internal/api/middleware"
	domainerrors "github.com/sri-intel/console-service/internal/domain/errors"
	"github.com/sri-intel/console-service/internal/services/settings"
)

// SettingsHandler handles the settings endpoints.
type SettingsHandler struct {
	store *settings.Store
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{
		store: store,
	}
}

// Get handles reading the current settings.
// @Summary Get settings
// @Tags Settings
// @Produce json
// @Success 200 {object} models.Settings "Current settings"
// @Router /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Settings())
}

// Update handles a shallow settings patch.
// @Summary Patch settings
// @Description Merges the patch into the settings; a flat apiKey write cascades into the default provider
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Patch"
// @Success 200 {object} models.Settings "Merged settings"
// @Failure 400 {object} dto.ErrorResponse "Invalid patch"
// @Router /settings [patch]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewBadRequestError("invalid settings patch", err.Error()))
		return
	}

	merged, err := h.store.UpdateSettings(c.Request.Context(), settings.Patch{
		Model:       req.Model,
		APIKey:      req.APIKey,
		ZoneFilter:  req.ZoneFilter,
		StageFilter: req.StageFilter,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, merged)
}

// UpdateProvider handles a per-provider patch.
// @Summary Patch one provider
// @Description Merges the patch into the named provider; a key write on the default provider mirrors to the flat apiKey
// @Tags Settings
// @Accept json
// @Produce json
// @Param provider path string true "Provider name"
// @Param request body dto.UpdateProviderRequest true "Patch"
// @Success 200 {object} models.Settings "Merged settings"
// @Failure 400 {object} dto.ErrorResponse "Invalid patch"
// @Router /settings/providers/{provider} [patch]
func (h *SettingsHandler) UpdateProvider(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		middleware.HandleError(c, domainerrors.NewBadRequestError("provider name is required", ""))
		return
	}

	var req dto.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewBadRequestError("invalid provider patch", err.Error()))
		return
	}

	merged, err := h.store.UpdateProvider(c.Request.Context(), provider, settings.ProviderPatch{
		Enabled: req.Enabled,
		APIKey:  req.APIKey,
		Model:   req.Model,
		BaseURL: req.BaseURL,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, merged)
}

// Reset handles wiping all console-owned settings state.
// @Summary Reset settings
// @Description Clears persisted settings and session-scoped storage and restores the defaults
// @Tags Settings
// @Produce json
// @Success 200 {object} models.Settings "Default settings"
// @Router /settings/reset [post]
func (h *SettingsHandler) Reset(c *gin.Context) {
	if err := h.store.Reset(c.Request.Context()); err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.store.Settings())
}
