package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sri-intel/console-service/internal/api/handlers"
	"github.com/sri-intel/console-service/internal/domain/models"
	memorystorage "github.com/sri-intel/console-service/internal/infrastructure/storage/memory"
	"github.com/sri-intel/console-service/internal/services/settings"
	"github.com/sri-intel/console-service/tests/testutils"
)

func newSettingsRouter(t *testing.T) *gin.Engine {
	t.Helper()

	store, err := settings.NewStore(&settings.Config{
		Durable: memorystorage.NewStore(),
		Session: memorystorage.NewStore(),
	})
	require.NoError(t, err)

	handler := handlers.NewSettingsHandler(store)
	router := testutils.SetupTestRouter()
	router.GET("/settings", handler.Get)
	router.PATCH("/settings", handler.Update)
	router.PATCH("/settings/providers/:provider", handler.UpdateProvider)
	router.POST("/settings/reset", handler.Reset)
	return router
}

func decodeSettings(t *testing.T, w *httptest.ResponseRecorder) models.Settings {
	t.Helper()
	var s models.Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func TestSettingsHandler_Get_ReturnsDefaults(t *testing.T) {
	router := newSettingsRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeSettings(t, w)
	assert.Equal(t, settings.DefaultSettings(), got)
}

func TestSettingsHandler_Update_PatchesAndMirrors(t *testing.T) {
	router := newSettingsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/settings", testutils.JSONBody(`{"apiKey":"sk-new","zoneFilter":"华东战区"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeSettings(t, w)
	assert.Equal(t, "sk-new", got.APIKey)
	assert.Equal(t, "sk-new", got.LLMConfigs[models.DefaultProvider].APIKey)
	assert.Equal(t, "华东战区", got.ZoneFilter)
	// Untouched fields keep their values
	assert.Equal(t, settings.DefaultSettings().Model, got.Model)
}

func TestSettingsHandler_Update_InvalidJSON(t *testing.T) {
	router := newSettingsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/settings", testutils.JSONBody(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsHandler_UpdateProvider(t *testing.T) {
	router := newSettingsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/settings/providers/deepseek", testutils.JSONBody(`{"enabled":true,"apiKey":"sk-ds"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	got := decodeSettings(t, w)
	assert.True(t, got.LLMConfigs["deepseek"].Enabled)
	assert.Equal(t, "sk-ds", got.LLMConfigs["deepseek"].APIKey)
	// A non-default provider never touches the flat key
	assert.Empty(t, got.APIKey)
}

func TestSettingsHandler_Reset(t *testing.T) {
	router := newSettingsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/settings", testutils.JSONBody(`{"apiKey":"sk-new"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/settings/reset", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, settings.DefaultSettings(), decodeSettings(t, w))
}
