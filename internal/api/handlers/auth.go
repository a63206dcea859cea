// Package handlers provides HTTP handlers for the console API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sri-intel/console-service/internal/api/dto"
	"github.com/sri-intel/console-service/internal/api/middleware"
	domainerrors "github.com/sri-intel/console-service/internal/domain/errors"
	"github.com/sri-intel/console-service/internal/services/session"
	"github.com/sri-intel/console-service/internal/services/upstream"
)

// AuthHandler handles the auth endpoints.
type AuthHandler struct {
	sessions *session.Store
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *session.Store) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
	}
}

// Login handles the login endpoint.
// @Summary Operator login
// @Description Authenticates against the SRI backend and opens the console session
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse "Session opened"
// @Failure 400 {object} dto.ErrorResponse "Missing identifier"
// @Failure 401 {object} dto.ErrorResponse "Credentials rejected"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewBadRequestError("invalid login request", err.Error()))
		return
	}
	if req.Identifier() == "" {
		middleware.HandleError(c, domainerrors.NewBadRequestError("username or phone is required", ""))
		return
	}

	user, err := h.sessions.Login(c.Request.Context(), upstream.Credentials{
		Username: req.Identifier(),
		Password: req.Password,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: h.sessions.Token(),
		User:        user,
	})
}

// Logout handles the logout endpoint.
// @Summary Operator logout
// @Description Clears the console session; always succeeds
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.StatusResponse "Session cleared"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
}

// Me handles the current-operator endpoint.
// @Summary Current operator
// @Description Returns the profile of the logged-in operator
// @Tags Auth
// @Produce json
// @Success 200 {object} models.User "Operator profile"
// @Failure 401 {object} dto.ErrorResponse "No session"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := h.sessions.User()
	if user == nil {
		// A rehydrated session may hold a token without a profile yet.
		h.sessions.Restore(c.Request.Context())
		user = h.sessions.User()
	}
	if user == nil {
		middleware.HandleError(c, domainerrors.NewUnauthorizedError("login required"))
		return
	}

	c.JSON(http.StatusOK, user)
}
