package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sri-intel/console-service/internal/api/dto"
	"github.com/sri-intel/console-service/internal/api/middleware"
	domainerrors "github.com/sri-intel/console-service/internal/domain/errors"
	"github.com/sri-intel/console-service/internal/domain/models"
	"github.com/sri-intel/console-service/internal/services/params"
)

// ParamsHandler handles the global parameters endpoints.
type ParamsHandler struct {
	service *params.Service
}

// NewParamsHandler creates a new ParamsHandler.
func NewParamsHandler(service *params.Service) *ParamsHandler {
	return &ParamsHandler{
		service: service,
	}
}

// Get handles reading the global parameters.
// @Summary Get global parameters
// @Tags Params
// @Produce json
// @Success 200 {object} models.GlobalParams "Dropdown dictionaries and MEDDIC weights"
// @Router /params [get]
func (h *ParamsHandler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Put handles replacing the global parameters.
// @Summary Replace global parameters
// @Tags Params
// @Accept json
// @Produce json
// @Param request body dto.PutParamsRequest true "Parameters"
// @Success 200 {object} models.GlobalParams "Stored parameters"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Router /params [put]
func (h *ParamsHandler) Put(c *gin.Context) {
	var req dto.PutParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, domainerrors.NewBadRequestError("invalid params payload", err.Error()))
		return
	}

	p := models.GlobalParams{
		Options:       req.Options,
		MeddicWeights: req.MeddicWeights,
	}
	if err := h.service.Put(c.Request.Context(), p); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
