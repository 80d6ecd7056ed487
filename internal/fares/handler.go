package fares

import (
	"github.com/gin-gonic/gin"

	"github.com/592Darkness/ride-dispatch/pkg/common"
	"github.com/592Darkness/ride-dispatch/pkg/middleware"
)

// Handler handles HTTP requests for fare estimates
type Handler struct {
	service *Service
}

// NewHandler creates a new fares handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// EstimateFare handles pre-ride fare estimation
func (h *Handler) EstimateFare(c *gin.Context) {
	var req EstimateFareRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	estimate, err := h.service.EstimateFare(c.Request.Context(), req.PickupAddress, req.DropoffAddress, req.VehicleType)
	if err != nil {
		common.HandleError(c, err, "failed to estimate fare")
		return
	}

	common.SuccessResponse(c, estimate)
}

// RegisterRoutes registers fare routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	fares := r.Group("/api/v1/fares")
	fares.Use(middleware.AuthMiddleware(jwtSecret))
	{
		fares.POST("/estimate", h.EstimateFare)
	}
}
