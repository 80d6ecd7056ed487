package loyalty

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/592Darkness/ride-dispatch/pkg/common"
	"github.com/592Darkness/ride-dispatch/pkg/middleware"
)

// Handler handles HTTP requests for loyalty points
type Handler struct {
	service *Service
}

// NewHandler creates a new loyalty handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetAccount returns the authenticated rider's points balance
func (h *Handler) GetAccount(c *gin.Context) {
	riderID, err := middleware.GetUserID(c)
	if err != nil {
		common.AppErrorResponse(c, common.NewUnauthorizedError("authentication required"))
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), riderID)
	if err != nil {
		common.HandleError(c, err, "failed to get loyalty account")
		return
	}
	common.SuccessResponse(c, account)
}

// GetHistory returns the authenticated rider's points transactions
func (h *Handler) GetHistory(c *gin.Context) {
	riderID, err := middleware.GetUserID(c)
	if err != nil {
		common.AppErrorResponse(c, common.NewUnauthorizedError("authentication required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	history, total, err := h.service.GetPointsHistory(c.Request.Context(), riderID, limit, offset)
	if err != nil {
		common.HandleError(c, err, "failed to get points history")
		return
	}
	common.SuccessResponseWithMeta(c, history, &common.Meta{Total: total, Limit: limit, Offset: offset})
}

// RegisterRoutes registers loyalty routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	loyaltyGroup := r.Group("/api/v1/loyalty")
	loyaltyGroup.Use(middleware.AuthMiddleware(jwtSecret))
	{
		loyaltyGroup.GET("/account", h.GetAccount)
		loyaltyGroup.GET("/history", h.GetHistory)
	}
}
