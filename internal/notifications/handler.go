package notifications

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/592Darkness/ride-dispatch/pkg/common"
	"github.com/592Darkness/ride-dispatch/pkg/middleware"
)

// Handler handles HTTP requests for notifications
type Handler struct {
	service *Service
}

// NewHandler creates a new notifications handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListMyNotifications returns the authenticated user's notifications
func (h *Handler) ListMyNotifications(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.AppErrorResponse(c, common.NewUnauthorizedError("authentication required"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	list, total, err := h.service.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.HandleError(c, err, "failed to list notifications")
		return
	}
	common.SuccessResponseWithMeta(c, list, &common.Meta{Total: total, Limit: limit, Offset: offset})
}

// RegisterRoutes registers notification routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	group := r.Group("/api/v1/notifications")
	group.Use(middleware.AuthMiddleware(jwtSecret))
	{
		group.GET("", h.ListMyNotifications)
	}
}
