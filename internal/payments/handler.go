package payments

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/592Darkness/ride-dispatch/pkg/common"
	"github.com/592Darkness/ride-dispatch/pkg/middleware"
)

// Handler handles HTTP requests for payment reconciliation
type Handler struct {
	service *Service
}

// NewHandler creates a new payments handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) recordAction(c *gin.Context, party string) {
	actorID, err := middleware.GetUserID(c)
	if err != nil {
		common.AppErrorResponse(c, common.NewUnauthorizedError("authentication required"))
		return
	}

	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("invalid ride ID", err))
		return
	}

	var req PaymentActionRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	result, err := h.service.RecordPaymentAction(c.Request.Context(), rideID, actorID, party, req.Action)
	if err != nil {
		common.HandleError(c, err, "failed to record payment action")
		return
	}
	common.SuccessResponse(c, result)
}

// RiderPaymentAction records the rider's confirm/dispute
func (h *Handler) RiderPaymentAction(c *gin.Context) {
	h.recordAction(c, PartyRider)
}

// DriverPaymentAction records the driver's confirm/dispute
func (h *Handler) DriverPaymentAction(c *gin.Context) {
	h.recordAction(c, PartyDriver)
}

// GetPaymentStatus returns the payment status of a ride the caller is party to
func (h *Handler) GetPaymentStatus(c *gin.Context) {
	actorID, err := middleware.GetUserID(c)
	if err != nil {
		common.AppErrorResponse(c, common.NewUnauthorizedError("authentication required"))
		return
	}

	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("invalid ride ID", err))
		return
	}

	view, err := h.service.GetPaymentStatus(c.Request.Context(), rideID, actorID)
	if err != nil {
		common.HandleError(c, err, "failed to get payment status")
		return
	}
	common.SuccessResponse(c, view)
}

// RegisterRoutes registers payment routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	payments := r.Group("/api/v1/rides/:id/payment")
	payments.Use(middleware.AuthMiddleware(jwtSecret))
	{
		payments.GET("", h.GetPaymentStatus)
		payments.POST("/rider", h.RiderPaymentAction)

		driver := payments.Group("")
		driver.Use(middleware.RequireRole("driver"))
		{
			driver.POST("/driver", h.DriverPaymentAction)
		}
	}
}
