package rides

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/592Darkness/ride-dispatch/pkg/common"
	"github.com/592Darkness/ride-dispatch/pkg/middleware"
)

// Handler handles HTTP requests for rides
type Handler struct {
	service *Service
}

// NewHandler creates a new rides handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func rideIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("invalid ride ID", err))
		return uuid.Nil, false
	}
	return id, true
}

func authedUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		common.AppErrorResponse(c, common.NewUnauthorizedError("authentication required"))
		return uuid.Nil, false
	}
	return userID, true
}

// RequestRide books a new ride for the authenticated rider
func (h *Handler) RequestRide(c *gin.Context) {
	riderID, ok := authedUser(c)
	if !ok {
		return
	}

	var req RequestRideRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	ride, err := h.service.RequestRide(c.Request.Context(), riderID, &req)
	if err != nil {
		common.HandleError(c, err, "failed to request ride")
		return
	}
	common.CreatedResponse(c, ride)
}

// GetMyRides returns the authenticated rider's ride history
func (h *Handler) GetMyRides(c *gin.Context) {
	riderID, ok := authedUser(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	ridesList, total, err := h.service.GetMyRides(c.Request.Context(), riderID, limit, offset)
	if err != nil {
		common.HandleError(c, err, "failed to list rides")
		return
	}
	common.SuccessResponseWithMeta(c, ridesList, &common.Meta{Total: total, Limit: limit, Offset: offset})
}

// GetRide returns a single ride the caller is a party to
func (h *Handler) GetRide(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	ride, err := h.service.GetRide(c.Request.Context(), rideID, userID)
	if err != nil {
		common.HandleError(c, err, "failed to get ride")
		return
	}
	common.SuccessResponse(c, ride)
}

// PollRideStatus answers one staged poll for ride progress
func (h *Handler) PollRideStatus(c *gin.Context) {
	riderID, ok := authedUser(c)
	if !ok {
		return
	}
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	stage, _ := strconv.Atoi(c.DefaultQuery("stage", "0"))

	resp, err := h.service.PollRideStatus(c.Request.Context(), rideID, riderID, stage)
	if err != nil {
		common.HandleError(c, err, "failed to poll ride status")
		return
	}
	common.SuccessResponse(c, resp)
}

// CancelRide cancels the authenticated rider's ride
func (h *Handler) CancelRide(c *gin.Context) {
	riderID, ok := authedUser(c)
	if !ok {
		return
	}
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	var req CancelRideRequest
	// body is optional for cancellation
	_ = c.ShouldBindJSON(&req)

	ride, err := h.service.CancelRide(c.Request.Context(), rideID, riderID, req.Reason)
	if err != nil {
		common.HandleError(c, err, "failed to cancel ride")
		return
	}
	common.SuccessResponse(c, ride)
}

// RateRide records the rider's one-time rating for a completed ride
func (h *Handler) RateRide(c *gin.Context) {
	riderID, ok := authedUser(c)
	if !ok {
		return
	}
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	var req RateRideRequest
	if !middleware.ValidateAndBind(c, &req) {
		return
	}

	if err := h.service.RateRide(c.Request.Context(), rideID, riderID, req.Rating, req.Comment); err != nil {
		common.HandleError(c, err, "failed to rate ride")
		return
	}
	common.SuccessResponse(c, gin.H{"ride_id": rideID, "rating": req.Rating})
}

// AdvanceRide lets the assigned driver report progress
func (h *Handler) AdvanceRide(c *gin.Context) {
	driverID, ok := authedUser(c)
	if !ok {
		return
	}
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("status is required", err))
		return
	}

	ride, err := h.service.AdvanceRide(c.Request.Context(), rideID, driverID, req.Status)
	if err != nil {
		common.HandleError(c, err, "failed to advance ride")
		return
	}
	common.SuccessResponse(c, ride)
}

// CompleteRide settles the ride and freezes the final fare
func (h *Handler) CompleteRide(c *gin.Context) {
	driverID, ok := authedUser(c)
	if !ok {
		return
	}
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	ride, err := h.service.CompleteRide(c.Request.Context(), rideID, driverID)
	if err != nil {
		common.HandleError(c, err, "failed to complete ride")
		return
	}
	common.SuccessResponse(c, ride)
}

// RegisterRoutes registers ride routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	ridesGroup := r.Group("/api/v1/rides")
	ridesGroup.Use(middleware.AuthMiddleware(jwtSecret))
	{
		ridesGroup.POST("", h.RequestRide)
		ridesGroup.GET("", h.GetMyRides)
		ridesGroup.GET("/:id", h.GetRide)
		ridesGroup.GET("/:id/status", h.PollRideStatus)
		ridesGroup.POST("/:id/cancel", h.CancelRide)
		ridesGroup.POST("/:id/rating", h.RateRide)

		driver := ridesGroup.Group("")
		driver.Use(middleware.RequireRole("driver"))
		{
			driver.POST("/:id/advance", h.AdvanceRide)
			driver.POST("/:id/complete", h.CompleteRide)
		}
	}
}
