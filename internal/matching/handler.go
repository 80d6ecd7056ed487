package matching

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/592Darkness/ride-dispatch/pkg/common"
	"github.com/592Darkness/ride-dispatch/pkg/middleware"
)

// Handler handles HTTP requests for driver matching
type Handler struct {
	service *Service
}

// NewHandler creates a new matching handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AcceptRide lets an authenticated driver claim a searching ride
func (h *Handler) AcceptRide(c *gin.Context) {
	driverID, err := middleware.GetUserID(c)
	if err != nil {
		common.AppErrorResponse(c, common.NewUnauthorizedError("authentication required"))
		return
	}

	rideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.AppErrorResponse(c, common.NewBadRequestError("invalid ride ID", err))
		return
	}

	assignment, err := h.service.AcceptRide(c.Request.Context(), rideID, driverID)
	switch err {
	case nil:
	case ErrRideNotClaimable:
		common.AppErrorResponse(c, common.NewConflictError("ride is no longer available"))
		return
	case ErrDriverClaimed:
		common.AppErrorResponse(c, common.NewConflictError("driver is already on a ride"))
		return
	case ErrVehicleMismatch:
		common.AppErrorResponse(c, common.NewInvalidStateError("vehicle type does not match the ride request"))
		return
	default:
		common.HandleError(c, err, "failed to accept ride")
		return
	}

	common.SuccessResponse(c, assignment)
}

// RegisterRoutes registers matching routes
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtSecret string) {
	rides := r.Group("/api/v1/rides")
	rides.Use(middleware.AuthMiddleware(jwtSecret))
	rides.Use(middleware.RequireRole("driver"))
	{
		rides.POST("/:id/accept", h.AcceptRide)
	}
}
