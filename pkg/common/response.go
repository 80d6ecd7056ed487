package common

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/592Darkness/ride-dispatch/pkg/logger"
)

// APIResponse is the standard response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError is the error payload inside an APIResponse
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta holds pagination metadata
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// SuccessResponse sends a 200 response with data
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// SuccessResponseWithStatus sends a response with a custom status code
func SuccessResponseWithStatus(c *gin.Context, status int, data interface{}) {
	c.JSON(status, APIResponse{Success: true, Data: data})
}

// SuccessResponseWithMeta sends a 200 response with data and pagination metadata
func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: meta})
}

// CreatedResponse sends a 201 response with data
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// ErrorResponse sends an error response with the given status code
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{Success: false, Error: &APIError{Code: http.StatusText(status), Message: message}})
}

// AppErrorResponse sends an error response derived from an AppError
func AppErrorResponse(c *gin.Context, err *AppError) {
	c.JSON(err.StatusCode, APIResponse{Success: false, Error: &APIError{Code: err.Code, Message: err.Message}})
}

// HandleError maps any error to an API response. Internal details stay out of
// the payload, but server-class failures must still land somewhere: they are
// logged with the request context and attached to the gin error list so the
// request logger sees them.
func HandleError(c *gin.Context, err error, fallbackMessage string) {
	if appErr, ok := err.(*AppError); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			logServerError(c, appErr, appErr.Message)
		}
		AppErrorResponse(c, appErr)
		return
	}
	logServerError(c, err, fallbackMessage)
	ErrorResponse(c, http.StatusInternalServerError, fallbackMessage)
}

func logServerError(c *gin.Context, err error, message string) {
	_ = c.Error(err)

	ctx := context.Background()
	if c.Request != nil {
		ctx = c.Request.Context()
	}
	logger.WithContext(ctx).Error(message, zap.Error(err))
}
