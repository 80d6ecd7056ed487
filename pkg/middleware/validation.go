package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/592Darkness/ride-dispatch/pkg/validation"
)

// ValidateJSON binds the JSON body to req and validates it
func ValidateJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return err
	}
	return validation.ValidateStruct(req)
}

// RespondWithValidationError sends a standardized validation error response
func RespondWithValidationError(c *gin.Context, err error) {
	if valErr, ok := err.(*validation.ValidationError); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Validation failed",
			"fields": valErr.Errors,
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Validation failed",
		"details": err.Error(),
	})
}

// ValidateAndBind validates and binds a JSON request body. Returns true when
// validation passes; otherwise it has already sent the error response.
func ValidateAndBind(c *gin.Context, req interface{}) bool {
	if err := ValidateJSON(c, req); err != nil {
		RespondWithValidationError(c, err)
		return false
	}
	return true
}
