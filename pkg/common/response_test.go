package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newErrorTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/rides", nil)
	return c, w
}

func TestHandleError_InternalErrorIsOpaqueButRecorded(t *testing.T) {
	c, w := newErrorTestContext(t)
	cause := errors.New("connection refused")

	HandleError(c, cause, "failed to create ride")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Len(t, c.Errors, 1)
	assert.ErrorIs(t, c.Errors[0].Err, cause)
}

func TestHandleError_ServerClassAppErrorIsRecorded(t *testing.T) {
	c, w := newErrorTestContext(t)
	cause := errors.New("dial tcp: i/o timeout")

	HandleError(c, NewServiceUnavailableError("routing provider unavailable", cause), "fallback")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "i/o timeout")
	assert.Len(t, c.Errors, 1)
	assert.ErrorIs(t, c.Errors[0].Err, cause)
}

func TestHandleError_ClientErrorIsNotRecorded(t *testing.T) {
	c, w := newErrorTestContext(t)

	HandleError(c, NewBadRequestError("unsupported vehicle type", nil), "fallback")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported vehicle type")
	assert.Empty(t, c.Errors)
}
