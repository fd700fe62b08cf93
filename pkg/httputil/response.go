package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-registry/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// StatusCode maps an error to the HTTP status it is reported with.
func StatusCode(err error) int {
	appErr, ok := errors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Code {
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrConflict:
		return http.StatusConflict
	case errors.ErrBadRequest, errors.ErrInvalidDate, errors.ErrOutOfRange:
		return http.StatusBadRequest
	case errors.ErrUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

// RespondWithCreated sends a 201 success response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Status: "success", Data: data})
}

// RespondWithError sends an error response. Internal errors are not echoed to the client.
func RespondWithError(c *gin.Context, err error) {
	status := StatusCode(err)

	resp := Response{Status: "error", Message: "Internal server error"}
	if appErr, ok := errors.As(err); ok {
		resp.Code = appErr.Code.String()
		if status != http.StatusInternalServerError {
			resp.Message = appErr.Message
		}
	}

	c.AbortWithStatusJSON(status, resp)
}
