package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/clinic-registry/pkg/httputil"
	pkgvalidator "github.com/jwalitptl/clinic-registry/pkg/validator"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationResponse struct {
	httputil.Response
	Errors []ValidationError `json:"errors"`
}

// Validation reports request binding failures field by field, using json names.
func Validation() gin.HandlerFunc {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(pkgvalidator.JSONFieldName)
	}

	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		var validationErrors []ValidationError
		for _, ginErr := range c.Errors.ByType(gin.ErrorTypeBind) {
			var errs validator.ValidationErrors
			if !errors.As(ginErr.Err, &errs) {
				continue
			}
			for _, e := range errs {
				validationErrors = append(validationErrors, ValidationError{
					Field:   e.Field(),
					Message: pkgvalidator.Message(e),
				})
			}
		}

		if len(validationErrors) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, validationResponse{
				Response: httputil.Response{Status: "error", Message: "validation failed", Code: "bad_request"},
				Errors:   validationErrors,
			})
		}
	}
}
