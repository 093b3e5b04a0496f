package api

import (
	"errors"
	"log"
	"net/http"

	"coachtrack/fitness-api/internal/apperror"

	"github.com/gin-gonic/gin"
)

// errorBody is the wire shape of a failure.
type errorBody struct {
	Code    apperror.Code `json:"code"`
	Message string        `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// respondError is the single boundary translator from error kinds to the
// wire envelope. Everything unclassified becomes INTERNAL_ERROR with a
// generic message; the cause is logged server-side only.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		log.Printf("ERROR: unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		appErr = &apperror.Error{Code: apperror.CodeInternal, Message: "Unexpected error"}
	}

	c.AbortWithStatusJSON(statusFor(appErr), errorEnvelope{
		Error: errorBody{Code: appErr.Code, Message: appErr.Message},
	})
}

func statusFor(err *apperror.Error) int {
	if err.Status != 0 {
		return err.Status
	}
	switch err.Code {
	case apperror.CodeValidation:
		return http.StatusBadRequest
	case apperror.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperror.CodeForbidden:
		return http.StatusForbidden
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondBindingError maps gin binding failures to VALIDATION_ERROR.
func respondBindingError(c *gin.Context, err error) {
	respondError(c, apperror.Validation(err.Error()))
}
