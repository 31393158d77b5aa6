package handlers

import (
	"net/http"

	"SafeAlarm/pkg/errors"

	"github.com/gin-gonic/gin"
)

func httpStatus(code string) int {
	switch code {
	case errors.CodeInvalidArgument:
		return http.StatusBadRequest
	case errors.CodeUnauthenticated:
		return http.StatusUnauthorized
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		// transport-failure and internal both surface as 500
		return http.StatusInternalServerError
	}
}

// failJSON renders the structured failure shape used by the callable
// surfaces: {"error":{"status":"<code>","message":"..."}}.
func failJSON(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.JSON(httpStatus(code), gin.H{
		"error": gin.H{"status": code, "message": errors.GetMessage(err)},
	})
}
