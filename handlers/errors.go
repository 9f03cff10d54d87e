package handlers

import (
	"net/http"

	"stationbook/services/booking"
	"stationbook/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps stable service error codes to HTTP statuses.
func statusFor(code string) int {
	switch code {
	case booking.CodeConflict, booking.CodeAlreadyExists:
		return http.StatusConflict
	case booking.CodeNotFound:
		return http.StatusNotFound
	case booking.CodeUnauthorized:
		return http.StatusUnauthorized
	case booking.CodeBadRequest:
		return http.StatusBadRequest
	case booking.CodeInvalidState:
		return http.StatusConflict
	case booking.CodeUpstream:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// renderError writes the standard failure payload for a service error.
func renderError(c *gin.Context, err error) {
	code := booking.CodeOf(err)
	utils.JSONError(c, statusFor(code), code, err.Error())
}
