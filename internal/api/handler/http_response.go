package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/debtbook/internal/api/middleware"
	"github.com/rustyeddy/debtbook/notify"
)

// Response is the envelope every JSON endpoint answers with.
type Response struct {
	Data          any             `json:"data,omitempty"`
	Error         *ErrorInfo      `json:"error,omitempty"`
	Notifications []notify.Notice `json:"notifications,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithData sends a JSON response with data and any notifications the
// request raised.
func RespondWithData(c *gin.Context, statusCode int, data any, notes []notify.Notice) {
	c.JSON(statusCode, &Response{
		Data:          data,
		Notifications: notes,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string, notes []notify.Notice) {
	c.JSON(statusCode, &Response{
		Error:         &ErrorInfo{Code: code, Message: message},
		Notifications: notes,
		CorrelationID: middleware.GetCorrelationID(c),
	})
}

func RespondOK(c *gin.Context, data any, notes []notify.Notice) {
	RespondWithData(c, http.StatusOK, data, notes)
}

func RespondCreated(c *gin.Context, data any, notes []notify.Notice) {
	RespondWithData(c, http.StatusCreated, data, notes)
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string, notes []notify.Notice) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message, notes)
}

// RespondNotFound sends a 404 Not Found response with an error
func RespondNotFound(c *gin.Context, message string, notes []notify.Notice) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, "NOT_FOUND", message, notes)
}

// RespondInternalError sends a 500 Internal Server Error response
func RespondInternalError(c *gin.Context, notes []notify.Notice) {
	RespondWithError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "An internal server error occurred", notes)
}
