package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/debtbook/notify"
)

const noticesKey = "debtbook.notices"

// Notices gives every request its own notify.Recorder. Handlers dispatch
// intents into it and send back whatever it holds with the response.
func Notices() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(noticesKey, &notify.Recorder{})
		c.Next()
	}
}

// RequestNotices returns the request's recorder, creating one when the
// Notices middleware is not installed.
func RequestNotices(c *gin.Context) *notify.Recorder {
	if v, ok := c.Get(noticesKey); ok {
		if rec, ok := v.(*notify.Recorder); ok {
			return rec
		}
	}
	rec := &notify.Recorder{}
	c.Set(noticesKey, rec)
	return rec
}
