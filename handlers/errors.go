package handlers

import (
	"guidely/services/booking"
	"guidely/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status and a structured body.
func respondError(c *gin.Context, err error) {
	utils.JSONError(c, booking.HTTPStatus(err), string(booking.KindOf(err)), err.Error())
}

// callerFromContext reads the identity placed by the auth middleware.
func callerFromContext(c *gin.Context) booking.Caller {
	id, _ := c.Get("callerID")
	role, _ := c.Get("callerRole")
	caller := booking.Caller{}
	if s, ok := id.(string); ok {
		caller.ID = s
	}
	if s, ok := role.(string); ok {
		caller.Role = s
	}
	return caller
}
