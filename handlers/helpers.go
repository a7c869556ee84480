package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"delivery-marketplace/lifecycle"
	"delivery-marketplace/statemachine"

	"github.com/gin-gonic/gin"
)

// respondLifecycleError maps the transition error taxonomy onto HTTP codes:
// not found → 404, wrong actor → 403, lost claim race / duplicate task → 409,
// illegal transition → 422. Anything else is a server fault.
func respondLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrUnauthorizedActor):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrAlreadyClaimed),
		errors.Is(err, lifecycle.ErrActiveTaskExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, statemachine.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error: " + err.Error()})
	}
}

// parseID reads a numeric path parameter, responding 400 on garbage input.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param + " parameter"})
		return 0, false
	}
	return uint(id), true
}
