package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseID reads the :id URL parameter. A non-numeric value behaves like a
// missing record, so callers 404 on !ok.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
