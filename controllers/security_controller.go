package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/permauto/backend/store"
)

// GET /admin/security
//
// Gate logs are written by the entrance hardware integration; this API
// only reads them.
func ListSecurityLogs(logs store.SecurityLogs) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := logs.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to list security logs", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "logs": items})
	}
}
