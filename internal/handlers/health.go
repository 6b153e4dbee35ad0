package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/sales-objectives-api/internal/database"
)

// Health reports whether the API and its database are reachable.
func Health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "ok"

	if db := database.GetDB(); db == nil {
		status = http.StatusServiceUnavailable
		dbStatus = "not connected"
	} else if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "unreachable"
	}

	c.JSON(status, gin.H{
		"status":   http.StatusText(status),
		"database": dbStatus,
		"message":  "Sales Objectives API is running",
	})
}
