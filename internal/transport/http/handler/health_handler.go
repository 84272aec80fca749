package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scvp-dev/scvp/internal/infrastructure/database"
)

// HealthHandler reports liveness and database reachability
func HealthHandler(db *database.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
