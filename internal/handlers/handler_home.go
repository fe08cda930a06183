package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getHome responds with a minimal service banner.
func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "rental-ledger",
		"status":  "ok",
	})
}
