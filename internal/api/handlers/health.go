package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	storageEnabled bool
}

func NewHealthHandler(storageEnabled bool) *HealthHandler {
	return &HealthHandler{storageEnabled: storageEnabled}
}

// GetHealth returns 200 whenever the server is running
func (h *HealthHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"service":         "edge-sim",
		"time":            time.Now().UTC(),
		"storage_enabled": h.storageEnabled,
	})
}
