package handler

import (
	"net/http"

	statService "anoa.com/neoboard/internal/modules/stat/service"
	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

type StatHandler struct {
	statService statService.StatService
}

func NewStatHandler(statService statService.StatService) *StatHandler {
	return &StatHandler{statService: statService}
}

func (h *StatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.statService.Health(c.Request.Context()))
}

// Root describes the service and where its main endpoints live.
func (h *StatHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  "NeoBoard API Server",
		"status":   "running",
		"version":  Version,
		"database": h.statService.DatabaseStatus(c.Request.Context()),
		"endpoints": gin.H{
			"health":      "/api/health",
			"boards":      "/api/boards",
			"threads":     "/api/threads",
			"posts":       "/api/posts",
			"auth":        "/api/auth",
			"search":      "/api/search",
			"leaderboard": "/api/leaderboard",
			"metrics":     "/metrics",
		},
	})
}
