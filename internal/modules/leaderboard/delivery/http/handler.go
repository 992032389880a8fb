package handler

import (
	"net/http"
	"strconv"

	leaderboardDto "anoa.com/neoboard/internal/modules/leaderboard/dto"
	leaderboardService "anoa.com/neoboard/internal/modules/leaderboard/service"
	"anoa.com/neoboard/pkg/response"
	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	service leaderboardService.LeaderboardService
}

func NewLeaderboardHandler(service leaderboardService.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.service.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, leaderboardDto.LeaderboardResponse{Success: true, Data: entries})
}
