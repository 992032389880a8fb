package dto

import commonDto "anoa.com/neoboard/pkg/dto"

// LeaderboardEntry is one user in the top posters list. Position is 1-based.
type LeaderboardEntry struct {
	Position int                    `json:"position"`
	User     commonDto.UserResponse `json:"user"`
}

type LeaderboardResponse struct {
	Success bool               `json:"success"`
	Data    []LeaderboardEntry `json:"data"`
}
