package service

import (
	"context"
	"fmt"

	leaderboardDto "anoa.com/neoboard/internal/modules/leaderboard/dto"
	userDto "anoa.com/neoboard/internal/modules/user/dto"
	userRepo "anoa.com/neoboard/internal/modules/user/repository"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, limit int) ([]leaderboardDto.LeaderboardEntry, error)
}

type leaderboardService struct {
	userRepo userRepo.UserRepository
}

func NewLeaderboardService(userRepo userRepo.UserRepository) LeaderboardService {
	return &leaderboardService{userRepo: userRepo}
}

// GetLeaderboard ranks registered users by their post count. Anonymous
// sessions are never listed.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]leaderboardDto.LeaderboardEntry, error) {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	users, err := s.userRepo.FindTopPosters(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}

	entries := make([]leaderboardDto.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, leaderboardDto.LeaderboardEntry{
			Position: i + 1,
			User:     userDto.NewUserResponse(u, false),
		})
	}
	return entries, nil
}
