package service

import (
	"context"
	"log"
	"time"

	boardRepo "anoa.com/neoboard/internal/modules/board/repository"
	postRepo "anoa.com/neoboard/internal/modules/post/repository"
	threadRepo "anoa.com/neoboard/internal/modules/thread/repository"
	userRepo "anoa.com/neoboard/internal/modules/user/repository"
)

const (
	DBConnected    = "connected"
	DBDisconnected = "disconnected"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type ServerInfo struct {
	Port        string
	Environment string
}

type DatabaseStats struct {
	Boards  int64 `json:"boards"`
	Users   int64 `json:"users"`
	Threads int64 `json:"threads"`
	Posts   int64 `json:"posts"`
}

type DatabaseHealth struct {
	Status string         `json:"status"`
	Driver string         `json:"driver"`
	Stats  *DatabaseStats `json:"stats,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type ServerHealth struct {
	Port        string  `json:"port"`
	Environment string  `json:"environment"`
	Uptime      float64 `json:"uptime"`
}

type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Database  DatabaseHealth `json:"database"`
	Server    ServerHealth   `json:"server"`
}

type StatService interface {
	Health(ctx context.Context) HealthResponse
	DatabaseStatus(ctx context.Context) string
}

type statService struct {
	db         Pinger
	driver     string
	info       ServerInfo
	startedAt  time.Time
	boardRepo  boardRepo.BoardRepository
	userRepo   userRepo.UserRepository
	threadRepo threadRepo.Repository
	postRepo   postRepo.PostRepository
}

func NewStatService(db Pinger, driver string, info ServerInfo, boardRepo boardRepo.BoardRepository, userRepo userRepo.UserRepository, threadRepo threadRepo.Repository, postRepo postRepo.PostRepository) StatService {
	return &statService{
		db:         db,
		driver:     driver,
		info:       info,
		startedAt:  time.Now(),
		boardRepo:  boardRepo,
		userRepo:   userRepo,
		threadRepo: threadRepo,
		postRepo:   postRepo,
	}
}

func (s *statService) DatabaseStatus(ctx context.Context) string {
	if s.db == nil {
		return DBDisconnected
	}
	if err := s.db.PingContext(ctx); err != nil {
		return DBDisconnected
	}
	return DBConnected
}

func (s *statService) Health(ctx context.Context) HealthResponse {
	resp := HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Database: DatabaseHealth{
			Status: s.DatabaseStatus(ctx),
			Driver: s.driver,
		},
		Server: ServerHealth{
			Port:        s.info.Port,
			Environment: s.info.Environment,
			Uptime:      time.Since(s.startedAt).Seconds(),
		},
	}

	if resp.Database.Status != DBConnected {
		return resp
	}

	stats, err := s.countAll(ctx)
	if err != nil {
		log.Printf("Failed to fetch database stats: %v", err)
		resp.Database.Error = "Could not fetch stats"
		return resp
	}
	resp.Database.Stats = stats
	return resp
}

func (s *statService) countAll(ctx context.Context) (*DatabaseStats, error) {
	var stats DatabaseStats
	var err error

	if stats.Boards, err = s.boardRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Users, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Threads, err = s.threadRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Posts, err = s.postRepo.Count(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
