package thread

import (
	"context"
	"fmt"
	"strings"
	"time"

	"anoa.com/neoboard/internal/entity"
	boardRepo "anoa.com/neoboard/internal/modules/board/repository"
	realtime "anoa.com/neoboard/internal/modules/realtime/service"
	search "anoa.com/neoboard/internal/modules/search/service"
	threadDto "anoa.com/neoboard/internal/modules/thread/dto"
	repo "anoa.com/neoboard/internal/modules/thread/repository"
	"anoa.com/neoboard/pkg/apperror"
	commonDto "anoa.com/neoboard/pkg/dto"
	"anoa.com/neoboard/pkg/metrics"
	"anoa.com/neoboard/pkg/ratelimiter"
	"anoa.com/neoboard/pkg/response"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultPageLimit = 20

type Service interface {
	ListByBoard(ctx context.Context, boardID uuid.UUID, query threadDto.ThreadListQuery) ([]commonDto.ThreadResponse, error)
	GetThread(ctx context.Context, id uuid.UUID) (*commonDto.ThreadResponse, error)
	CreateThread(ctx context.Context, auth response.AuthContext, req threadDto.CreateThreadRequest) (*commonDto.ThreadResponse, error)
	UpdateThread(ctx context.Context, auth response.AuthContext, id uuid.UUID, req threadDto.UpdateThreadRequest) (*commonDto.ThreadResponse, error)
	DeleteThread(ctx context.Context, auth response.AuthContext, id uuid.UUID) error
}

type service struct {
	threadRepo  repo.Repository
	boardRepo   boardRepo.BoardRepository
	redisClient *redis.Client
	cooldown    time.Duration
	meili       search.SearchService
	hub         realtime.Hub
}

// NewService wires the thread use cases. redisClient, meili and hub may be nil.
func NewService(threadRepo repo.Repository, boardRepo boardRepo.BoardRepository, redisClient *redis.Client, cooldown time.Duration, meili search.SearchService, hub realtime.Hub) Service {
	return &service{
		threadRepo:  threadRepo,
		boardRepo:   boardRepo,
		redisClient: redisClient,
		cooldown:    cooldown,
		meili:       meili,
		hub:         hub,
	}
}

func (s *service) ListByBoard(ctx context.Context, boardID uuid.UUID, query threadDto.ThreadListQuery) ([]commonDto.ThreadResponse, error) {
	if _, err := s.findBoard(ctx, boardID); err != nil {
		return nil, err
	}

	offset := query.Normalize(DefaultPageLimit)
	threads, err := s.threadRepo.FindActiveByBoard(ctx, boardID, query.Sort, offset, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch threads: %w", err)
	}

	resp := make([]commonDto.ThreadResponse, 0, len(threads))
	for _, t := range threads {
		resp = append(resp, threadDto.NewThreadResponse(t))
	}
	return resp, nil
}

func (s *service) GetThread(ctx context.Context, id uuid.UUID) (*commonDto.ThreadResponse, error) {
	thread, err := s.findActive(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := threadDto.NewThreadResponse(thread)
	return &resp, nil
}

func (s *service) CreateThread(ctx context.Context, auth response.AuthContext, req threadDto.CreateThreadRequest) (*commonDto.ThreadResponse, error) {
	if !auth.Authenticated() {
		return nil, apperror.Unauthorized("Access denied. No token provided.")
	}

	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		return nil, apperror.NotFound("Board not found")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperror.BadRequest("Title is required")
	}

	release, err := ratelimiter.Acquire(ctx, s.redisClient, *auth.UserID, ratelimiter.ScopeThread, s.cooldown)
	if err != nil {
		return nil, err
	}
	created := false
	defer func() {
		if !created {
			release()
		}
	}()

	board, err := s.findBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	thread := &entity.Thread{
		BoardID:   board.ID,
		Title:     title,
		Content:   req.Content,
		AuthorID:  *auth.UserID,
		Images:    req.Images,
		Tags:      cleanTags(req.Tags),
		IsActive:  true,
		LastReply: now,
		CreatedAt: now,
	}
	op := &entity.Post{
		Content:  req.Content,
		AuthorID: *auth.UserID,
		Images:   req.Images,
		IsActive: true,
	}

	if err := s.threadRepo.CreateWithOriginalPost(ctx, thread, op); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	created = true
	metrics.ThreadsCreated.Inc()

	saved, err := s.findActive(ctx, thread.ID)
	if err != nil {
		return nil, err
	}
	s.indexThread(saved)

	resp := threadDto.NewThreadResponse(saved)
	return &resp, nil
}

func (s *service) UpdateThread(ctx context.Context, auth response.AuthContext, id uuid.UUID, req threadDto.UpdateThreadRequest) (*commonDto.ThreadResponse, error) {
	thread, err := s.findActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AssertOwner(thread.AuthorID, "Not authorized to update this thread"); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.IsSticky != nil {
		thread.IsSticky = *req.IsSticky
		fields["is_sticky"] = thread.IsSticky
	}
	if req.IsLocked != nil {
		thread.IsLocked = *req.IsLocked
		fields["is_locked"] = thread.IsLocked
	}

	if err := s.threadRepo.UpdateFlags(ctx, thread.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to update thread: %w", err)
	}

	resp := threadDto.NewThreadResponse(thread)
	return &resp, nil
}

func (s *service) DeleteThread(ctx context.Context, auth response.AuthContext, id uuid.UUID) error {
	thread, err := s.findActive(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AssertOwner(thread.AuthorID, "Not authorized to delete this thread"); err != nil {
		return err
	}

	result, err := s.threadRepo.SoftDeleteCascade(ctx, thread.ID)
	if err != nil {
		return s.wrapNotFound(err, "failed to delete thread")
	}

	s.unindexThread(result)
	s.publish(ctx, realtime.Event{Type: realtime.EventThreadDeleted, ThreadID: thread.ID})
	return nil
}
