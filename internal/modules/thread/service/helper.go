package thread

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"anoa.com/neoboard/internal/entity"
	realtime "anoa.com/neoboard/internal/modules/realtime/service"
	repo "anoa.com/neoboard/internal/modules/thread/repository"
	"anoa.com/neoboard/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *service) findActive(ctx context.Context, id uuid.UUID) (*entity.Thread, error) {
	thread, err := s.threadRepo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, s.wrapNotFound(err, "failed to fetch thread")
	}
	return thread, nil
}

func (s *service) findBoard(ctx context.Context, id uuid.UUID) (*entity.Board, error) {
	board, err := s.boardRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Board not found")
		}
		return nil, fmt.Errorf("failed to fetch board: %w", err)
	}
	return board, nil
}

func (s *service) wrapNotFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("Thread not found")
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Search and live updates are best effort once the write has committed.

func (s *service) indexThread(thread *entity.Thread) {
	if s.meili == nil {
		return
	}
	if err := s.meili.IndexThread(thread); err != nil {
		log.Printf("Failed to index thread %s: %v", thread.ID, err)
	}
}

func (s *service) unindexThread(result *repo.DeleteResult) {
	if s.meili == nil {
		return
	}
	if err := s.meili.DeleteThread(result.Thread.ID, result.PostIDs); err != nil {
		log.Printf("Failed to remove thread %s from search: %v", result.Thread.ID, err)
	}
}

func (s *service) publish(ctx context.Context, event realtime.Event) {
	if s.hub == nil {
		return
	}
	if err := s.hub.Publish(ctx, event); err != nil {
		log.Printf("Failed to publish %s for thread %s: %v", event.Type, event.ThreadID, err)
	}
}

// cleanTags trims each tag and drops the ones left empty.
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}
