package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/neoboard/internal/entity"
	"anoa.com/neoboard/internal/modules/board/dto"
	"anoa.com/neoboard/internal/modules/board/repository"
	"anoa.com/neoboard/pkg/apperror"
	commonDto "anoa.com/neoboard/pkg/dto"
	"anoa.com/neoboard/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardService interface {
	ListBoards(ctx context.Context) ([]commonDto.BoardResponse, error)
	GetBoard(ctx context.Context, id uuid.UUID) (*commonDto.BoardResponse, error)
	CreateBoard(ctx context.Context, auth response.AuthContext, req dto.CreateBoardRequest) (*commonDto.BoardResponse, error)
	UpdateBoard(ctx context.Context, auth response.AuthContext, id uuid.UUID, req dto.UpdateBoardRequest) (*commonDto.BoardResponse, error)
	DeleteBoard(ctx context.Context, auth response.AuthContext, id uuid.UUID) error
}

type boardService struct {
	repo repository.BoardRepository
	now  func() time.Time
}

func NewBoardService(repo repository.BoardRepository) BoardService {
	return &boardService{repo: repo, now: time.Now}
}

func (s *boardService) ListBoards(ctx context.Context) ([]commonDto.BoardResponse, error) {
	boards, err := s.repo.FindAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boards: %w", err)
	}

	resp := make([]commonDto.BoardResponse, 0, len(boards))
	for _, b := range boards {
		resp = append(resp, dto.NewBoardResponse(b))
	}
	return resp, nil
}

func (s *boardService) GetBoard(ctx context.Context, id uuid.UUID) (*commonDto.BoardResponse, error) {
	board, err := s.findActive(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.repo.TouchActivity(ctx, board.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update board activity: %w", err)
	}
	board.LastActivity = now

	resp := dto.NewBoardResponse(board)
	return &resp, nil
}

func (s *boardService) CreateBoard(ctx context.Context, auth response.AuthContext, req dto.CreateBoardRequest) (*commonDto.BoardResponse, error) {
	if !auth.Authenticated() {
		return nil, apperror.Unauthorized("Access denied. No token provided.")
	}

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperror.BadRequest("Description is required")
	}

	exists, err := s.repo.ExistsActiveByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check board name: %w", err)
	}
	if exists {
		return nil, apperror.Conflict("Board name already exists")
	}

	board := &entity.Board{
		Name:         name,
		Description:  description,
		Category:     req.Category,
		IsNSFW:       req.IsNSFW,
		IsActive:     true,
		CreatedBy:    *auth.UserID,
		LastActivity: s.now(),
	}
	if err := s.repo.Create(ctx, board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	resp := dto.NewBoardResponse(board)
	return &resp, nil
}

func (s *boardService) UpdateBoard(ctx context.Context, auth response.AuthContext, id uuid.UUID, req dto.UpdateBoardRequest) (*commonDto.BoardResponse, error) {
	board, err := s.findActive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AssertOwner(board.CreatedBy, "Not authorized to update this board"); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Description != nil {
		board.Description = strings.TrimSpace(*req.Description)
		if board.Description == "" {
			return nil, apperror.BadRequest("Description is required")
		}
		fields["description"] = board.Description
	}
	if req.Category != nil {
		board.Category = *req.Category
		fields["category"] = board.Category
	}
	if req.IsNSFW != nil {
		board.IsNSFW = *req.IsNSFW
		fields["is_nsfw"] = board.IsNSFW
	}

	if err := s.repo.Update(ctx, board.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	resp := dto.NewBoardResponse(board)
	return &resp, nil
}

func (s *boardService) DeleteBoard(ctx context.Context, auth response.AuthContext, id uuid.UUID) error {
	board, err := s.findActive(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AssertOwner(board.CreatedBy, "Not authorized to delete this board"); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, board.ID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	return nil
}

func (s *boardService) findActive(ctx context.Context, id uuid.UUID) (*entity.Board, error) {
	board, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Board not found")
		}
		return nil, fmt.Errorf("failed to fetch board: %w", err)
	}
	return board, nil
}
