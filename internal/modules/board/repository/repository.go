package repository

import (
	"context"
	"strings"
	"time"

	"anoa.com/neoboard/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository interface {
	Create(ctx context.Context, board *entity.Board) error
	FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Board, error)
	ExistsActiveByName(ctx context.Context, name string) (bool, error)
	FindAllActive(ctx context.Context) ([]*entity.Board, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	ReconcileCounters(ctx context.Context) (int64, error)
}

type boardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepository{db: db}
}

func (r *boardRepository) Create(ctx context.Context, board *entity.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *boardRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Board, error) {
	var board entity.Board
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&board).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) ExistsActiveByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Board{}).
		Where("LOWER(name) = ? AND is_active = ?", strings.ToLower(name), true).
		Count(&count).Error
	return count > 0, err
}

func (r *boardRepository) FindAllActive(ctx context.Context) ([]*entity.Board, error) {
	var boards []*entity.Board
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("last_activity DESC").
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *boardRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&entity.Board{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *boardRepository) TouchActivity(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.Board{}).
		Where("id = ?", id).
		UpdateColumn("last_activity", at).Error
}

func (r *boardRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Board{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *boardRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Board{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

const reconcileRepliesSQL = `
UPDATE threads SET reply_count = (
	SELECT COUNT(*) FROM posts
	WHERE posts.thread_id = threads.id AND posts.is_active = ? AND posts.is_op = ?
)
WHERE is_active = ?`

const reconcileBoardsSQL = `
UPDATE boards SET
	thread_count = (
		SELECT COUNT(*) FROM threads
		WHERE threads.board_id = boards.id AND threads.is_active = ?
	),
	post_count = (
		SELECT COUNT(*) FROM posts
		JOIN threads ON threads.id = posts.thread_id
		WHERE threads.board_id = boards.id AND threads.is_active = ? AND posts.is_active = ?
	)
WHERE is_active = ?`

// ReconcileCounters recomputes thread reply counts and board thread/post
// counts from the active rows. It returns the number of rows rewritten.
func (r *boardRepository) ReconcileCounters(ctx context.Context) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(reconcileRepliesSQL, true, false, true)
		if res.Error != nil {
			return res.Error
		}
		affected += res.RowsAffected

		res = tx.Exec(reconcileBoardsSQL, true, true, true, true)
		if res.Error != nil {
			return res.Error
		}
		affected += res.RowsAffected
		return nil
	})
	return affected, err
}
