package apiclient

import (
	"context"
	"slices"
	"strings"

	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/dto"
	"github.com/google/uuid"
)

const (
	threadPageLimit = 20
	postPageLimit   = 50
)

func (s *MemoryStore) findThread(id uuid.UUID) (*memThread, error) {
	for _, t := range s.threads {
		if t.ID == id && t.active {
			return t, nil
		}
	}
	return nil, apperror.NotFound("Thread not found")
}

func (s *MemoryStore) findPost(id uuid.UUID) (*memPost, error) {
	for _, p := range s.posts {
		if p.ID == id && p.active {
			return p, nil
		}
	}
	return nil, apperror.NotFound("Post not found")
}

// insertThread creates the thread with its OP post and bumps the board and
// author counters.
func (s *MemoryStore) insertThread(author *memUser, board *memBoard, req CreateThreadRequest) *memThread {
	now := s.now()
	t := &memThread{
		ThreadResponse: dto.ThreadResponse{
			ID:        uuid.New(),
			BoardID:   board.ID,
			Title:     req.Title,
			Content:   req.Content,
			Author:    author.public(false),
			CreatedAt: now,
			LastReply: now,
			Images:    orEmpty(req.Images),
			Tags:      trimTags(req.Tags),
		},
		active: true,
	}
	s.threads = append(s.threads, t)
	s.posts = append(s.posts, &memPost{
		PostResponse: dto.PostResponse{
			ID:        uuid.New(),
			ThreadID:  t.ID,
			Content:   req.Content,
			Author:    t.Author,
			CreatedAt: now,
			Images:    orEmpty(req.Images),
			IsOP:      true,
		},
		active: true,
	})

	board.ThreadCount++
	board.PostCount++
	board.LastActivity = now
	author.profile.PostCount++
	return t
}

func (s *MemoryStore) insertPost(author *memUser, thread *memThread, req CreatePostRequest) *memPost {
	now := s.now()
	p := &memPost{
		PostResponse: dto.PostResponse{
			ID:        uuid.New(),
			ThreadID:  thread.ID,
			Content:   req.Content,
			Author:    author.public(false),
			CreatedAt: now,
			ReplyTo:   req.ReplyTo,
			Images:    orEmpty(req.Images),
		},
		active: true,
	}
	s.posts = append(s.posts, p)

	thread.ReplyCount++
	thread.LastReply = now
	if board, err := s.findBoard(thread.BoardID); err == nil {
		board.PostCount++
		board.LastActivity = now
	}
	author.profile.PostCount++
	return p
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return slices.Clone(v)
}

func trimTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func page[T any](items []T, q dto.PageQuery, defaultLimit int) []T {
	offset := q.Normalize(defaultLimit)
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+q.Limit, len(items))
	return items[offset:end]
}

func (s *MemoryStore) ListThreads(ctx context.Context, boardID uuid.UUID, q ThreadQuery) ([]dto.ThreadResponse, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findBoard(boardID); err != nil {
		return nil, err
	}

	var out []dto.ThreadResponse
	for _, t := range s.threads {
		if t.active && t.BoardID == boardID {
			out = append(out, t.ThreadResponse)
		}
	}
	slices.SortStableFunc(out, threadOrder(q.Sort))
	return page(out, q.PageQuery, threadPageLimit), nil
}

func threadOrder(sort string) func(a, b dto.ThreadResponse) int {
	switch sort {
	case "newest":
		return func(a, b dto.ThreadResponse) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case "oldest":
		return func(a, b dto.ThreadResponse) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case "replies":
		return func(a, b dto.ThreadResponse) int {
			if a.ReplyCount != b.ReplyCount {
				return b.ReplyCount - a.ReplyCount
			}
			return b.LastReply.Compare(a.LastReply)
		}
	default:
		return func(a, b dto.ThreadResponse) int {
			if a.IsSticky != b.IsSticky {
				if a.IsSticky {
					return -1
				}
				return 1
			}
			return b.LastReply.Compare(a.LastReply)
		}
	}
}

func (s *MemoryStore) GetThread(ctx context.Context, id uuid.UUID) (*dto.ThreadResponse, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.findThread(id)
	if err != nil {
		return nil, err
	}
	out := t.ThreadResponse
	return &out, nil
}

func (s *MemoryStore) CreateThread(ctx context.Context, token string, req CreateThreadRequest) (*dto.ThreadResponse, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.caller(token)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, apperror.BadRequest("Title is required")
	}
	board, err := s.findBoard(req.BoardID)
	if err != nil {
		return nil, err
	}

	out := s.insertThread(u, board, req).ThreadResponse
	return &out, nil
}

func (s *MemoryStore) UpdateThread(ctx context.Context, token string, id uuid.UUID, req UpdateThreadRequest) (*dto.ThreadResponse, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.findThread(id)
	if err != nil {
		return nil, err
	}
	if err := s.assertOwner(token, t.Author.ID, "Not authorized to update this thread"); err != nil {
		return nil, err
	}

	if req.IsSticky != nil {
		t.IsSticky = *req.IsSticky
	}
	if req.IsLocked != nil {
		t.IsLocked = *req.IsLocked
	}
	out := t.ThreadResponse
	return &out, nil
}

// DeleteThread soft-deletes the thread and its posts and takes them off the
// board counters.
func (s *MemoryStore) DeleteThread(ctx context.Context, token string, id uuid.UUID) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.findThread(id)
	if err != nil {
		return err
	}
	if err := s.assertOwner(token, t.Author.ID, "Not authorized to delete this thread"); err != nil {
		return err
	}

	t.active = false
	for _, p := range s.posts {
		if p.ThreadID == t.ID {
			p.active = false
		}
	}
	if board, err := s.findBoard(t.BoardID); err == nil {
		board.ThreadCount = max(board.ThreadCount-1, 0)
		board.PostCount = max(board.PostCount-(t.ReplyCount+1), 0)
	}
	return nil
}

func (s *MemoryStore) ListPosts(ctx context.Context, threadID uuid.UUID, q dto.PageQuery) ([]dto.PostResponse, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findThread(threadID); err != nil {
		return nil, err
	}

	var out []dto.PostResponse
	for _, p := range s.posts {
		if p.active && p.ThreadID == threadID {
			out = append(out, p.PostResponse)
		}
	}
	slices.SortStableFunc(out, func(a, b dto.PostResponse) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return page(out, q, postPageLimit), nil
}

func (s *MemoryStore) CreatePost(ctx context.Context, token string, req CreatePostRequest) (*dto.PostResponse, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.caller(token)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	t, err := s.findThread(req.ThreadID)
	if err != nil {
		return nil, err
	}
	if t.IsLocked {
		return nil, apperror.Forbidden("Thread is locked")
	}
	if req.ReplyTo != nil {
		target, err := s.findPost(*req.ReplyTo)
		if err != nil || target.ThreadID != t.ID {
			return nil, apperror.NotFound("Reply target post not found")
		}
	}

	out := s.insertPost(u, t, req).PostResponse
	return &out, nil
}

func (s *MemoryStore) UpdatePost(ctx context.Context, token string, id uuid.UUID, content string) (*dto.PostResponse, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.findPost(id)
	if err != nil {
		return nil, err
	}
	if err := s.assertOwner(token, p.Author.ID, "Not authorized to edit this post"); err != nil {
		return nil, err
	}
	if err := s.validate.Var(content, "required,max=5000"); err != nil {
		return nil, apperror.BadRequest("Content is required and must be at most 5000 characters")
	}

	p.Content = content
	out := p.PostResponse
	return &out, nil
}

func (s *MemoryStore) DeletePost(ctx context.Context, token string, id uuid.UUID) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.findPost(id)
	if err != nil {
		return err
	}
	if err := s.assertOwner(token, p.Author.ID, "Not authorized to delete this post"); err != nil {
		return err
	}
	if p.IsOP {
		return apperror.Forbidden("Cannot delete original post. Delete the thread instead.")
	}

	p.active = false
	if t, err := s.findThread(p.ThreadID); err == nil {
		t.ReplyCount = max(t.ReplyCount-1, 0)
		if board, err := s.findBoard(t.BoardID); err == nil {
			board.PostCount = max(board.PostCount-1, 0)
		}
	}
	return nil
}
