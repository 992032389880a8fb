package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"strings"

	"anoa.com/neoboard/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const (
	threadsIndex = "threads"
	postsIndex   = "posts"
)

type SearchService interface {
	IndexThread(thread *entity.Thread) error
	IndexPost(post *entity.Post, thread *entity.Thread) error
	DeleteThread(id uuid.UUID, postIDs []uuid.UUID) error
	DeletePost(id uuid.UUID) error
	SearchThreads(ctx context.Context, query string, boardID *uuid.UUID, limit int64) ([]ThreadHit, error)
}

// ThreadHit is a thread document as stored in the index.
type ThreadHit struct {
	ID         string   `json:"id"`
	BoardID    string   `json:"board_id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Author     string   `json:"author"`
	ReplyCount int      `json:"reply_count"`
	CreatedAt  int64    `json:"created_at"`
}

type meiliPostDoc struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	ThreadID    string `json:"thread_id"`
	ThreadTitle string `json:"thread_title"`
	BoardID     string `json:"board_id"`
	Author      string `json:"author"`
	CreatedAt   int64  `json:"created_at"`
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	threadFilterable := []any{"board_id"}
	if _, err := s.client.Index(threadsIndex).UpdateFilterableAttributes(&threadFilterable); err != nil {
		log.Printf("Failed to update threads filterable attributes: %v", err)
	}

	threadSortable := []string{"created_at", "reply_count"}
	if _, err := s.client.Index(threadsIndex).UpdateSortableAttributes(&threadSortable); err != nil {
		log.Printf("Failed to update threads sortable attributes: %v", err)
	}

	postFilterable := []any{"thread_id", "board_id"}
	if _, err := s.client.Index(postsIndex).UpdateFilterableAttributes(&postFilterable); err != nil {
		log.Printf("Failed to update posts filterable attributes: %v", err)
	}

	log.Println("🔎 Meilisearch indexes initialized")
}

func (s *meiliSearchService) IndexThread(thread *entity.Thread) error {
	doc := ThreadHit{
		ID:         thread.ID.String(),
		BoardID:    thread.BoardID.String(),
		Title:      cleanText(s.sanitizer, thread.Title),
		Content:    cleanText(s.sanitizer, thread.Content),
		Tags:       []string(thread.Tags),
		Author:     thread.Author.DisplayName(),
		ReplyCount: thread.ReplyCount,
		CreatedAt:  thread.CreatedAt.Unix(),
	}

	task, err := s.client.Index(threadsIndex).AddDocuments([]ThreadHit{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed thread %s, task id: %d", thread.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) IndexPost(post *entity.Post, thread *entity.Thread) error {
	if thread == nil || thread.ID != post.ThreadID {
		return fmt.Errorf("post thread not loaded")
	}

	doc := meiliPostDoc{
		ID:          post.ID.String(),
		Content:     cleanText(s.sanitizer, post.Content),
		ThreadID:    post.ThreadID.String(),
		ThreadTitle: thread.Title,
		BoardID:     thread.BoardID.String(),
		Author:      post.Author.DisplayName(),
		CreatedAt:   post.CreatedAt.Unix(),
	}

	task, err := s.client.Index(postsIndex).AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed post %s, task id: %d", post.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeleteThread(id uuid.UUID, postIDs []uuid.UUID) error {
	if _, err := s.client.Index(threadsIndex).DeleteDocument(id.String()); err != nil {
		return err
	}
	for _, postID := range postIDs {
		if _, err := s.client.Index(postsIndex).DeleteDocument(postID.String()); err != nil {
			return err
		}
	}
	return nil
}

func (s *meiliSearchService) DeletePost(id uuid.UUID) error {
	_, err := s.client.Index(postsIndex).DeleteDocument(id.String())
	return err
}

func (s *meiliSearchService) SearchThreads(ctx context.Context, query string, boardID *uuid.UUID, limit int64) ([]ThreadHit, error) {
	req := &meilisearch.SearchRequest{Limit: limit}
	if boardID != nil {
		req.Filter = fmt.Sprintf("board_id = %q", boardID.String())
	}

	raw, err := s.client.Index(threadsIndex).SearchRawWithContext(ctx, query, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search threads: %w", err)
	}

	var result struct {
		Hits []ThreadHit `json:"hits"`
	}
	if raw != nil {
		if err := json.Unmarshal(*raw, &result); err != nil {
			return nil, fmt.Errorf("failed to decode search response: %w", err)
		}
	}
	if result.Hits == nil {
		result.Hits = []ThreadHit{}
	}
	return result.Hits, nil
}

// cleanText strips markup and collapses whitespace for indexing.
func cleanText(p *bluemonday.Policy, content string) string {
	// Replace block tags with spaces to prevent text merging
	for _, tag := range []string{"</p>", "<br>", "<br/>", "</div>"} {
		content = strings.ReplaceAll(content, tag, " ")
	}

	cleaned := html.UnescapeString(p.Sanitize(content))
	return strings.Join(strings.Fields(cleaned), " ")
}

func strPtr(s string) *string {
	return &s
}
