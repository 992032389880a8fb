package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"anoa.com/neoboard/pkg/dto"
	"github.com/google/uuid"
)

// HTTPStore talks to the REST API under BaseURL (e.g. http://localhost:5000).
type HTTPStore struct {
	BaseURL    string
	HttpClient *http.Client
}

func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// do sends body as JSON, decodes a 2xx answer into out and turns anything
// else into an *APIError.
func (s *HTTPStore) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+"/api"+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cannot decode response: %w", err)
	}
	return nil
}

func pageValues(q dto.PageQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func (s *HTTPStore) auth(ctx context.Context, path string, body any) (*AuthResult, error) {
	var res AuthResult
	if err := s.do(ctx, http.MethodPost, path, "", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *HTTPStore) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	return s.auth(ctx, "/auth/register", req)
}

func (s *HTTPStore) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	return s.auth(ctx, "/auth/login", req)
}

func (s *HTTPStore) Anonymous(ctx context.Context) (*AuthResult, error) {
	return s.auth(ctx, "/auth/anonymous", nil)
}

func (s *HTTPStore) Me(ctx context.Context, token string) (*dto.UserResponse, error) {
	var res struct {
		User dto.UserResponse `json:"user"`
	}
	if err := s.do(ctx, http.MethodGet, "/auth/me", token, nil, &res); err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (s *HTTPStore) Logout(ctx context.Context, token string) error {
	return s.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

type boardEnvelope struct {
	Board dto.BoardResponse `json:"board"`
}

func (s *HTTPStore) ListBoards(ctx context.Context) ([]dto.BoardResponse, error) {
	var res struct {
		Boards []dto.BoardResponse `json:"boards"`
	}
	if err := s.do(ctx, http.MethodGet, "/boards", "", nil, &res); err != nil {
		return nil, err
	}
	return res.Boards, nil
}

func (s *HTTPStore) GetBoard(ctx context.Context, id uuid.UUID) (*dto.BoardResponse, error) {
	var res boardEnvelope
	if err := s.do(ctx, http.MethodGet, "/boards/"+id.String(), "", nil, &res); err != nil {
		return nil, err
	}
	return &res.Board, nil
}

func (s *HTTPStore) CreateBoard(ctx context.Context, token string, req CreateBoardRequest) (*dto.BoardResponse, error) {
	var res boardEnvelope
	if err := s.do(ctx, http.MethodPost, "/boards", token, req, &res); err != nil {
		return nil, err
	}
	return &res.Board, nil
}

func (s *HTTPStore) UpdateBoard(ctx context.Context, token string, id uuid.UUID, req UpdateBoardRequest) (*dto.BoardResponse, error) {
	var res boardEnvelope
	if err := s.do(ctx, http.MethodPut, "/boards/"+id.String(), token, req, &res); err != nil {
		return nil, err
	}
	return &res.Board, nil
}

func (s *HTTPStore) DeleteBoard(ctx context.Context, token string, id uuid.UUID) error {
	return s.do(ctx, http.MethodDelete, "/boards/"+id.String(), token, nil, nil)
}

type threadEnvelope struct {
	Thread dto.ThreadResponse `json:"thread"`
}

func (s *HTTPStore) ListThreads(ctx context.Context, boardID uuid.UUID, q ThreadQuery) ([]dto.ThreadResponse, error) {
	v := pageValues(q.PageQuery)
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}

	var res struct {
		Threads []dto.ThreadResponse `json:"threads"`
	}
	if err := s.do(ctx, http.MethodGet, withQuery("/threads/board/"+boardID.String(), v), "", nil, &res); err != nil {
		return nil, err
	}
	return res.Threads, nil
}

func (s *HTTPStore) GetThread(ctx context.Context, id uuid.UUID) (*dto.ThreadResponse, error) {
	var res threadEnvelope
	if err := s.do(ctx, http.MethodGet, "/threads/"+id.String(), "", nil, &res); err != nil {
		return nil, err
	}
	return &res.Thread, nil
}

func (s *HTTPStore) CreateThread(ctx context.Context, token string, req CreateThreadRequest) (*dto.ThreadResponse, error) {
	var res threadEnvelope
	if err := s.do(ctx, http.MethodPost, "/threads", token, req, &res); err != nil {
		return nil, err
	}
	return &res.Thread, nil
}

func (s *HTTPStore) UpdateThread(ctx context.Context, token string, id uuid.UUID, req UpdateThreadRequest) (*dto.ThreadResponse, error) {
	var res threadEnvelope
	if err := s.do(ctx, http.MethodPut, "/threads/"+id.String(), token, req, &res); err != nil {
		return nil, err
	}
	return &res.Thread, nil
}

func (s *HTTPStore) DeleteThread(ctx context.Context, token string, id uuid.UUID) error {
	return s.do(ctx, http.MethodDelete, "/threads/"+id.String(), token, nil, nil)
}

type postEnvelope struct {
	Post dto.PostResponse `json:"post"`
}

func (s *HTTPStore) ListPosts(ctx context.Context, threadID uuid.UUID, q dto.PageQuery) ([]dto.PostResponse, error) {
	var res struct {
		Posts []dto.PostResponse `json:"posts"`
	}
	path := withQuery("/posts/thread/"+threadID.String(), pageValues(q))
	if err := s.do(ctx, http.MethodGet, path, "", nil, &res); err != nil {
		return nil, err
	}
	return res.Posts, nil
}

func (s *HTTPStore) CreatePost(ctx context.Context, token string, req CreatePostRequest) (*dto.PostResponse, error) {
	var res postEnvelope
	if err := s.do(ctx, http.MethodPost, "/posts", token, req, &res); err != nil {
		return nil, err
	}
	return &res.Post, nil
}

func (s *HTTPStore) UpdatePost(ctx context.Context, token string, id uuid.UUID, content string) (*dto.PostResponse, error) {
	var res postEnvelope
	body := map[string]string{"content": content}
	if err := s.do(ctx, http.MethodPut, "/posts/"+id.String(), token, body, &res); err != nil {
		return nil, err
	}
	return &res.Post, nil
}

func (s *HTTPStore) DeletePost(ctx context.Context, token string, id uuid.UUID) error {
	return s.do(ctx, http.MethodDelete, "/posts/"+id.String(), token, nil, nil)
}
