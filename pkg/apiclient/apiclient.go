package apiclient

import (
	"context"

	"anoa.com/neoboard/pkg/dto"
	"github.com/google/uuid"
)

// Store is the backend the client talks to. HTTPStore calls the REST API,
// MemoryStore keeps everything in process for demos and tests.
type Store interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Anonymous(ctx context.Context) (*AuthResult, error)
	Me(ctx context.Context, token string) (*dto.UserResponse, error)
	Logout(ctx context.Context, token string) error

	ListBoards(ctx context.Context) ([]dto.BoardResponse, error)
	GetBoard(ctx context.Context, id uuid.UUID) (*dto.BoardResponse, error)
	CreateBoard(ctx context.Context, token string, req CreateBoardRequest) (*dto.BoardResponse, error)
	UpdateBoard(ctx context.Context, token string, id uuid.UUID, req UpdateBoardRequest) (*dto.BoardResponse, error)
	DeleteBoard(ctx context.Context, token string, id uuid.UUID) error

	ListThreads(ctx context.Context, boardID uuid.UUID, q ThreadQuery) ([]dto.ThreadResponse, error)
	GetThread(ctx context.Context, id uuid.UUID) (*dto.ThreadResponse, error)
	CreateThread(ctx context.Context, token string, req CreateThreadRequest) (*dto.ThreadResponse, error)
	UpdateThread(ctx context.Context, token string, id uuid.UUID, req UpdateThreadRequest) (*dto.ThreadResponse, error)
	DeleteThread(ctx context.Context, token string, id uuid.UUID) error

	ListPosts(ctx context.Context, threadID uuid.UUID, q dto.PageQuery) ([]dto.PostResponse, error)
	CreatePost(ctx context.Context, token string, req CreatePostRequest) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, token string, id uuid.UUID, content string) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, token string, id uuid.UUID) error
}

// Client is what the front end uses. It keeps the session token in a
// TokenStore and forwards every call to its Store.
type Client struct {
	store  Store
	tokens TokenStore
}

// New returns a client for the API at baseURL, or an in-memory demo client
// when baseURL is empty.
func New(baseURL string) *Client {
	if baseURL == "" {
		return NewWithStore(NewMemoryStore(), NewMemoryTokenStore())
	}
	return NewWithStore(NewHTTPStore(baseURL), NewMemoryTokenStore())
}

func NewWithStore(store Store, tokens TokenStore) *Client {
	return &Client{store: store, tokens: tokens}
}

func (c *Client) Store() Store {
	return c.store
}

func (c *Client) LoggedIn() bool {
	return c.tokens.Token() != ""
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*dto.UserResponse, error) {
	res, err := c.store.Register(ctx, RegisterRequest{Username: username, Email: email, Password: password})
	return c.keep(res, err)
}

func (c *Client) Login(ctx context.Context, email, password string) (*dto.UserResponse, error) {
	res, err := c.store.Login(ctx, LoginRequest{Email: email, Password: password})
	return c.keep(res, err)
}

func (c *Client) LoginAnonymous(ctx context.Context) (*dto.UserResponse, error) {
	res, err := c.store.Anonymous(ctx)
	return c.keep(res, err)
}

func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	return c.store.Me(ctx, c.tokens.Token())
}

// Logout clears the local token even when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.tokens.Clear()
	return c.store.Logout(ctx, c.tokens.Token())
}

func (c *Client) keep(res *AuthResult, err error) (*dto.UserResponse, error) {
	if err != nil {
		return nil, err
	}
	c.tokens.SetToken(res.Token)
	return &res.User, nil
}

func (c *Client) ListBoards(ctx context.Context) ([]dto.BoardResponse, error) {
	return c.store.ListBoards(ctx)
}

func (c *Client) GetBoard(ctx context.Context, id uuid.UUID) (*dto.BoardResponse, error) {
	return c.store.GetBoard(ctx, id)
}

func (c *Client) CreateBoard(ctx context.Context, req CreateBoardRequest) (*dto.BoardResponse, error) {
	return c.store.CreateBoard(ctx, c.tokens.Token(), req)
}

func (c *Client) UpdateBoard(ctx context.Context, id uuid.UUID, req UpdateBoardRequest) (*dto.BoardResponse, error) {
	return c.store.UpdateBoard(ctx, c.tokens.Token(), id, req)
}

func (c *Client) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	return c.store.DeleteBoard(ctx, c.tokens.Token(), id)
}

func (c *Client) ListThreads(ctx context.Context, boardID uuid.UUID, q ThreadQuery) ([]dto.ThreadResponse, error) {
	return c.store.ListThreads(ctx, boardID, q)
}

func (c *Client) GetThread(ctx context.Context, id uuid.UUID) (*dto.ThreadResponse, error) {
	return c.store.GetThread(ctx, id)
}

func (c *Client) CreateThread(ctx context.Context, req CreateThreadRequest) (*dto.ThreadResponse, error) {
	return c.store.CreateThread(ctx, c.tokens.Token(), req)
}

func (c *Client) UpdateThread(ctx context.Context, id uuid.UUID, req UpdateThreadRequest) (*dto.ThreadResponse, error) {
	return c.store.UpdateThread(ctx, c.tokens.Token(), id, req)
}

func (c *Client) DeleteThread(ctx context.Context, id uuid.UUID) error {
	return c.store.DeleteThread(ctx, c.tokens.Token(), id)
}

func (c *Client) ListPosts(ctx context.Context, threadID uuid.UUID, q dto.PageQuery) ([]dto.PostResponse, error) {
	return c.store.ListPosts(ctx, threadID, q)
}

func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (*dto.PostResponse, error) {
	return c.store.CreatePost(ctx, c.tokens.Token(), req)
}

func (c *Client) UpdatePost(ctx context.Context, id uuid.UUID, content string) (*dto.PostResponse, error) {
	return c.store.UpdatePost(ctx, c.tokens.Token(), id, content)
}

func (c *Client) DeletePost(ctx context.Context, id uuid.UUID) error {
	return c.store.DeletePost(ctx, c.tokens.Token(), id)
}
