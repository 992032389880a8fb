package apiclient

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/dto"
	appvalidator "anoa.com/neoboard/pkg/validator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultMockLatency = 250 * time.Millisecond
	anonymousName      = "Anonymous"
	notLoggedIn        = "Access denied. No token provided."
)

type memUser struct {
	profile dto.UserResponse
	hash    []byte
	active  bool
}

type memBoard struct {
	dto.BoardResponse
	active bool
}

type memThread struct {
	dto.ThreadResponse
	active bool
}

type memPost struct {
	dto.PostResponse
	active bool
}

// MemoryStore is an in-process Store with the same ownership and counter
// rules as the server. Every call waits for the configured latency first.
type MemoryStore struct {
	mu       sync.Mutex
	latency  time.Duration
	skipSeed bool
	validate *validator.Validate
	now      func() time.Time

	users    map[uuid.UUID]*memUser
	sessions map[string]uuid.UUID
	boards   []*memBoard
	threads  []*memThread
	posts    []*memPost
}

type MemoryOption func(*MemoryStore)

// WithLatency overrides the simulated round-trip time. Zero disables it.
func WithLatency(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.latency = d }
}

// WithoutSeed starts the store empty.
func WithoutSeed() MemoryOption {
	return func(s *MemoryStore) { s.skipSeed = true }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	v := validator.New()
	appvalidator.Register(v)

	s := &MemoryStore{
		latency:  defaultMockLatency,
		validate: v,
		now:      time.Now,
		users:    make(map[uuid.UUID]*memUser),
		sessions: make(map[string]uuid.UUID),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.skipSeed {
		s.seed()
	}
	return s
}

func (s *MemoryStore) seed() {
	now := s.now()
	admin := s.addUser("SystemAdmin", "admin@neoboard.com", nil, false)

	boards := []struct {
		name, description, category string
		idle                        time.Duration
	}{
		{"/tech/", "Technology discussions, programming, and software development", "Technology", 0},
		{"/gaming/", "Video games, esports, and gaming culture", "Entertainment", 6 * time.Minute},
		{"/art/", "Digital art, traditional art, and creative works", "Creative", 2 * time.Hour},
		{"/random/", "Random discussions and off-topic conversations", "General", 24 * time.Hour},
	}
	for _, b := range boards {
		s.boards = append(s.boards, &memBoard{
			BoardResponse: dto.BoardResponse{
				ID:           uuid.New(),
				Name:         b.name,
				Description:  b.description,
				Category:     b.category,
				LastActivity: now.Add(-b.idle),
				CreatedBy:    admin.profile.ID,
			},
			active: true,
		})
	}

	welcome := s.insertThread(admin, s.boards[0], CreateThreadRequest{
		Title:   "Welcome to NeoBoard",
		Content: "Introduce yourself and tell us what you are working on.",
		Tags:    []string{"meta"},
	})
	s.insertPost(admin, welcome, CreatePostRequest{Content: "Reply here to say hello."})
}

// sleep waits out the simulated latency or until ctx is done.
func (s *MemoryStore) sleep(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *MemoryStore) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return apperror.BadRequest(appvalidator.FormatValidationError(err))
	}
	return nil
}

func (s *MemoryStore) addUser(username, email string, hash []byte, anonymous bool) *memUser {
	u := &memUser{
		profile: dto.UserResponse{
			ID:          uuid.New(),
			Username:    username,
			Email:       email,
			IsAnonymous: anonymous,
			JoinDate:    s.now(),
		},
		hash:   hash,
		active: true,
	}
	s.users[u.profile.ID] = u
	return u
}

func (s *MemoryStore) startSession(u *memUser) *AuthResult {
	token := "mock-" + uuid.NewString()
	s.sessions[token] = u.profile.ID
	return &AuthResult{Token: token, User: u.public(true)}
}

func (u *memUser) public(withEmail bool) dto.UserResponse {
	p := u.profile
	if p.IsAnonymous {
		p.Username = anonymousName
	}
	if !withEmail {
		p.Email = ""
	}
	return p
}

func (s *MemoryStore) caller(token string) (*memUser, error) {
	if token == "" {
		return nil, apperror.Unauthorized(notLoggedIn)
	}
	id, ok := s.sessions[token]
	if !ok {
		return nil, apperror.Unauthorized("Invalid token.")
	}
	u, ok := s.users[id]
	if !ok || !u.active {
		return nil, apperror.Unauthorized("Invalid token. User not found.")
	}
	return u, nil
}

func (s *MemoryStore) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if n := utf8.RuneCountInString(username); n < 3 || n > 30 {
		return nil, apperror.BadRequest("Username must be between 3 and 30 characters")
	}
	for _, u := range s.users {
		if strings.EqualFold(u.profile.Email, email) {
			return nil, apperror.Conflict("Email already registered")
		}
		if u.profile.Username == username {
			return nil, apperror.Conflict("Username already taken")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	return s.startSession(s.addUser(username, email, hash, false)), nil
}

func (s *MemoryStore) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	for _, u := range s.users {
		if !u.active || u.hash == nil || u.profile.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword(u.hash, []byte(req.Password)) != nil {
			break
		}
		return s.startSession(u), nil
	}
	return nil, apperror.Unauthorized("Invalid credentials")
}

func (s *MemoryStore) Anonymous(ctx context.Context) (*AuthResult, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	name := "Anonymous_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return s.startSession(s.addUser(name, "", nil, true)), nil
}

func (s *MemoryStore) Me(ctx context.Context, token string) (*dto.UserResponse, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.caller(token)
	if err != nil {
		return nil, err
	}
	p := u.public(true)
	return &p, nil
}

func (s *MemoryStore) Logout(ctx context.Context, token string) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.caller(token); err != nil {
		return err
	}
	delete(s.sessions, token)
	return nil
}

func (s *MemoryStore) findBoard(id uuid.UUID) (*memBoard, error) {
	for _, b := range s.boards {
		if b.ID == id && b.active {
			return b, nil
		}
	}
	return nil, apperror.NotFound("Board not found")
}

func (s *MemoryStore) ListBoards(ctx context.Context) ([]dto.BoardResponse, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]dto.BoardResponse, 0, len(s.boards))
	for _, b := range s.boards {
		if b.active {
			out = append(out, b.BoardResponse)
		}
	}
	slices.SortStableFunc(out, func(a, b dto.BoardResponse) int {
		return b.LastActivity.Compare(a.LastActivity)
	})
	return out, nil
}

func (s *MemoryStore) GetBoard(ctx context.Context, id uuid.UUID) (*dto.BoardResponse, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.findBoard(id)
	if err != nil {
		return nil, err
	}
	out := b.BoardResponse
	return &out, nil
}

func (s *MemoryStore) CreateBoard(ctx context.Context, token string, req CreateBoardRequest) (*dto.BoardResponse, error) {
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
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperror.BadRequest("Description is required")
	}
	for _, b := range s.boards {
		if b.active && strings.EqualFold(b.Name, req.Name) {
			return nil, apperror.Conflict("Board name already exists")
		}
	}

	category := req.Category
	if category == "" {
		category = "General"
	}
	b := &memBoard{
		BoardResponse: dto.BoardResponse{
			ID:           uuid.New(),
			Name:         req.Name,
			Description:  description,
			Category:     category,
			LastActivity: s.now(),
			IsNSFW:       req.IsNSFW,
			CreatedBy:    u.profile.ID,
		},
		active: true,
	}
	s.boards = append(s.boards, b)
	out := b.BoardResponse
	return &out, nil
}

func (s *MemoryStore) UpdateBoard(ctx context.Context, token string, id uuid.UUID, req UpdateBoardRequest) (*dto.BoardResponse, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.findBoard(id)
	if err != nil {
		return nil, err
	}
	if err := s.assertOwner(token, b.CreatedBy, "Not authorized to update this board"); err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, apperror.BadRequest("Description is required")
		}
		b.Description = description
	}
	if req.Category != nil {
		b.Category = *req.Category
	}
	if req.IsNSFW != nil {
		b.IsNSFW = *req.IsNSFW
	}
	out := b.BoardResponse
	return &out, nil
}

func (s *MemoryStore) DeleteBoard(ctx context.Context, token string, id uuid.UUID) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.findBoard(id)
	if err != nil {
		return err
	}
	if err := s.assertOwner(token, b.CreatedBy, "Not authorized to delete this board"); err != nil {
		return err
	}
	b.active = false
	return nil
}

func (s *MemoryStore) assertOwner(token string, owner uuid.UUID, msg string) error {
	u, err := s.caller(token)
	if err != nil {
		return err
	}
	if u.profile.ID != owner {
		return apperror.Forbidden(msg)
	}
	return nil
}
