package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"
	"time"

	"anoa.com/neoboard/internal/entity"
	"anoa.com/neoboard/internal/modules/user/dto"
	"anoa.com/neoboard/internal/modules/user/repository"
	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/response"
	"anoa.com/neoboard/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	AnonymousLogin(ctx context.Context) (*dto.AuthResponse, error)
	CurrentUser(ctx context.Context, auth response.AuthContext) (*dto.UserEnvelope, error)
	Logout(ctx context.Context, auth response.AuthContext) error
}

type authService struct {
	repo   repository.UserRepository
	tokens *token.Issuer
	now    func() time.Time
}

func NewAuthService(repo repository.UserRepository, tokens *token.Issuer) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		now:    time.Now,
	}
}

const (
	minUsernameLength = 3
	maxUsernameLength = 30
)

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return nil, apperror.BadRequest(fmt.Sprintf("Username must be between %d and %d characters", minUsernameLength, maxUsernameLength))
	}

	taken, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, apperror.Conflict("Email already registered")
	}

	taken, err = s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, apperror.Conflict("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hash := string(hashed)

	user := &entity.User{
		Username:     username,
		Email:        &email,
		PasswordHash: &hash,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("Username or email already taken")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindActiveByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.PasswordHash == nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if err := s.repo.TouchLastSeen(ctx, user.ID); err != nil {
		log.Printf("failed to update last seen for %s: %v", user.ID, err)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) AnonymousLogin(ctx context.Context) (*dto.AuthResponse, error) {
	user := &entity.User{
		Username:    s.anonymousUsername(),
		IsAnonymous: true,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create anonymous user: %w", err)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) CurrentUser(ctx context.Context, auth response.AuthContext) (*dto.UserEnvelope, error) {
	user, err := s.activeUser(ctx, auth)
	if err != nil {
		return nil, err
	}

	return &dto.UserEnvelope{
		Success: true,
		User:    dto.NewUserResponse(user, true),
	}, nil
}

func (s *authService) Logout(ctx context.Context, auth response.AuthContext) error {
	user, err := s.activeUser(ctx, auth)
	if err != nil {
		return err
	}
	if err := s.repo.TouchLastSeen(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to update last seen: %w", err)
	}
	return nil
}

func (s *authService) activeUser(ctx context.Context, auth response.AuthContext) (*entity.User, error) {
	if !auth.Authenticated() {
		return nil, apperror.Unauthorized("Access denied. No token provided.")
	}

	user, err := s.repo.FindByID(ctx, *auth.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("Invalid token. User not found.")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, apperror.Unauthorized("Invalid token. User not found.")
	}
	return user, nil
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	signed, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Success: true,
		Token:   signed,
		User:    dto.NewUserResponse(user, true),
	}, nil
}

// anonymousUsername yields Anonymous_<unix millis>_<6 hex>, at most 30 chars.
func (s *authService) anonymousUsername() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("Anonymous_%d_%s", s.now().UnixMilli(), suffix)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
