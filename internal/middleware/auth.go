package middleware

import (
	"errors"
	"fmt"
	"strings"

	userRepo "anoa.com/neoboard/internal/modules/user/repository"
	"anoa.com/neoboard/pkg/apperror"
	"anoa.com/neoboard/pkg/response"
	"anoa.com/neoboard/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthMiddleware struct {
	issuer   *token.Issuer
	userRepo userRepo.UserRepository
}

func NewAuthMiddleware(issuer *token.Issuer, userRepo userRepo.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		issuer:   issuer,
		userRepo: userRepo,
	}
}

// Authenticate resolves the caller from the bearer token when one is present.
// An invalid or missing token leaves the request anonymous.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString != "" {
			if userID, err := m.issuer.Parse(tokenString); err == nil {
				response.SetAuth(c, response.AuthContext{UserID: &userID})
			} else {
				response.SetAuth(c, response.AuthContext{TokenRejected: true})
			}
		}

		c.Next()
	}
}

// RequireAuth admits only callers whose token verifies and whose account
// still exists and is active.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := response.GetAuth(c)
		if !auth.Authenticated() {
			message := "Access denied. No token provided."
			if auth.TokenRejected {
				message = "Invalid token."
			}
			response.ResponseError(c, apperror.Unauthorized(message))
			c.Abort()
			return
		}

		user, err := m.userRepo.FindByID(c.Request.Context(), *auth.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = apperror.Unauthorized("Invalid token. User not found.")
			} else {
				err = fmt.Errorf("failed to load user: %w", err)
			}
			response.ResponseError(c, err)
			c.Abort()
			return
		}
		if !user.IsActive {
			response.ResponseError(c, apperror.Unauthorized("Invalid token. User not found."))
			c.Abort()
			return
		}

		c.Next()
	}
}
