package response

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"anoa.com/neoboard/pkg/apperror"
	appvalidator "anoa.com/neoboard/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const authContextKey = "auth"

// AuthContext is attached to every request by the auth middleware.
// UserID is nil when the caller is not authenticated. TokenRejected marks a
// request that sent a token which failed to verify.
type AuthContext struct {
	UserID        *uuid.UUID
	TokenRejected bool
}

func (a AuthContext) Authenticated() bool {
	return a.UserID != nil
}

// AssertOwner fails with Unauthorized for anonymous callers and Forbidden when
// the caller is not ownerID.
func (a AuthContext) AssertOwner(ownerID uuid.UUID, message string) error {
	if a.UserID == nil {
		return apperror.Unauthorized("Access denied. No token provided.")
	}
	if *a.UserID != ownerID {
		return apperror.Forbidden(message)
	}
	return nil
}

// SetAuth stores the auth context for downstream handlers.
func SetAuth(c *gin.Context, auth AuthContext) {
	c.Set(authContextKey, auth)
	if auth.UserID != nil {
		c.Set("user_id", auth.UserID.String())
	}
}

// GetAuth returns the request's auth context; unauthenticated when none was set.
func GetAuth(c *gin.Context) AuthContext {
	if v, ok := c.Get(authContextKey); ok {
		if auth, ok := v.(AuthContext); ok {
			return auth
		}
	}
	return AuthContext{}
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	auth := GetAuth(c)
	if auth.UserID == nil {
		return uuid.Nil, apperror.Unauthorized("Access denied. No token provided.")
	}
	return *auth.UserID, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": appvalidator.FormatValidationError(validationErrs)})
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error()})
		return
	}

	if code == http.StatusTooManyRequests {
		if retry, ok := retryAfter(err); ok {
			c.Header("Retry-After", retry)
		}
	}

	c.JSON(code, gin.H{"error": apperror.Message(err)})
}

// Message writes a {success, message} body.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

type retryAfterError interface {
	RetryAfterHeader() string
}

func retryAfter(err error) (string, bool) {
	var r retryAfterError
	if errors.As(err, &r) {
		return r.RetryAfterHeader(), true
	}
	return "", false
}
