package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/socialnet/internal/service"
)

type contextKey string

const userIDKey = contextKey("userID")

// SessionUserKey is the session key holding the logged in user id.
const SessionUserKey = "user_id"

const actorKey = "__actor"

// WithUserID stores userID in ctx.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext extracts the user id stored by WithUserID.
func GetUserIDFromContext(ctx context.Context) (uint, error) {
	id, ok := ctx.Value(userIDKey).(uint)
	if !ok || id == 0 {
		return 0, errors.New("user ID not found in context")
	}
	return id, nil
}

// UserLookup reports whether a user id still resolves to an account.
type UserLookup interface {
	Exists(id uint) (bool, error)
}

// Identify resolves the request identity from a bearer access token or,
// failing that, from the cookie session. Requests with missing or invalid
// credentials continue anonymously.
func Identify(issuer *TokenIssuer, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := uint(0)
		if tokenStr := extractTokenFromHeader(c.GetHeader("Authorization")); tokenStr != "" {
			if id, err := issuer.Parse(tokenStr, TokenTypeAccess); err == nil {
				userID = id
			}
		} else if _, ok := c.Get(sessions.DefaultKey); ok {
			userID = sessionUserID(sessions.Default(c))
		}

		if userID != 0 && users != nil {
			exists, err := users.Exists(userID)
			if err != nil {
				c.Error(err)
			}
			if !exists {
				userID = 0
			}
		}

		SetActor(c, service.Actor{UserID: userID})
		c.Next()
	}
}

// RequireIdentity aborts anonymous requests with 401.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentActor(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication credentials were not provided"})
			return
		}
		c.Next()
	}
}

// SetActor records the identity of the current request.
func SetActor(c *gin.Context, actor service.Actor) {
	c.Set(actorKey, actor)
	if actor.Authenticated() && c.Request != nil {
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), actor.UserID))
	}
}

// CurrentActor returns the actor resolved by Identify, or Anonymous.
func CurrentActor(c *gin.Context) service.Actor {
	if value, ok := c.Get(actorKey); ok {
		if actor, ok := value.(service.Actor); ok {
			return actor
		}
	}
	return service.Anonymous
}

// Login stores userID in the cookie session.
func Login(c *gin.Context, userID uint) error {
	session := sessions.Default(c)
	session.Set(SessionUserKey, userID)
	return session.Save()
}

// Logout clears the cookie session.
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

func sessionUserID(session sessions.Session) uint {
	switch v := session.Get(SessionUserKey).(type) {
	case uint:
		return v
	case int:
		if v > 0 {
			return uint(v)
		}
	case int64:
		if v > 0 {
			return uint(v)
		}
	case float64:
		if v > 0 {
			return uint(v)
		}
	}
	return 0
}

func extractTokenFromHeader(header string) string {
	parts := strings.Split(strings.TrimSpace(header), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
