package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"examhub/models"
	"examhub/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	currentUserKey = "current_user"
	claimsKey      = "token_claims"
)

// Authenticator resolves a bearer token to the user it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, *services.Claims, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// caller on the context.
func AuthMiddleware(auth Authenticator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized(c, "Not authenticated")
			return
		}

		user, claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInactiveAccount):
				unauthorized(c, "Inactive account")
			case errors.Is(err, services.ErrTokenInvalid), errors.Is(err, services.ErrTokenRevoked):
				unauthorized(c, "Could not validate credentials")
			default:
				log.WithError(err).Error("authentication lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
			}
			return
		}

		SetCurrentUser(c, user, claims)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

// SetCurrentUser stores the authenticated caller on the context.
func SetCurrentUser(c *gin.Context, user *models.User, claims *services.Claims) {
	c.Set(currentUserKey, user)
	c.Set(claimsKey, claims)
	c.Set("user_id", user.ID)
	c.Set("user_role", user.Role)
}

// CurrentUser returns the caller stored by AuthMiddleware, or nil on public
// routes.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func CurrentClaims(c *gin.Context) *services.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*services.Claims)
	return claims
}
