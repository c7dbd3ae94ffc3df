package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
)

// Context keys set by the auth middleware.
const (
	KeyUserID = "user_id"
	KeyEmail  = "email"
	KeyClaims = "claims"
	KeyToken  = "token"
	KeyUser   = "user"
)

// JWTAuth requires a valid access token in the Authorization header.
func JWTAuth(tokenService service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithMsg(c, response.CodeInvalidToken, "authentication credentials were not provided")
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.ErrorWithMsg(c, response.CodeInvalidToken, "authorization header must be: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := tokenService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				response.ErrorWithMsg(c, response.CodeInvalidToken, "token has expired")
			case errors.Is(err, service.ErrTokenRevoked):
				response.ErrorWithMsg(c, response.CodeInvalidToken, "token has been revoked")
			default:
				response.Error(c, response.CodeInvalidToken)
			}
			c.Abort()
			return
		}

		if claims.Type != service.TokenTypeAccess {
			response.ErrorWithMsg(c, response.CodeInvalidToken, "invalid token type")
			c.Abort()
			return
		}

		setIdentity(c, claims, tokenString)
		c.Next()
	}
}

// OptionalJWTAuth sets the identity when a valid access token is present and
// lets anonymous requests through.
func OptionalJWTAuth(tokenService service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := tokenService.ValidateToken(c.Request.Context(), tokenString)
		if err == nil && claims.Type == service.TokenTypeAccess {
			setIdentity(c, claims, tokenString)
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(KeyUserID)
}

// AccessToken returns the raw bearer token of an authenticated request.
func AccessToken(c *gin.Context) string {
	return c.GetString(KeyToken)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func setIdentity(c *gin.Context, claims *service.TokenClaims, token string) {
	c.Set(KeyUserID, claims.UserID)
	c.Set(KeyEmail, claims.Email)
	c.Set(KeyClaims, claims)
	c.Set(KeyToken, token)
}
