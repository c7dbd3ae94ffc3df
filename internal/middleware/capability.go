package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/pestozap/pestozap-backend/internal/permission"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
	"go.uber.org/zap"
)

// UserLookup loads the account behind a token. service.UserService
// satisfies it.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// RequireCapability loads the caller and checks permission.Allow. Anonymous
// callers get 401, identified callers without the capability get 403. The
// loaded user is stored under KeyUser.
func RequireCapability(users UserLookup, capability permission.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if capability == permission.CapPublic {
			c.Next()
			return
		}

		userID := UserID(c)
		if userID == "" {
			response.Error(c, response.CodeInvalidToken)
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				response.Error(c, response.CodeInvalidToken)
			} else {
				GetLogger().Error("load caller", zap.String("user_id", userID), zap.Error(err))
				response.Error(c, response.CodeServerError)
			}
			c.Abort()
			return
		}

		if !user.IsActive {
			response.Error(c, response.CodeAccountDisabled)
			c.Abort()
			return
		}
		if !permission.Allow(user, capability) {
			response.Error(c, response.CodeForbidden)
			c.Abort()
			return
		}

		c.Set(KeyUser, user)
		c.Next()
	}
}

// CurrentUser returns the user loaded by RequireCapability.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(KeyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
