package service

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pestozap/pestozap-backend/internal/model"
)

// Property 1: token claims survive a sign/verify round trip
func TestProperty_TokenRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	svc := newTestTokenService(nil)

	userIDGen := gen.Identifier().Map(func(s string) string { return "user-" + s })
	localGen := gen.AlphaString().Map(func(s string) string {
		if s == "" {
			return "someone"
		}
		return s
	})

	properties.Property("issued tokens validate to the same identity", prop.ForAll(
		func(userID, local string) bool {
			ctx := context.Background()
			user := &model.User{BaseModel: model.BaseModel{ID: userID}, Email: local + "@example.com"}

			pair, err := svc.IssuePair(ctx, user)
			if err != nil {
				return false
			}
			access, err := svc.ValidateToken(ctx, pair.Access)
			if err != nil {
				return false
			}
			refresh, err := svc.ValidateToken(ctx, pair.Refresh)
			if err != nil {
				return false
			}
			return access.UserID == userID &&
				access.Subject == userID &&
				access.Email == user.Email &&
				access.Type == TokenTypeAccess &&
				refresh.UserID == userID &&
				refresh.Type == TokenTypeRefresh
		},
		userIDGen,
		localGen,
	))

	properties.TestingRun(t)
}
