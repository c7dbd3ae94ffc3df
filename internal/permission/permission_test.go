package permission

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/pestozap/pestozap-backend/internal/model"
	"github.com/stretchr/testify/assert"
)

func user(active, staff, superuser bool) *model.User {
	return &model.User{
		BaseModel:   model.BaseModel{ID: "u-1"},
		IsActive:    active,
		IsStaff:     staff,
		IsSuperuser: superuser,
	}
}

func TestAllow(t *testing.T) {
	deleted := user(true, true, false)
	deleted.IsDeleted = true

	tests := []struct {
		name  string
		user  *model.User
		cap   Capability
		allow bool
	}{
		{"anonymous public", nil, CapPublic, true},
		{"anonymous authenticated", nil, CapAuthenticated, false},
		{"anonymous admin", nil, CapAdmin, false},
		{"member authenticated", user(true, false, false), CapAuthenticated, true},
		{"member admin", user(true, false, false), CapAdmin, false},
		{"staff admin", user(true, true, false), CapAdmin, true},
		{"superuser admin", user(true, false, true), CapAdmin, true},
		{"inactive staff", user(false, true, true), CapAdmin, false},
		{"inactive member", user(false, false, false), CapAuthenticated, false},
		{"deleted staff", deleted, CapAdmin, false},
		{"unknown capability", user(true, true, true), Capability(99), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allow, Allow(tt.user, tt.cap))
		})
	}
}

func TestCapability_String(t *testing.T) {
	assert.Equal(t, "admin", CapAdmin.String())
	assert.Equal(t, "unknown", Capability(7).String())
}

// Property: admin access is exactly active AND (staff OR superuser), and
// implies authenticated access.
func TestProperty_AdminPredicate(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("admin iff active and privileged", prop.ForAll(
		func(active, staff, superuser bool) bool {
			u := user(active, staff, superuser)
			admin := Allow(u, CapAdmin)
			if admin != (active && (staff || superuser)) {
				return false
			}
			return !admin || Allow(u, CapAuthenticated)
		},
		gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}
