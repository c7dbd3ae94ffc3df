package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/middleware"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
)

// UserHandler serves the caller's account and the admin user list.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userService: userSvc}
}

// GetProfile returns the caller's account.
// GET /api/v1/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	detail, err := h.userService.Detail(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, detail)
}

// UpdateProfile changes the caller's account fields.
// PUT /api/v1/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileInput
	if !bind(c, &req) {
		return
	}
	detail, err := h.userService.UpdateProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, detail)
}

// GetExtendedProfile returns the caller's extended profile, creating it on first access.
// GET /api/v1/users/profile/extended
func (h *UserHandler) GetExtendedProfile(c *gin.Context) {
	profile, err := h.userService.GetExtendedProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, profile)
}

// UpdateExtendedProfile
// PUT /api/v1/users/profile/extended
func (h *UserHandler) UpdateExtendedProfile(c *gin.Context) {
	var req service.ExtendedProfileInput
	if !bind(c, &req) {
		return
	}
	profile, err := h.userService.UpdateExtendedProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, profile)
}

// UploadProfilePicture replaces the caller's picture with the "file" field.
// POST /api/v1/users/profile/picture
func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	file, closeFile, err := formFile(c)
	if err != nil {
		fail(c, err)
		return
	}
	defer closeFile()

	detail, err := h.userService.UploadProfilePicture(c.Request.Context(), middleware.UserID(c), file)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, detail)
}

// DeleteProfilePicture
// DELETE /api/v1/users/profile/picture
func (h *UserHandler) DeleteProfilePicture(c *gin.Context) {
	if err := h.userService.DeleteProfilePicture(c.Request.Context(), middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}
	deleted(c)
}

// Stats returns account figures and the caller's profile completion.
// GET /api/v1/users/stats
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.userService.Stats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, stats)
}

// ListUsers
// GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := h.userService.List(c.Request.Context(), listQuery(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, page)
}

// GetUser
// GET /api/v1/admin/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	detail, err := h.userService.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, detail)
}

// UpdateUser
// PUT /api/v1/admin/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req service.AdminUserInput
	if !bind(c, &req) {
		return
	}
	detail, err := h.userService.AdminUpdate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, detail)
}

// DeleteUser soft-deletes an account other than the caller's.
// DELETE /api/v1/admin/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	deleted(c)
}
