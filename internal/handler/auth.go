package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pestozap/pestozap-backend/internal/middleware"
	"github.com/pestozap/pestozap-backend/internal/service"
	"github.com/pestozap/pestozap-backend/pkg/response"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and token endpoints.
type AuthHandler struct {
	userService  service.UserService
	authService  service.AuthService
	tokenService service.TokenService
}

func NewAuthHandler(userSvc service.UserService, authSvc service.AuthService, tokenSvc service.TokenService) *AuthHandler {
	return &AuthHandler{
		userService:  userSvc,
		authService:  authSvc,
		tokenService: tokenSvc,
	}
}

// TokenResponse is returned by register, login and refresh.
type TokenResponse struct {
	*service.TokenPair
	TokenType string              `json:"token_type"`
	User      *service.UserDetail `json:"user,omitempty"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type logoutRequest struct {
	Refresh string `json:"refresh"`
}

// Register creates an account and signs the caller in.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !bind(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	resp, err := h.tokens(c, user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, resp)
}

// Login exchanges email and password for a token pair.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginInput
	if !bind(c, &req) {
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	resp, err := h.tokens(c, user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, resp)
}

// RefreshToken rotates a refresh token.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if !bind(c, &req) {
		return
	}

	pair, claims, err := h.tokenService.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		fail(c, err)
		return
	}

	// tokens outlive accounts; a disabled user must not keep refreshing
	user, err := h.userService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		fail(c, service.ErrInvalidToken)
		return
	}
	if !user.IsActive {
		fail(c, service.ErrAccountDisabled)
		return
	}

	response.Success(c, TokenResponse{TokenPair: pair, TokenType: "Bearer"})
}

// Logout revokes the access token and, when given, the refresh token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	_ = c.ShouldBindJSON(&req)

	ctx := c.Request.Context()
	if err := h.tokenService.RevokeToken(ctx, middleware.AccessToken(c)); err != nil {
		middleware.GetLogger().Warn("revoke access token", zap.Error(err))
	}
	if req.Refresh != "" {
		if err := h.tokenService.RevokeToken(ctx, req.Refresh); err != nil {
			middleware.GetLogger().Warn("revoke refresh token", zap.Error(err))
		}
	}

	response.SuccessWithMsg(c, "logged out", nil)
}

// GetCurrentUser returns the caller with their profile.
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	detail, err := h.userService.Detail(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, detail)
}

// ChangePassword replaces the caller's password.
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordInput
	if !bind(c, &req) {
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), middleware.UserID(c), req); err != nil {
		fail(c, err)
		return
	}
	response.SuccessWithMsg(c, "password changed", nil)
}

func (h *AuthHandler) tokens(c *gin.Context, userID string) (*TokenResponse, error) {
	detail, err := h.userService.Detail(c.Request.Context(), userID)
	if err != nil {
		return nil, err
	}
	pair, err := h.tokenService.IssuePair(c.Request.Context(), detail.User)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{TokenPair: pair, TokenType: "Bearer", User: detail}, nil
}
