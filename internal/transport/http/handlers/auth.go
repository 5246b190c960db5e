package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leadshield/scanner-platform/internal/transport/http/middleware"
	"github.com/leadshield/scanner-platform/internal/usecase"
)

// AuthHandler exposes registration and session endpoints.
type AuthHandler struct {
	sessions     *usecase.SessionAuthority
	registration *usecase.RegistrationService
	sessionTTL   time.Duration
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(sessions *usecase.SessionAuthority, registration *usecase.RegistrationService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		sessions:     sessions,
		registration: registration,
		sessionTTL:   sessionTTL,
	}
}

// RegisterRoutes binds authentication routes, applying optional middleware
// ahead of the login handler.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares ...gin.HandlerFunc) {
	r.POST("/register", h.register)

	chain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	chain = append(chain, h.login)
	r.POST("/login", chain...)

	r.POST("/logout", middleware.RequireSession(h.sessions), h.logout)
	r.POST("/change-password", middleware.RequireSession(h.sessions), h.changePassword)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "username, email and password are required"))
		return
	}

	user, err := h.registration.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserExists, Status: http.StatusConflict, Message: "username or email already registered"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password does not meet the minimum strength requirements"},
			{Err: usecase.ErrInvalidEmail, Status: http.StatusBadRequest, Message: "email address is malformed"},
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "invalid registration details"},
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, UserSummary{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "identifier and password are required"))
		return
	}

	meta := usecase.SessionMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	token, user, err := h.sessions.Authenticate(c.Request.Context(), req.Identifier, req.Password, meta)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
			{Err: usecase.ErrInactiveAccount, Status: http.StatusForbidden, Message: "account is deactivated"},
		}, http.StatusInternalServerError, "authentication failed")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User: UserSummary{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
		ExpiresIn: int64(h.sessionTTL.Seconds()),
	})
}

func (h *AuthHandler) logout(c *gin.Context) {
	token := middleware.SessionToken(c)

	if err := h.sessions.Invalidate(c.Request.Context(), token); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidSession, Status: http.StatusUnauthorized, Message: "invalid session"},
		}, http.StatusInternalServerError, "logout failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) changePassword(c *gin.Context) {
	user, ok := middleware.SessionUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "current_password and new_password are required"))
		return
	}

	if err := h.registration.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "current password is incorrect"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "password does not meet the minimum strength requirements"},
		}, http.StatusInternalServerError, "password change failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password updated"})
}
