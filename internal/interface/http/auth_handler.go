package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-microblog/internal/application"
	"github.com/oksasatya/go-microblog/pkg/helpers"
	"github.com/oksasatya/go-microblog/pkg/response"
	"github.com/oksasatya/go-microblog/pkg/validation"
)

// AuthHandler serves account creation and password reset.
type AuthHandler struct {
	Auth   *application.AuthService
	Reset  *application.ResetService
	Logger *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, reset *application.ResetService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Reset: reset, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrUsernameTaken):
		response.Error[any](c, http.StatusConflict, "Please use a different username.", map[string]string{"username": err.Error()})
		return
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "Please use a different email address.", map[string]string{"email": err.Error()})
		return
	case err != nil:
		helpers.RequestEntry(h.Logger, c).WithError(err).Error("register failed")
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, privateUser(u), "Congratulations, you are now a registered user!", nil)
}

// ResetInit POST /api/auth/reset/init {email}
// Always answers 200 so addresses cannot be probed.
func (h *AuthHandler) ResetInit(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Reset.RequestReset(c.Request.Context(), req.Email, requestMeta(c)); err != nil {
		helpers.RequestEntry(h.Logger, c).WithError(err).Warn("reset request failed")
	}
	response.Success[any](c, http.StatusOK, gin.H{"requested": true}, "Check your email for the instructions to reset your password", nil)
}

// ResetConfirm POST /api/auth/reset/confirm {token, new_password}
func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Reset.ConfirmReset(c.Request.Context(), req.Token, req.NewPassword)
	if errors.Is(err, application.ErrInvalidResetToken) {
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		return
	}
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "update fail", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "Your password has been reset.", nil)
}
