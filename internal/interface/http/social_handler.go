package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/application"
	"github.com/oksasatya/go-microblog/internal/domain/entity"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
	"github.com/oksasatya/go-microblog/pkg/response"
)

type SocialHandler struct {
	Auth   *application.AuthService
	Social *application.SocialService
}

func NewSocialHandler(auth *application.AuthService, social *application.SocialService) *SocialHandler {
	return &SocialHandler{Auth: auth, Social: social}
}

func (h *SocialHandler) actor(c *gin.Context) (*entity.User, bool) {
	u, err := h.Auth.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return nil, false
	}
	return u, true
}

// Follow POST /api/follow/:username
func (h *SocialHandler) Follow(c *gin.Context) {
	me, ok := h.actor(c)
	if !ok {
		return
	}
	name := c.Param("username")
	_, err := h.Social.FollowByUsername(c.Request.Context(), me, name)
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "User "+name+" not found.", nil)
	case errors.Is(err, application.ErrFollowSelf):
		response.Error[any](c, http.StatusBadRequest, "You cannot follow yourself!", nil)
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "follow failed", nil)
	default:
		response.Success[any](c, http.StatusOK, gin.H{"following": true}, "You are following "+name+"!", nil)
	}
}

// Unfollow POST /api/unfollow/:username
func (h *SocialHandler) Unfollow(c *gin.Context) {
	me, ok := h.actor(c)
	if !ok {
		return
	}
	name := c.Param("username")
	_, err := h.Social.UnfollowByUsername(c.Request.Context(), me, name)
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "User "+name+" not found.", nil)
	case errors.Is(err, application.ErrUnfollowSelf):
		response.Error[any](c, http.StatusBadRequest, "You cannot unfollow yourself!", nil)
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "unfollow failed", nil)
	default:
		response.Success[any](c, http.StatusOK, gin.H{"following": false}, "You are not following "+name+".", nil)
	}
}
