package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-microblog/internal/application"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
	"github.com/oksasatya/go-microblog/pkg/helpers"
	"github.com/oksasatya/go-microblog/pkg/response"
	"github.com/oksasatya/go-microblog/pkg/validation"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Auth     *application.AuthService
	Profile  *application.ProfileService
	Social   *application.SocialService
	Timeline *application.TimelineService
	Logger   *logrus.Logger
	Cookies  *helpers.SessionCookies
}

func NewUserHandler(auth *application.AuthService, profile *application.ProfileService, social *application.SocialService, timeline *application.TimelineService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{
		Auth:     auth,
		Profile:  profile,
		Social:   social,
		Timeline: timeline,
		Logger:   logger,
		Cookies:  helpers.NewSessionCookies(cookieDomain, cookieSecure),
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Username string `json:"username" binding:"required,username"`
	AboutMe  string `json:"about_me" binding:"aboutme"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, pair, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "Invalid username or password", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, privateUser(u), "login successful", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, _, err := h.Auth.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{"access_expires_at": pair.AccessTokenExpiry, "refresh_expires_at": pair.RefreshTokenExpiry})
}

func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.Auth.Logout(c.Request.Context(), middleware.UserID(c)); err != nil {
		helpers.RequestEntry(h.Logger, c).WithError(err).Warn("session delete failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Auth.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	v := privateUser(u)
	if counts, err := h.Social.Counts(c.Request.Context(), u.ID); err == nil {
		v["followers"] = counts.Followers
		v["following"] = counts.Following
	}
	response.Success(c, http.StatusOK, v, "profile", nil)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Profile.UpdateProfile(c.Request.Context(), middleware.UserID(c), req.Username, req.AboutMe)
	switch {
	case errors.Is(err, application.ErrUsernameTaken):
		response.Error[any](c, http.StatusConflict, "Please use a different username.", nil)
		return
	case errors.Is(err, application.ErrInvalidAboutMe):
		response.Error[any](c, http.StatusBadRequest, "failed to update profile", map[string]string{"about_me": err.Error()})
		return
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	case err != nil:
		response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		return
	}
	response.Success(c, http.StatusOK, privateUser(u), "Your changes have been saved.", nil)
}

// UploadAvatar POST /api/profile/avatar (multipart field "file")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "file is required", nil)
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read file", nil)
		return
	}
	defer f.Close()

	u, err := h.Profile.UploadAvatar(c.Request.Context(), middleware.UserID(c), fh.Filename, fh.Header.Get("Content-Type"), f)
	if errors.Is(err, application.ErrStorageUnavailable) {
		response.Error[any](c, http.StatusServiceUnavailable, "avatar storage not configured", nil)
		return
	}
	if err != nil {
		helpers.RequestEntry(h.Logger, c).WithError(err).Error("avatar upload failed")
		response.Error[any](c, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	response.Success(c, http.StatusOK, privateUser(u), "avatar updated", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	res, err := h.Profile.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.Error[any](c, http.StatusBadGateway, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, res, "search results", nil)
}

// PublicProfile GET /api/users/:username
func (h *UserHandler) PublicProfile(c *gin.Context) {
	name := c.Param("username")
	u, err := h.Profile.GetByUsername(c.Request.Context(), name)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "User "+name+" not found.", nil)
		return
	}
	v := publicUser(u)
	counts, err := h.Social.Counts(c.Request.Context(), u.ID)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to load profile", nil)
		return
	}
	v["followers"] = counts.Followers
	v["following"] = counts.Following
	if viewer := middleware.UserID(c); viewer > 0 && viewer != u.ID {
		ok, _ := h.Social.IsFollowing(c.Request.Context(), viewer, u.ID)
		v["is_following"] = ok
	}
	response.Success(c, http.StatusOK, v, "profile", nil)
}

// UserPosts GET /api/users/:username/posts?page=
func (h *UserHandler) UserPosts(c *gin.Context) {
	name := c.Param("username")
	u, err := h.Profile.GetByUsername(c.Request.Context(), name)
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "User "+name+" not found.", nil)
		return
	}
	page, size := pageQuery(c)
	res, err := h.Timeline.UserPosts(c.Request.Context(), u.ID, page, size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to load posts", nil)
		return
	}
	response.Success(c, http.StatusOK, postPage(res), "posts", nil)
}
