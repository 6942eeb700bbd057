package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/application"
	"github.com/oksasatya/go-microblog/internal/interface/middleware"
	"github.com/oksasatya/go-microblog/pkg/response"
	"github.com/oksasatya/go-microblog/pkg/validation"
)

type PostHandler struct {
	TimelineService *application.TimelineService
}

func NewPostHandler(timeline *application.TimelineService) *PostHandler {
	return &PostHandler{TimelineService: timeline}
}

type createPostRequest struct {
	Body string `json:"body" binding:"required,postbody"`
}

// Create POST /api/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.TimelineService.CreatePost(c.Request.Context(), middleware.UserID(c), req.Body)
	if errors.Is(err, application.ErrInvalidPost) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"body": err.Error()})
		return
	}
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to save post", nil)
		return
	}
	response.Success(c, http.StatusCreated, postView(p), "Your post is now live!", nil)
}

// Timeline GET /api/timeline?page=
func (h *PostHandler) Timeline(c *gin.Context) {
	page, size := pageQuery(c)
	res, err := h.TimelineService.FollowingPosts(c.Request.Context(), middleware.UserID(c), page, size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to load timeline", nil)
		return
	}
	response.Success(c, http.StatusOK, postPage(res), "timeline", nil)
}

// Explore GET /api/explore?page=
func (h *PostHandler) Explore(c *gin.Context) {
	page, size := pageQuery(c)
	res, err := h.TimelineService.Explore(c.Request.Context(), page, size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to load posts", nil)
		return
	}
	response.Success(c, http.StatusOK, postPage(res), "explore", nil)
}
