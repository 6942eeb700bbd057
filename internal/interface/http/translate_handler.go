package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/application"
	"github.com/oksasatya/go-microblog/pkg/response"
	"github.com/oksasatya/go-microblog/pkg/translate"
	"github.com/oksasatya/go-microblog/pkg/validation"
)

type TranslateHandler struct {
	Svc *application.TranslationService
}

func NewTranslateHandler(svc *application.TranslationService) *TranslateHandler {
	return &TranslateHandler{Svc: svc}
}

type translateRequest struct {
	Text           string `json:"text" binding:"required"`
	SourceLanguage string `json:"source_language" binding:"required,langcode"`
	DestLanguage   string `json:"dest_language" binding:"required,langcode"`
}

// Translate POST /api/translate
func (h *TranslateHandler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	out, err := h.Svc.Translate(c.Request.Context(), req.Text, req.SourceLanguage, req.DestLanguage)
	switch {
	case errors.Is(err, translate.ErrNotConfigured):
		response.Error[any](c, http.StatusServiceUnavailable, "Error: the translation service is not configured.", nil)
	case err != nil:
		response.Error[any](c, http.StatusBadGateway, "Error: the translation service failed.", nil)
	default:
		response.Success(c, http.StatusOK, gin.H{"text": out}, "translated", nil)
	}
}
