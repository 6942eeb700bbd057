package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-microblog/pkg/translate"
)

// TranslationService proxies text to a machine translation backend.
type TranslationService struct {
	Translator translate.Translator
	Logger     *logrus.Logger
}

func NewTranslationService(t translate.Translator, logger *logrus.Logger) *TranslationService {
	return &TranslationService{Translator: t, Logger: logger}
}

func (s *TranslationService) Translate(ctx context.Context, text, source, dest string) (string, error) {
	if s.Translator == nil {
		return "", translate.ErrNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" || source == dest {
		return text, nil
	}
	out, err := s.Translator.Translate(ctx, text, source, dest)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"from": source, "to": dest}).Warn("translation failed")
		}
		return "", err
	}
	return out, nil
}
