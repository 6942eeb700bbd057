package application

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-microblog/config"
	"github.com/oksasatya/go-microblog/internal/domain/entity"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	"github.com/oksasatya/go-microblog/pkg/helpers"
	"github.com/oksasatya/go-microblog/pkg/mailer"
	"github.com/oksasatya/go-microblog/pkg/mailer/templates"
)

type resetClaims struct {
	UserID int64 `json:"reset_password"`
	jwt.RegisteredClaims
}

// ResetService issues and redeems stateless password reset tokens.
// Tokens are not revocable; they stay valid until exp.
type ResetService struct {
	Users     repo.UserRepository
	Secret    []byte
	TTL       time.Duration
	Publisher Publisher
	Cfg       *config.Config
	Logger    *logrus.Logger

	now func() time.Time
}

func NewResetService(users repo.UserRepository, cfg *config.Config, pub Publisher, logger *logrus.Logger) *ResetService {
	return &ResetService{
		Users:     users,
		Secret:    []byte(cfg.ResetTokenSecret),
		TTL:       cfg.ResetTokenTTL,
		Publisher: pub,
		Cfg:       cfg,
		Logger:    logger,
	}
}

func (s *ResetService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// DefaultResetTokenTTL applies when no positive RESET_TOKEN_TTL is configured.
const DefaultResetTokenTTL = 600 * time.Second

func (s *ResetService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultResetTokenTTL
	}
	return s.TTL
}

// IssueToken signs a token for u that expires at now+ttl. A ttl <= 0 yields a
// token that is already expired.
func (s *ResetService) IssueToken(u *entity.User, ttl time.Duration) (string, error) {
	claims := resetClaims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.clock().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// VerifyToken returns the user the token was issued for.
// Every failure, including an unknown user, is reported as ErrInvalidResetToken.
func (s *ResetService) VerifyToken(ctx context.Context, token string) (*entity.User, error) {
	claims := &resetClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil || claims.UserID <= 0 {
		return nil, ErrInvalidResetToken
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, ErrInvalidResetToken
	}
	return u, nil
}

// ResetLink appends the token to the configured reset page URL.
func (s *ResetService) ResetLink(token string) string {
	base := s.Cfg.ResetPasswordURL
	if u, err := url.Parse(base); err == nil {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return base + "?token=" + url.QueryEscape(token)
}

// RequestReset queues a reset email when email belongs to an account.
// Unknown addresses succeed silently.
func (s *ResetService) RequestReset(ctx context.Context, email string, meta RequestMeta) error {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return err
	}
	token, err := s.IssueToken(u, s.ttl())
	if err != nil {
		return err
	}
	if !s.Cfg.MailSendEnabled || s.Publisher == nil {
		helpers.LogInfo(s.Logger, "reset mail disabled, skipping enqueue", logrus.Fields{"user_id": u.ID})
		return nil
	}

	data := templates.NewResetPasswordData(s.Cfg, u.Username, u.Email, s.ResetLink(token),
		templates.WithIP(meta.IP),
		templates.WithUserAgent(meta.UserAgent),
		templates.WithTime(s.clock()),
		templates.WithExpiresIn(s.ttl()),
	)
	job := mailer.EmailJob{To: u.Email, Template: templates.ResetPassword, Data: data}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		helpers.LogError(s.Logger, "enqueue reset email failed", err, logrus.Fields{"user_id": u.ID})
		return err
	}
	return nil
}

// ConfirmReset sets a new password for the token's user.
func (s *ResetService) ConfirmReset(ctx context.Context, token, newPassword string) error {
	u, err := s.VerifyToken(ctx, token)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, u.ID, hash)
}
