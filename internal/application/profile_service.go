package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

const MaxAboutMeLength = 140

var ErrInvalidAboutMe = errors.New("about me must be at most 140 characters")

// ProfileService reads and edits public profile data.
type ProfileService struct {
	Users     repo.UserRepository
	Redis     *redis.Client
	Index     *UserIndex
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewProfileService(users repo.UserRepository, rdb *redis.Client, index *UserIndex, gcs *storage.Client, bucket string, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Users: users, Redis: rdb, Index: index, GCS: gcs, GCSBucket: bucket, Logger: logger}
}

func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes username and about_me. A new username must not belong to anyone else.
func (s *ProfileService) UpdateProfile(ctx context.Context, id int64, username, aboutMe string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username != "" && username != u.Username {
		if _, err := s.Users.GetByUsername(ctx, username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		u.Username = username
	}
	if utf8.RuneCountInString(aboutMe) > MaxAboutMeLength {
		return nil, ErrInvalidAboutMe
	}
	u.AboutMe = aboutMe

	if err := s.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	s.afterUpdate(ctx, u)
	return u, nil
}

// UploadAvatar stores the image in GCS and points the user's avatar at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, id int64, filename, contentType string, r io.Reader) (*entity.User, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, ErrStorageUnavailable
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, helpers.AvatarObjectPath(id, filename), contentType, r)
	if err != nil {
		helpers.LogError(s.Logger, "avatar upload failed", err, logrus.Fields{"user_id": id})
		return nil, err
	}
	previous := u.AvatarURL
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	if obj, ok := helpers.ObjectPathFromURL(s.GCSBucket, previous); ok {
		if err := helpers.DeleteObject(ctx, s.GCS, s.GCSBucket, obj); err != nil {
			helpers.LogError(s.Logger, "old avatar delete failed", err, logrus.Fields{"user_id": id, "object": obj})
		}
	}
	s.afterUpdate(ctx, u)
	return u, nil
}

func (s *ProfileService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []map[string]any{}, nil
	}
	return s.Index.Search(ctx, q, size)
}

// afterUpdate keeps the session hash and search index in step with the stored row.
func (s *ProfileService) afterUpdate(ctx context.Context, u *entity.User) {
	if s.Redis != nil {
		key := SessionKey(u.ID)
		if n, err := s.Redis.Exists(ctx, key).Result(); err == nil && n > 0 {
			if err := s.Redis.HSet(ctx, key, "username", u.Username, "updated_at", nowRFC3339()).Err(); err != nil && s.Logger != nil {
				s.Logger.WithError(err).WithField("key", key).Warn("session refresh failed")
			}
		}
	}
	_ = s.Index.Put(ctx, u)
}
