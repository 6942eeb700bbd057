package application

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

// FollowCounts is the cached pair of follower/following totals for a user.
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// SocialService maintains the follow graph.
type SocialService struct {
	Users    repo.UserRepository
	Follows  repo.FollowRepository
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

func NewSocialService(users repo.UserRepository, follows repo.FollowRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *SocialService {
	return &SocialService{Users: users, Follows: follows, Redis: rdb, CacheTTL: ttl, Logger: logger}
}

func countsGenKey(userID int64) string {
	return "follow:counts:gen:" + strconv.FormatInt(userID, 10)
}

// countsKey returns the cache key for the user's current counts generation.
// Invalidation bumps the generation, so a load that started before a follow
// change can only write back under a key that is no longer read.
func (s *SocialService) countsKey(ctx context.Context, userID int64) string {
	var gen int64
	if s.Redis != nil {
		if v, err := s.Redis.Get(ctx, countsGenKey(userID)).Int64(); err == nil {
			gen = v
		}
	}
	return "follow:counts:" + strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(gen, 10)
}

// Follow adds the edge follower -> followed. Following twice is a no-op.
func (s *SocialService) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return ErrFollowSelf
	}
	if err := s.Follows.Create(ctx, followerID, followedID); err != nil {
		return err
	}
	s.invalidate(ctx, followerID, followedID)
	return nil
}

// Unfollow removes the edge if present.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return ErrUnfollowSelf
	}
	if err := s.Follows.Delete(ctx, followerID, followedID); err != nil {
		return err
	}
	s.invalidate(ctx, followerID, followedID)
	return nil
}

func (s *SocialService) IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error) {
	return s.Follows.Exists(ctx, followerID, followedID)
}

// FollowByUsername resolves target and follows it on behalf of actor.
func (s *SocialService) FollowByUsername(ctx context.Context, actor *entity.User, target string) (*entity.User, error) {
	u, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	if err := s.Follow(ctx, actor.ID, u.ID); err != nil {
		return u, err
	}
	return u, nil
}

func (s *SocialService) UnfollowByUsername(ctx context.Context, actor *entity.User, target string) (*entity.User, error) {
	u, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}
	if err := s.Unfollow(ctx, actor.ID, u.ID); err != nil {
		return u, err
	}
	return u, nil
}

func (s *SocialService) resolve(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// Counts returns follower and following totals, served from Redis when cached.
func (s *SocialService) Counts(ctx context.Context, userID int64) (FollowCounts, error) {
	return helpers.RedisRemember(ctx, s.Redis, s.countsKey(ctx, userID), s.CacheTTL,
		func(ctx context.Context) (FollowCounts, error) {
			followers, err := s.Follows.CountFollowers(ctx, userID)
			if err != nil {
				return FollowCounts{}, err
			}
			following, err := s.Follows.CountFollowing(ctx, userID)
			if err != nil {
				return FollowCounts{}, err
			}
			return FollowCounts{Followers: followers, Following: following}, nil
		},
		func(err error) {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("user_id", userID).Warn("follow counts cache failed")
			}
		})
}

func (s *SocialService) FollowerCount(ctx context.Context, userID int64) (int64, error) {
	c, err := s.Counts(ctx, userID)
	return c.Followers, err
}

func (s *SocialService) FollowingCount(ctx context.Context, userID int64) (int64, error) {
	c, err := s.Counts(ctx, userID)
	return c.Following, err
}

func (s *SocialService) invalidate(ctx context.Context, ids ...int64) {
	if s.Redis == nil {
		return
	}
	_, err := s.Redis.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range ids {
			p.Incr(ctx, countsGenKey(id))
		}
		return nil
	})
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("follow counts cache invalidation failed")
	}
}
