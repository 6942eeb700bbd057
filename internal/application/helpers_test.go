package application

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	"github.com/oksasatya/go-microblog/internal/infrastructure/sqlite"
)

type fixture struct {
	users    repo.UserRepository
	posts    repo.PostRepository
	follows  repo.FollowRepository
	timeline repo.TimelineRepository
	mr       *miniredis.Miniredis
	rdb      *redis.Client
	logger   *logrus.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	mr := miniredis.RunT(t)
	logger, _ := test.NewNullLogger()
	return &fixture{
		users:    sqlite.NewUserRepository(db),
		posts:    sqlite.NewPostRepository(db),
		follows:  sqlite.NewFollowRepository(db),
		timeline: sqlite.NewTimelineRepository(db),
		mr:       mr,
		rdb:      redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		logger:   logger,
	}
}

func (f *fixture) user(t *testing.T, name string) *entity.User {
	t.Helper()
	u := &entity.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body)
	return nil
}
