package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	"github.com/oksasatya/go-microblog/internal/domain/repository"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestUserRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("john", "john@example.com", "hash", "", "").
		WillReturnRows(mock.NewRows([]string{"id", "last_seen", "created_at", "updated_at"}).
			AddRow(int64(7), now, now, now))

	u := &entity.User{Username: "john", Email: "john@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, now, u.CreatedAt)
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("john", "john@example.com", "hash", "", "").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.Create(context.Background(), &entity.User{Username: "john", Email: "john@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestUserRepositoryGetByUsernameNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("nobody").
		WillReturnRows(mock.NewRows([]string{"id"}))

	u, err := repo.GetByUsername(context.Background(), "nobody")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryUpdateMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users`).
		WithArgs("john", "john@example.com", "hi", "", pgxmock.AnyArg(), int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &entity.User{ID: 9, Username: "john", Email: "john@example.com", AboutMe: "hi"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFollowRepositoryCreateIsIdempotentInsert(t *testing.T) {
	mock := newMock(t)
	repo := NewFollowRepository(mock)

	mock.ExpectExec(`INSERT INTO followers .* ON CONFLICT \(follower_id, followed_id\) DO NOTHING`).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO followers .* ON CONFLICT \(follower_id, followed_id\) DO NOTHING`).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, repo.Create(context.Background(), 1, 2))
	require.NoError(t, repo.Create(context.Background(), 1, 2))
}

func TestFollowRepositoryCounts(t *testing.T) {
	mock := newMock(t)
	repo := NewFollowRepository(mock)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(mock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`WHERE followed_id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`WHERE follower_id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(1)))

	ctx := context.Background()
	ok, err := repo.Exists(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := repo.CountFollowers(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.CountFollowing(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTimelineRepositoryFollowingPosts(t *testing.T) {
	mock := newMock(t)
	repo := NewTimelineRepository(mock)
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\)\s+FROM posts p`).
		WithArgs(int64(1)).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery(`SELECT f.followed_id FROM followers f WHERE f.follower_id = \$1\)\s+ORDER BY p.timestamp DESC, p.id DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(1), 3, 0).
		WillReturnRows(mock.NewRows([]string{
			"id", "body", "timestamp", "language", "user_id",
			"uid", "username", "email", "about_me", "avatar_url", "last_seen",
		}).
			AddRow(int64(11), "from susan", t1.Add(time.Hour), "en", int64(2), int64(2), "susan", "susan@example.com", "", "", t1).
			AddRow(int64(10), "from john", t1, "", int64(1), int64(1), "john", "john@example.com", "", "", t1))

	posts, total, err := repo.FollowingPosts(context.Background(), 1, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, posts, 2)
	assert.Equal(t, int64(11), posts[0].ID)
	assert.Equal(t, "susan", posts[0].Author.Username)
	assert.Equal(t, "john", posts[1].Author.Username)
}
