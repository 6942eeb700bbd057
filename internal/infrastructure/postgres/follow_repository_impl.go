package postgres

import (
	"context"

	"github.com/oksasatya/go-microblog/internal/domain/repository"
)

type FollowRepository struct {
	db DBTX
}

func NewFollowRepository(db DBTX) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts the edge; following twice is a no-op.
func (r *FollowRepository) Create(ctx context.Context, followerID, followedID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO followers (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`, followerID, followedID)
	return mapErr(err)
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followedID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM followers WHERE follower_id = $1 AND followed_id = $2`, followerID, followedID)
	return mapErr(err)
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM followers WHERE follower_id = $1 AND followed_id = $2)
	`, followerID, followedID).Scan(&ok)
	return ok, mapErr(err)
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM followers WHERE followed_id = $1`, userID).Scan(&n)
	return n, mapErr(err)
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM followers WHERE follower_id = $1`, userID).Scan(&n)
	return n, mapErr(err)
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
