package postgres

import (
	"context"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	"github.com/oksasatya/go-microblog/internal/domain/repository"
)

// visiblePosts selects each post authored by $1 or by anyone $1 follows.
// The IN subquery keeps a post from appearing twice.
const visiblePosts = `
	FROM posts p
	JOIN users u ON u.id = p.user_id
	WHERE p.user_id = $1
	   OR p.user_id IN (SELECT f.followed_id FROM followers f WHERE f.follower_id = $1)`

type TimelineRepository struct {
	db DBTX
}

func NewTimelineRepository(db DBTX) *TimelineRepository {
	return &TimelineRepository{db: db}
}

func (r *TimelineRepository) FollowingPosts(ctx context.Context, userID int64, offset, limit int) ([]*entity.Post, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) `+visiblePosts, userID).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}
	rows, err := r.db.Query(ctx, `SELECT `+postWithAuthorColumns+visiblePosts+`
		ORDER BY p.timestamp DESC, p.id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	posts, err := collectPosts(rows)
	return posts, total, err
}

var _ repository.TimelineRepository = (*TimelineRepository)(nil)
