package repository

import (
	"context"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
)

// PostRepository stores posts. List methods return the page and the total row count.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*entity.Post, int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]*entity.Post, int64, error)
}

// TimelineRepository composes a user's feed: their own posts plus posts of
// everyone they follow, each post once, newest first with id as tiebreak.
type TimelineRepository interface {
	FollowingPosts(ctx context.Context, userID int64, offset, limit int) ([]*entity.Post, int64, error)
}
