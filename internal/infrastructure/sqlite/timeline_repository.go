package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	"github.com/oksasatya/go-microblog/internal/domain/repository"
)

type timelineRepository struct {
	db *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) repository.TimelineRepository {
	return &timelineRepository{db: db}
}

func (r *timelineRepository) FollowingPosts(ctx context.Context, userID int64, offset, limit int) ([]*entity.Post, int64, error) {
	return listPosts(ctx, r.db, func(db *gorm.DB) *gorm.DB {
		followed := db.Session(&gorm.Session{NewDB: true}).
			Model(&followModel{}).
			Select("followed_id").
			Where("follower_id = ?", userID)
		return db.Where("posts.user_id = ? OR posts.user_id IN (?)", userID, followed)
	}, offset, limit)
}
