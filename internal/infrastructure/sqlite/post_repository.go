package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	"github.com/oksasatya/go-microblog/internal/domain/repository"
)

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) repository.PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *entity.Post) error {
	m := &postModel{Body: p.Body, Timestamp: p.Timestamp, Language: p.Language, UserID: p.UserID}
	if err := r.db.WithContext(ctx).Omit("Author").Create(m).Error; err != nil {
		return mapErr(err)
	}
	p.ID = m.ID
	return nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*entity.Post, int64, error) {
	return listPosts(ctx, r.db, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.user_id = ?", userID)
	}, offset, limit)
}

func (r *postRepository) ListAll(ctx context.Context, offset, limit int) ([]*entity.Post, int64, error) {
	return listPosts(ctx, r.db, func(db *gorm.DB) *gorm.DB { return db }, offset, limit)
}

// listPosts counts and pages posts matching scope, newest first.
func listPosts(ctx context.Context, db *gorm.DB, scope func(*gorm.DB) *gorm.DB, offset, limit int) ([]*entity.Post, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&postModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, mapErr(err)
	}
	var rows []postModel
	err := db.WithContext(ctx).
		Scopes(scope).
		Preload("Author").
		Order("posts.timestamp DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, mapErr(err)
	}
	return toPosts(rows), total, nil
}
