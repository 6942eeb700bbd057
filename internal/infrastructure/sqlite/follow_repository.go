package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oksasatya/go-microblog/internal/domain/repository"
)

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) repository.FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followedID int64) error {
	f := &followModel{FollowerID: followerID, FollowedID: followedID, CreatedAt: time.Now().UTC()}
	// following twice is not an error
	return mapErr(r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID int64) error {
	return mapErr(r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&followModel{}).Error)
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&followModel{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&cnt).Error; err != nil {
		return false, mapErr(err)
	}
	return cnt > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&followModel{}).Where("followed_id = ?", userID).Count(&cnt).Error
	return cnt, mapErr(err)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&followModel{}).Where("follower_id = ?", userID).Count(&cnt).Error
	return cnt, mapErr(err)
}
