package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	"github.com/oksasatya/go-microblog/internal/domain/repository"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	m := &userModel{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		AboutMe:      u.AboutMe,
		AvatarURL:    u.AvatarURL,
		LastSeen:     now,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return mapErr(err)
	}
	u.ID, u.LastSeen, u.CreatedAt, u.UpdatedAt = m.ID, m.LastSeen, m.CreatedAt, m.UpdatedAt
	return nil
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*entity.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		return nil, mapErr(err)
	}
	return m.toEntity(), nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", u.ID).Updates(map[string]any{
		"username":   u.Username,
		"email":      u.Email,
		"about_me":   u.AboutMe,
		"avatar_url": u.AvatarURL,
		"updated_at": u.UpdatedAt,
	})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	})
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) TouchLastSeen(ctx context.Context, id int64, at time.Time) error {
	return mapErr(r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).
		UpdateColumn("last_seen", at).Error)
}
