package sqlite

import (
	"time"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
)

type userModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:64;not null;uniqueIndex"`
	Email        string `gorm:"size:120;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null;default:''"`
	AboutMe      string `gorm:"size:140;not null;default:''"`
	AvatarURL    string `gorm:"not null;default:''"`
	LastSeen     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type postModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Body      string    `gorm:"size:140;not null"`
	Timestamp time.Time `gorm:"index;not null"`
	Language  string    `gorm:"size:5;not null;default:''"`
	UserID    int64     `gorm:"index;not null"`
	Author    userModel `gorm:"foreignKey:UserID"`
}

func (postModel) TableName() string { return "posts" }

// followModel uses the (follower_id, followed_id) pair as its primary key.
type followModel struct {
	FollowerID int64 `gorm:"primaryKey;autoIncrement:false"`
	FollowedID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time
}

func (followModel) TableName() string { return "followers" }

func (m *userModel) toEntity() *entity.User {
	return &entity.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		AboutMe:      m.AboutMe,
		AvatarURL:    m.AvatarURL,
		LastSeen:     m.LastSeen,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (m *postModel) toEntity() *entity.Post {
	p := &entity.Post{
		ID:        m.ID,
		Body:      m.Body,
		Timestamp: m.Timestamp,
		Language:  m.Language,
		UserID:    m.UserID,
	}
	if m.Author.ID != 0 {
		p.Author = m.Author.toEntity()
	}
	return p
}

func toPosts(rows []postModel) []*entity.Post {
	out := make([]*entity.Post, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out
}
