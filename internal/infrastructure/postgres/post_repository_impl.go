package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	"github.com/oksasatya/go-microblog/internal/domain/repository"
)

const postWithAuthorColumns = `
	p.id, p.body, p.timestamp, p.language, p.user_id,
	u.id, u.username, u.email, u.about_me, u.avatar_url, u.last_seen`

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO posts (body, timestamp, language, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, p.Body, p.Timestamp, p.Language, p.UserID)
	return mapErr(row.Scan(&p.ID))
}

func (r *PostRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*entity.Post, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM posts WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+postWithAuthorColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.timestamp DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	posts, err := collectPosts(rows)
	return posts, total, err
}

func (r *PostRepository) ListAll(ctx context.Context, offset, limit int) ([]*entity.Post, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+postWithAuthorColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.timestamp DESC, p.id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	posts, err := collectPosts(rows)
	return posts, total, err
}

func collectPosts(rows pgx.Rows) ([]*entity.Post, error) {
	defer rows.Close()
	out := make([]*entity.Post, 0)
	for rows.Next() {
		p := &entity.Post{Author: &entity.User{}}
		a := p.Author
		if err := rows.Scan(&p.ID, &p.Body, &p.Timestamp, &p.Language, &p.UserID,
			&a.ID, &a.Username, &a.Email, &a.AboutMe, &a.AvatarURL, &a.LastSeen); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var _ repository.PostRepository = (*PostRepository)(nil)
