package application

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

const (
	MaxPostLength = 140
	MaxPageSize   = 50
)

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_prev"`
	NextPage int   `json:"next_page,omitempty"`
	PrevPage int   `json:"prev_page,omitempty"`
}

func newPage[T any](items []T, page, size int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	p := Page[T]{Items: items, Page: page, PageSize: size, Total: total}
	p.HasNext = int64(page*size) < total
	p.HasPrev = page > 1
	if p.HasNext {
		p.NextPage = page + 1
	}
	if p.HasPrev {
		p.PrevPage = page - 1
	}
	return p
}

type TimelineService struct {
	Posts           repo.PostRepository
	Timeline        repo.TimelineRepository
	Users           repo.UserRepository
	DefaultPageSize int
}

func NewTimelineService(posts repo.PostRepository, timeline repo.TimelineRepository, users repo.UserRepository, defaultPageSize int) *TimelineService {
	return &TimelineService{Posts: posts, Timeline: timeline, Users: users, DefaultPageSize: defaultPageSize}
}

// Normalize clamps page and size into a usable window.
func (s *TimelineService) Normalize(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = s.DefaultPageSize
		if size <= 0 {
			size = 3
		}
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// FollowingPosts returns the user's own posts and those of everyone they follow, newest first.
func (s *TimelineService) FollowingPosts(ctx context.Context, userID int64, page, size int) (Page[*entity.Post], error) {
	page, size = s.Normalize(page, size)
	items, total, err := s.Timeline.FollowingPosts(ctx, userID, (page-1)*size, size)
	if err != nil {
		return Page[*entity.Post]{}, err
	}
	return newPage(items, page, size, total), nil
}

func (s *TimelineService) Explore(ctx context.Context, page, size int) (Page[*entity.Post], error) {
	page, size = s.Normalize(page, size)
	items, total, err := s.Posts.ListAll(ctx, (page-1)*size, size)
	if err != nil {
		return Page[*entity.Post]{}, err
	}
	return newPage(items, page, size, total), nil
}

func (s *TimelineService) UserPosts(ctx context.Context, userID int64, page, size int) (Page[*entity.Post], error) {
	page, size = s.Normalize(page, size)
	items, total, err := s.Posts.ListByUser(ctx, userID, (page-1)*size, size)
	if err != nil {
		return Page[*entity.Post]{}, err
	}
	return newPage(items, page, size, total), nil
}

// CreatePost stores a post authored by userID and tags it with a detected language.
func (s *TimelineService) CreatePost(ctx context.Context, userID int64, body string) (*entity.Post, error) {
	body = strings.TrimSpace(body)
	if n := utf8.RuneCountInString(body); n == 0 || n > MaxPostLength {
		return nil, ErrInvalidPost
	}
	p := &entity.Post{
		Body:      body,
		Timestamp: time.Now().UTC(),
		Language:  helpers.DetectLanguage(body),
		UserID:    userID,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	if s.Users != nil {
		if author, err := s.Users.GetByID(ctx, userID); err == nil {
			p.Author = author
		}
	}
	return p, nil
}
