package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-microblog/config"
	"github.com/oksasatya/go-microblog/internal/application"
	"github.com/oksasatya/go-microblog/internal/domain/entity"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	pginfra "github.com/oksasatya/go-microblog/internal/infrastructure/postgres"
	sqliteinfra "github.com/oksasatya/go-microblog/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-microblog/pkg/helpers"
)

const demoPassword = "password123"

// demo graph: john -> susan, david; susan -> mary; mary -> david
var (
	demoUsers = []string{"john", "susan", "mary", "david"}
	demoPosts = map[string][]string{
		"john":  {"Beautiful day in Portland!"},
		"susan": {"The Avengers movie was so cool!"},
		"mary":  {"Just finished a great book."},
		"david": {"Anyone up for a hike this weekend?"},
	}
	demoFollows = [][2]string{
		{"john", "susan"},
		{"john", "david"},
		{"susan", "mary"},
		{"mary", "david"},
	}
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	var (
		users    repo.UserRepository
		posts    repo.PostRepository
		follows  repo.FollowRepository
		timeline repo.TimelineRepository
	)
	if cfg.DBDriver == "sqlite" {
		db, err := sqliteinfra.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open sqlite: %v", err)
		}
		users, posts = sqliteinfra.NewUserRepository(db), sqliteinfra.NewPostRepository(db)
		follows, timeline = sqliteinfra.NewFollowRepository(db), sqliteinfra.NewTimelineRepository(db)
	} else {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		users, posts = pginfra.NewUserRepository(pool), pginfra.NewPostRepository(pool)
		follows, timeline = pginfra.NewFollowRepository(pool), pginfra.NewTimelineRepository(pool)
	}

	auth := application.NewAuthService(users, nil, nil, nil, logger)
	social := application.NewSocialService(users, follows, nil, 0, logger)
	feed := application.NewTimelineService(posts, timeline, users, cfg.PostsPerPage)

	byName := make(map[string]*entity.User, len(demoUsers))
	for _, name := range demoUsers {
		u, err := auth.Register(ctx, name, name+"@example.com", demoPassword)
		if errors.Is(err, application.ErrUsernameTaken) || errors.Is(err, application.ErrEmailTaken) {
			if u, err = users.GetByUsername(ctx, name); err != nil {
				log.Fatalf("load %s: %v", name, err)
			}
			byName[name] = u
			logger.WithField("username", name).Info("user exists, skipping posts")
			continue
		}
		if err != nil {
			log.Fatalf("seed %s: %v", name, err)
		}
		byName[name] = u
		for _, body := range demoPosts[name] {
			if _, err := feed.CreatePost(ctx, u.ID, body); err != nil {
				log.Fatalf("post for %s: %v", name, err)
			}
		}
		logger.WithFields(logrus.Fields{"username": name, "id": u.ID}).Info("seeded user")
	}

	for _, edge := range demoFollows {
		if err := social.Follow(ctx, byName[edge[0]].ID, byName[edge[1]].ID); err != nil {
			log.Fatalf("follow %s -> %s: %v", edge[0], edge[1], err)
		}
	}
	logger.WithField("password", demoPassword).Info("seed complete")
}
