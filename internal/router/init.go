package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-microblog/internal/application"
	"github.com/oksasatya/go-microblog/internal/container"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
	pginfra "github.com/oksasatya/go-microblog/internal/infrastructure/postgres"
	sqliteinfra "github.com/oksasatya/go-microblog/internal/infrastructure/sqlite"
	handlers "github.com/oksasatya/go-microblog/internal/interface/http"
	"github.com/oksasatya/go-microblog/internal/router/modules"
	"github.com/oksasatya/go-microblog/pkg/response"
)

type repositories struct {
	Users    repo.UserRepository
	Posts    repo.PostRepository
	Follows  repo.FollowRepository
	Timeline repo.TimelineRepository
}

// buildRepositories prefers the gorm database when one is registered, else the pgx pool.
func buildRepositories() repositories {
	if db := container.GetGormDB(); db != nil {
		return repositories{
			Users:    sqliteinfra.NewUserRepository(db),
			Posts:    sqliteinfra.NewPostRepository(db),
			Follows:  sqliteinfra.NewFollowRepository(db),
			Timeline: sqliteinfra.NewTimelineRepository(db),
		}
	}
	pool := container.GetPGPool()
	return repositories{
		Users:    pginfra.NewUserRepository(pool),
		Posts:    pginfra.NewPostRepository(pool),
		Follows:  pginfra.NewFollowRepository(pool),
		Timeline: pginfra.NewTimelineRepository(pool),
	}
}

type Services struct {
	Auth        *application.AuthService
	Social      *application.SocialService
	Timeline    *application.TimelineService
	Reset       *application.ResetService
	Profile     *application.ProfileService
	Translation *application.TranslationService
}

func buildServices(r repositories) Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	index := application.NewUserIndex(container.GetES(), cfg.ESUsersIndex, logger)

	var pub application.Publisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	return Services{
		Auth:        application.NewAuthService(r.Users, container.GetJWT(), rdb, index, logger),
		Social:      application.NewSocialService(r.Users, r.Follows, rdb, cfg.FollowCountCacheTTL, logger),
		Timeline:    application.NewTimelineService(r.Posts, r.Timeline, r.Users, cfg.PostsPerPage),
		Reset:       application.NewResetService(r.Users, cfg, pub, logger),
		Profile:     application.NewProfileService(r.Users, rdb, index, container.GetGCS(), cfg.GCSBucket, logger),
		Translation: application.NewTranslationService(container.GetTranslator(), logger),
	}
}

// InitModules builds services from the container and registers every feature module.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	svc := buildServices(buildRepositories())

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, svc.Reset, logger)))
	r.Add(modules.NewUserModule(
		handlers.NewUserHandler(svc.Auth, svc.Profile, svc.Social, svc.Timeline, logger, cfg.CookieDomain, cfg.CookieSecure),
		jwt,
		svc.Auth.TouchLastSeen,
	))
	r.Add(modules.NewSocialModule(handlers.NewSocialHandler(svc.Auth, svc.Social), jwt, svc.Auth.TouchLastSeen))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(svc.Timeline), jwt, svc.Auth.TouchLastSeen))
	r.Add(modules.NewTranslateModule(handlers.NewTranslateHandler(svc.Translation), jwt))
	r.Add(healthModule())
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
	return svc
}

func pingStorage(ctx context.Context) error {
	if db := container.GetGormDB(); db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	if pool := container.GetPGPool(); pool != nil {
		return pool.Ping(ctx)
	}
	return application.ErrStorageUnavailable
}

// healthModule serves GET /api/healthz with the state of storage and Redis.
func healthModule() Module {
	return ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/healthz", func(c *gin.Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			status := gin.H{"storage": "ok", "redis": "ok"}
			healthy := true
			if err := pingStorage(ctx); err != nil {
				status["storage"] = "down"
				healthy = false
			}
			if rdb := container.GetRedis(); rdb == nil || rdb.Ping(ctx).Err() != nil {
				status["redis"] = "down"
				healthy = false
			}
			if !healthy {
				response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", status)
				return
			}
			response.Success(c, http.StatusOK, status, "healthy", nil)
		})
	})
}
