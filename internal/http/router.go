package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/albumhub/internal/auth"
	"github.com/geocoder89/albumhub/internal/cache"
	"github.com/geocoder89/albumhub/internal/config"
	"github.com/geocoder89/albumhub/internal/http/handlers"
	"github.com/geocoder89/albumhub/internal/http/middlewares"
	"github.com/geocoder89/albumhub/internal/observability"
	"github.com/geocoder89/albumhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, albumCache *cache.Cache, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("albumhub"))

	// metrics: per-router registry so tests can build routers freely
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	r.Use(prom.GinHandleMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// wire up repositories
	usersRepo := postgres.NewUsersRepoWithMetrics(pool, prom)
	albumsRepo := postgres.NewAlbumsRepoWithMetrics(pool, prom)

	// token manager; zero TTL keeps tokens valid indefinitely
	jwtManager := auth.NewManager(cfg.Secret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	// wire up handlers
	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager)
	albumsHandler := handlers.NewAlbumsHandlerWithCache(albumsRepo, albumCache)

	authMw := middlewares.NewAuthMiddleware(jwtManager, usersRepo)

	api := r.Group("/api")

	api.POST("/signup", authHandler.SignUp)
	api.GET("/signin", middlewares.BasicAuth(), authHandler.SignIn)

	albums := api.Group("/album", authMw.RequireAuth())
	albums.POST("", albumsHandler.CreateAlbum)
	albums.GET("/:id", albumsHandler.GetAlbumById)
	albums.PUT("/:id", albumsHandler.UpdateAlbum)
	albums.DELETE("/:id", albumsHandler.DeleteAlbum)

	return r
}
