package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/airforshare/backend/internal/adapters/signal"
	"github.com/airforshare/backend/internal/app"
	"github.com/airforshare/backend/internal/blob"
	"github.com/airforshare/backend/internal/config"
	"github.com/airforshare/backend/internal/metrics"
	"github.com/airforshare/backend/internal/storage"
)

// API bundles the dependencies of the REST handlers.
type API struct {
	Orch  *app.Orchestrator
	Files *storage.FileStore
	Blobs blob.Store

	cfg *config.Config
}

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator, files *storage.FileStore, blobs blob.Store) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(OriginFilter(cfg.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	a := &API{Orch: orch, Files: files, Blobs: blobs, cfg: cfg}

	api := r.Group("/api")

	rooms := api.Group("/rooms")
	rooms.GET("", a.listPublicRooms)
	rooms.GET("/:roomId", a.getRoom)
	rooms.POST("/create", a.createRoom)

	api.GET("/endpoints", a.listEndpoints)

	fg := api.Group("/files")
	fg.GET("/public", a.listPublicFiles)
	fg.GET("/all", a.listAllFiles)
	fg.POST("/public/upload", a.uploadFile(true))
	fg.POST("/private/upload", a.uploadFile(false))
	fg.DELETE("/public/*publicId", a.deleteFile)
	fg.DELETE("/private/*publicId", a.deleteFile)

	ctl := signal.NewController(orch, cfg)
	r.GET("/ws/signal", func(c *gin.Context) {
		ctl.HandleSignal(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
