package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/memeforge/internal/api/handler"
	"github.com/timmy/memeforge/internal/api/middleware"
	"github.com/timmy/memeforge/internal/config"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(forge *service.Forge, cfg config.ServerConfig, log *logger.Logger) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.CORS.AllowAllOrigins,
	}))

	healthHandler := handler.NewHealthHandler(forge)
	sourceHandler := handler.NewSourceHandler(forge)
	memeHandler := handler.NewMemeHandler(forge)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/sources", sourceHandler.ListSources)

		v1.GET("/memes", memeHandler.ListMemes)
		v1.GET("/memes/random", memeHandler.RandomMeme)
	}

	return r
}
