package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dmelnik/roomcast/internal/config"
	"github.com/dmelnik/roomcast/internal/core"
)

// NewServer builds the HTTP server: health, the REST surface, and the
// websocket endpoint.
func NewServer(reg *core.Registry, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	handlers := NewAPIHandlers(reg, logger)
	api := router.Group("/api")
	api.GET("/rooms", handlers.ListRooms)
	api.GET("/stats", handlers.Stats)

	router.GET("/ws", gin.WrapH(NewWSHandler(reg, cfg.WSRateLimit, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
