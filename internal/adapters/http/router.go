// Package http wires the gin router: the WS signal endpoint, the REST API
// consumed by the UI, and static file serving.
package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lekkas/callbridge/internal/adapters/signal"
	"github.com/lekkas/callbridge/internal/app"
	"github.com/lekkas/callbridge/internal/config"
	"github.com/lekkas/callbridge/internal/dictionary"
	"github.com/lekkas/callbridge/internal/translate"
)

// Deps is everything the HTTP surface serves.
type Deps struct {
	Signal     *signal.Controller
	Translator *translate.Orchestrator
	Gate       *translate.Gate
	Logs       *translate.LogStore
	Dict       *dictionary.Store
	Registry   *app.Registry
	Rooms      *app.RoomStore
	Presence   *app.Presence
}

// ClientTokenMiddleware hands every browser a stable opaque identity via a
// cookie; the WS controller adopts it as the connection id.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = uuid.NewString()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("CallbridgeSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	r.GET("/health", deps.handleHealth)

	api := r.Group("/api")
	api.GET("/ws", func(c *gin.Context) {
		deps.Signal.Handle(ctx, c)
	})
	api.POST("/translate", deps.handleTranslate)
	api.GET("/translation-logs", deps.handleTranslationLogs)
	api.GET("/live-stats", deps.handleLiveStats)

	api.GET("/dictionary", deps.handleDictionaryList)
	api.POST("/dictionary", deps.handleDictionaryAdd)
	api.DELETE("/dictionary", deps.handleDictionaryClear)
	api.DELETE("/dictionary/:index", deps.handleDictionaryDelete)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}
