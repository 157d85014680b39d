package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/chitchat/realtime/internal/adapters/signal"
	"github.com/chitchat/realtime/internal/app"
	"github.com/chitchat/realtime/internal/config"
	"github.com/chitchat/realtime/internal/domain"
	"github.com/chitchat/realtime/internal/storage"
)

func genClientToken() string {
	return uuid.NewString()
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator, store *storage.Store) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	sessionStore := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ChitChatSessions", sessionStore))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	ctl := signal.NewWSController(orch, cfg.ReadLimit, cfg.PingPeriod)
	api.GET("/ws/channel", func(c *gin.Context) {
		ctl.HandleChannel(ctx, c)
	})

	// Read paths for history; the realtime layer never replays.
	api.GET("/presence", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"online": orch.Registry.Roster()})
	})

	api.GET("/calls/:identity", func(c *gin.Context) {
		id := domain.Identity(c.Param("identity"))
		if err := id.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identity"})
			return
		}
		calls, err := store.CallsFor(c.Request.Context(), id)
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("list calls")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"calls": calls})
	})

	api.GET("/messages/:conversation", func(c *gin.Context) {
		msgs, err := store.MessagesIn(c.Request.Context(), c.Param("conversation"))
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("list messages")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs})
	})

	api.GET("/maintenance", func(c *gin.Context) {
		active, err := store.Maintenance(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("read maintenance flag")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"active": active})
	})

	return r
}
