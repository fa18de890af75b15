package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/LtsTibby/connectsite/internal/adapters/signal"
	"github.com/LtsTibby/connectsite/internal/app"
	"github.com/LtsTibby/connectsite/internal/config"
	"github.com/LtsTibby/connectsite/internal/domain"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware gives every browser a stable token cookie. The token
// identifies the client across reconnects for logging; connection identity is
// still assigned fresh per WebSocket upgrade.
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

func SetupRouter(ctx context.Context, cfg *config.Config, coord *app.Coordinator, relay *app.RelayRouter) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("ConnectSessions", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	ctl := signal.NewController(cfg, coord, relay)

	api := r.Group("/api")

	// GET /api/rooms — list live rooms
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": coord.Directory.List()})
	})

	// GET /api/rooms/:name/members — current snapshot of a room
	api.GET("/rooms/:name/members", func(c *gin.Context) {
		name := domain.NormalizeRoomName(c.Param("name"))
		c.JSON(http.StatusOK, coord.Directory.ListMembers(name))
	})

	// DELETE /api/rooms/:name — evict everyone; the room disappears with its
	// last member
	api.DELETE("/rooms/:name", func(c *gin.Context) {
		name := domain.NormalizeRoomName(c.Param("name"))
		coord.EvictRoom(name)
		c.Status(http.StatusNoContent)
	})

	// GET /api/ice — ICE servers for client-side RTCPeerConnection setup
	api.GET("/ice", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": cfg.ICEServers()})
	})

	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctl.HandleSignal(ctx, c)
	})

	return r
}
