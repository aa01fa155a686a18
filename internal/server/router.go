package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashpos/internal/analytics"
	"dashpos/internal/auth"
	"dashpos/internal/config"
	"dashpos/internal/connections/database"
	"dashpos/internal/connections/rabbitmq"
	"dashpos/internal/domain"
	"dashpos/internal/inventory"
	"dashpos/internal/menu"
	"dashpos/internal/operations"
	"dashpos/internal/qr"
	"dashpos/internal/realtime"
	"dashpos/internal/reviews"
	"dashpos/internal/settings"
)

// Deps carries everything the router wires together.
type Deps struct {
	Cfg    config.App
	Log    *zap.Logger
	DB     *database.Conn
	MQ     *rabbitmq.Client
	Tokens *auth.TokenManager

	Auth       *auth.Handler
	Menu       *menu.Handler
	Inventory  *inventory.Handler
	Operations *operations.Handler
	Analytics  *analytics.Handler
	QR         *qr.Handler
	Reviews    *reviews.Handler
	Settings   *settings.Handler
	Realtime   *realtime.Handler
}

func NewRouter(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(d.Log))

	corsCfg := cors.DefaultConfig()
	if len(d.Cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = d.Cfg.Server.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/health", health(d.DB, d.MQ))

	v1 := r.Group("/api/v1")

	d.Auth.Register(v1.Group("/auth"), d.Tokens)

	// Public surfaces: QR scans and review submission need no token.
	d.QR.RegisterPublic(v1.Group("/qr"))
	d.Reviews.RegisterPublic(v1.Group("/reviews/public"))

	authed := v1.Group("", auth.Middleware(d.Tokens), auth.RequireBusinessAccess())
	d.Menu.Register(authed.Group("/menu"))
	d.Inventory.Register(authed.Group("/inventory"))
	d.Operations.Register(authed.Group("/operations"))
	d.Analytics.Register(authed.Group("/analytics"))
	d.QR.Register(authed.Group("/qr"))
	d.Reviews.Register(authed.Group("/reviews"))

	// Settings changes are for owners and managers.
	managed := v1.Group("/settings", auth.Middleware(d.Tokens),
		auth.RequireBusinessAccess(domain.RoleOwner, domain.RoleManager))
	d.Settings.Register(managed)

	// Websockets authenticate via query token inside the handler.
	d.Realtime.Register(v1.Group("/ws"))

	return r
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func health(db *database.Conn, mq *rabbitmq.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "ok", "rabbitmq": "ok"}
		if err := db.Ping(c.Request.Context()); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := mq.Ping(); err != nil {
			checks["rabbitmq"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
	}
}
