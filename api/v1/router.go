package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"guestwall/api/v1/domains"
	"guestwall/api/v1/middleware"
	"guestwall/api/v1/pages"
	"guestwall/internal/httpx"
)

// Deps carries everything the router needs wired in from main.
type Deps struct {
	DB      *gorm.DB
	Redis   *redis.Client // may be nil when the cache is disabled
	Domains *domains.Handler
	Pages   *pages.Handler
}

// SetupRouter sets up the routes
func SetupRouter(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestID())

	r.GET("/healthz", healthzHandler(d.DB, d.Redis))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public page routes the edge resolver rewrites onto.
	d.Pages.Register(r)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/ping", pingHandler)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/me", meHandler)
			d.Domains.Register(protected)
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}

// meHandler returns current user information
func meHandler(c *gin.Context) {
	uid, _ := c.Get("uid")
	username, _ := c.Get("username")

	httpx.OK(c, gin.H{
		"uid":      uid,
		"username": username,
	})
}

// healthzHandler pings the backing stores so the load balancer can tell a
// wedged instance from a slow one.
func healthzHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			httpx.Fail(c, 503, "database unavailable")
			return
		}

		redisOK := true
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				redisOK = false
			}
		}

		httpx.OK(c, gin.H{
			"db":    "ok",
			"redis": redisOK,
		})
	}
}
