package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	v1 "guestwall/api/v1"
	"guestwall/api/v1/domains"
	"guestwall/api/v1/pages"
	"guestwall/internal/auth"
	"guestwall/internal/cache"
	"guestwall/internal/config"
	"guestwall/internal/db"
	"guestwall/internal/dnsplan"
	"guestwall/internal/dnsverify"
	"guestwall/internal/domaincache"
	"guestwall/internal/lifecycle"
	"guestwall/internal/metrics"
	"guestwall/internal/ratelimit"
	"guestwall/internal/registrar"
	"guestwall/internal/resolver"
	"guestwall/internal/store"

	goredis "github.com/go-redis/redis/v8"
)

func main() {
	// 1. Load configuration
	var cfg *config.Config
	var err error
	if iniPath := os.Getenv("GUESTWALL_CONFIG"); iniPath != "" {
		cfg, err = config.LoadFromINI(iniPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("✓ Configuration loaded")

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	baseLog := logrus.NewEntry(logger)

	auth.InitJWT(cfg.JWT.Secret)

	// 2. Initialize MySQL
	gdb, err := db.InitMySQL(cfg.MySQL.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize MySQL: %v", err)
	}
	if cfg.Migrate {
		if err := db.Migrate(gdb); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// 3. Initialize Redis. The resolver degrades to store-only reads when
	// the cache is disabled, so a missing Redis is not fatal in dev.
	var rdb *goredis.Client
	if cfg.Redis.Enabled {
		rdb, err = cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
		defer rdb.Close()
	} else {
		log.Println("Redis disabled, resolver runs store-only")
	}

	// 4. Wire services
	targets := dnsplan.Targets{
		AnycastIP:  cfg.Platform.AnycastIP,
		EdgeTarget: cfg.Platform.EdgeCNAMETarget,
	}

	gbStore := store.New(gdb)
	domCache := domaincache.New(rdb, baseLog,
		time.Duration(cfg.DomainCache.PositiveTTLSec)*time.Second,
		time.Duration(cfg.DomainCache.NegativeTTLSec)*time.Second)
	vercel := registrar.NewClient(cfg.Vercel.Token, cfg.Vercel.ProjectID, cfg.Vercel.TeamID, baseLog)
	verifier := dnsverify.New(baseLog)
	limiter := ratelimit.NewUserLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)

	svc := lifecycle.NewService(lifecycle.Config{
		Store:          gbStore,
		Cache:          domCache,
		Registrar:      vercel,
		Verifier:       verifier,
		Limiter:        limiter,
		PlatformDomain: cfg.Platform.Domain,
		Targets:        targets,
		Logger:         baseLog,
	})

	res := resolver.New(domCache, gbStore, metrics.NewResolverMetrics(), baseLog)

	// 5. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	v1.SetupRouter(r, v1.Deps{
		DB:      gdb,
		Redis:   rdb,
		Domains: domains.NewHandler(svc, metrics.NewLifecycleMetrics()),
		Pages:   pages.NewHandler(gbStore),
	})

	// The resolver wraps the whole engine so custom-domain requests are
	// rewritten before gin routes them.
	handler := resolver.Handler(r, res, resolver.HostConfig{
		PlatformDomain: cfg.Platform.Domain,
		PreviewSuffix:  cfg.Platform.PreviewSuffix,
	})

	log.Printf("✓ Server starting on %s", cfg.HTTPAddr)

	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
