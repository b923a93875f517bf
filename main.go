package main

import (
	"context"
	"time"

	"github.com/amorty/cafe-admin/config"
	"github.com/amorty/cafe-admin/database"
	"github.com/amorty/cafe-admin/live"
	"github.com/amorty/cafe-admin/middlewares"
	"github.com/amorty/cafe-admin/router"
	"github.com/amorty/cafe-admin/services"
	"github.com/amorty/cafe-admin/store"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.SetLogLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if err := database.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		utils.ErrorLogger.Fatalf("Failed to create admin user: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := live.NewHub()
	defer hub.CloseAll()

	var (
		s        store.Store
		onChange services.ChangeFunc
	)
	switch cfg.StoreBackend {
	case config.BackendMemory:
		s = store.NewMemoryStore()
		// no change log in memory, push straight from the request
		onChange = (&services.Publisher{Store: s, Hub: hub}).Func(ctx)
		utils.InfoLogger.Println("Using in-memory record store")
	default:
		s = store.NewGormStore(db)
		monitor := services.NewChangeMonitor(db, s, hub)
		monitor.Interval = cfg.ChangePollInterval
		monitor.Start()
		defer monitor.Stop()
		utils.InfoLogger.Printf("Using %s record store", cfg.DBDriver)
	}

	if cfg.SeedSampleData {
		if err := database.SeedSampleData(ctx, s, time.Now()); err != nil {
			utils.ErrorLogger.Printf("Error seeding sample data: %v", err)
		}
	}

	if err := utils.ValidateSecret(cfg.JWTSecret); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	tokens.StartCleanup(10*time.Minute, ctx.Done())

	limiter := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Sweep()
				if cfg.StoreBackend == config.BackendGorm {
					if n, err := database.PruneChanges(db); err != nil {
						utils.ErrorLogger.Printf("Error pruning change log: %v", err)
					} else if n > 0 {
						utils.InfoLogger.Printf("Pruned %d processed changes", n)
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	r := router.SetupRouter(router.Deps{
		DB:         db,
		Store:      s,
		Hub:        hub,
		Tokens:     tokens,
		CORSOrigin: cfg.CORSOrigin,
		Limiter:    limiter,
		OnChange:   onChange,
	})
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("Error setting trusted proxies: %v", err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
