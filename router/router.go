package router

import (
	"github.com/amorty/cafe-admin/controllers"
	"github.com/amorty/cafe-admin/live"
	"github.com/amorty/cafe-admin/metrics"
	"github.com/amorty/cafe-admin/middlewares"
	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/schema"
	"github.com/amorty/cafe-admin/services"
	"github.com/amorty/cafe-admin/store"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries everything the HTTP layer needs. DB holds the admin users,
// Store holds the venue records.
type Deps struct {
	DB         *gorm.DB
	Store      store.Store
	Hub        *live.Hub
	Tokens     *utils.TokenManager
	CORSOrigin string

	// Limiter throttles every route. Nil disables it.
	Limiter *middlewares.RateLimiter
	// LoginLimiter throttles the login routes. Nil uses the strict default.
	LoginLimiter *middlewares.RateLimiter
	// OnChange receives every committed mutation, after metrics.
	OnChange services.ChangeFunc
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(deps.CORSOrigin))
	r.Use(metrics.Middleware())
	if deps.Limiter != nil {
		r.Use(deps.Limiter.RateLimit())
	}

	onChange := func(kind *schema.Kind, action, key string) {
		metrics.RecordMutation(kind.Name, action)
		if deps.OnChange != nil {
			deps.OnChange(kind, action, key)
		}
	}

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(deps.DB, deps.Store, deps.Tokens)
	recordCtrl := controllers.NewRecordController(deps.Store, onChange)
	adminCtrl := controllers.NewAdminController(deps.Store)
	liveCtrl := controllers.NewLiveController(deps.Hub, deps.CORSOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	loginLimiter := deps.LoginLimiter
	if loginLimiter == nil {
		loginLimiter = middlewares.NewStrictRateLimiter()
	}
	login := r.Group("/login")
	login.Use(loginLimiter.RateLimit())
	{
		login.POST("/admin", userCtrl.LoginAdmin)
		login.POST("/customer", userCtrl.LoginCustomer)
	}

	// Live feed; the token rides in the query string
	r.GET("/ws", middlewares.WebSocketAuthMiddleware(deps.Tokens), liveCtrl.Connect)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	r.POST("/logout", middlewares.AuthMiddleware(deps.Tokens), userCtrl.Logout)

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(deps.Tokens))
	{
		api.GET("/me", userCtrl.GetProfile)
		api.GET("/kinds", recordCtrl.ListKinds)

		api.GET("/records/:kind", recordCtrl.List)
		api.POST("/records/:kind", recordCtrl.Create)
		api.GET("/records/:kind/:id", recordCtrl.Get)
		api.PATCH("/records/:kind/:id", recordCtrl.Update)
		api.DELETE("/records/:kind/:id", recordCtrl.Delete)

		api.GET("/options/:kind/:field", recordCtrl.Options)

		api.GET("/stats", middlewares.RequireRole(models.RoleAdmin), adminCtrl.GetDashboardStats)
	}

	return r
}
