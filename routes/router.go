package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cppla/riqqa/config"
	"github.com/cppla/riqqa/controllers"
	"github.com/cppla/riqqa/middleware"
	"github.com/cppla/riqqa/models"
	"github.com/cppla/riqqa/services"
	"github.com/cppla/riqqa/store"
	"github.com/cppla/riqqa/utils"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Config  config.AppConfig
	Store   *store.Store
	Posts   *services.PostService
	Admin   *services.AdminService
	Health  *services.HealthService
	Tokens  middleware.TokenParser
	Revoked middleware.RevocationChecker
}

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file when configured.
	gl := utils.Logger
	if cfg.GinPath != "" {
		gl = utils.NewRollingFileLogger(cfg.GinPath, cfg)
	}
	r.Use(utils.Ginzap(gl))
	r.Use(utils.RecoveryWithZap(gl))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.Locale(cfg.Locale))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postController := controllers.NewPostController(d.Posts)
	stateController := controllers.NewStateController(d.Store)
	healthController := controllers.NewHealthController(d.Health)
	adminController := controllers.NewAdminController(d.Admin, cfg.UploadMaxBytes)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	api.GET("/sections", stateController.ListSections)
	api.GET("/sections/:section/posts", postController.ListSectionPosts)
	api.GET("/state", stateController.GetState)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", postController.ListPosts)
	postsGroup.GET("/:id", postController.GetPost)
	postsGroup.POST("/:id/like", postController.Like)
	postsGroup.DELETE("/:id/like", postController.Unlike)
	postsGroup.POST("/:id/comments", postController.CreateComment)

	healthGroup := api.Group("/health-data")
	healthGroup.GET("", healthController.GetHealthData)
	healthGroup.PUT("/period", healthController.SavePeriod)
	healthGroup.PUT("/pregnancy", healthController.SavePregnancy)
	healthGroup.POST("/feedings", healthController.RecordFeeding)

	adminGroup := api.Group("/admin")
	adminGroup.POST("/login", adminController.Login)

	protected := adminGroup.Group("")
	protected.Use(middleware.AdminRequired(d.Tokens, d.Revoked, d.Admin))
	protected.POST("/logout", adminController.Logout)
	protected.GET("/session", adminController.Session)
	protected.GET("/posts", adminController.ListPosts)
	protected.POST("/posts", adminController.CreatePost)
	protected.DELETE("/posts/:id", adminController.DeletePost)
	protected.PUT("/posts/:id/likes", adminController.SetLikes)
	protected.POST("/upload", adminController.Upload)

	r.NoRoute(func(ctx *gin.Context) {
		utils.ErrorKey(ctx, http.StatusNotFound, 40400, models.MsgRouteNotFound)
	})

	return r
}
