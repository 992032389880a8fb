package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"anoa.com/neoboard/internal/config"
	"anoa.com/neoboard/internal/middleware"
	"anoa.com/neoboard/internal/scheduler"
	"anoa.com/neoboard/pkg/metrics"
	"anoa.com/neoboard/pkg/token"
	"anoa.com/neoboard/pkg/validator"

	boardHttp "anoa.com/neoboard/internal/modules/board/delivery/http"
	boardRepo "anoa.com/neoboard/internal/modules/board/repository"
	boardService "anoa.com/neoboard/internal/modules/board/service"

	postHttp "anoa.com/neoboard/internal/modules/post/delivery/http"
	postRepo "anoa.com/neoboard/internal/modules/post/repository"
	postService "anoa.com/neoboard/internal/modules/post/service"

	leaderboardHttp "anoa.com/neoboard/internal/modules/leaderboard/delivery/http"
	leaderboardService "anoa.com/neoboard/internal/modules/leaderboard/service"

	realtimeHttp "anoa.com/neoboard/internal/modules/realtime/delivery/http"
	realtimeService "anoa.com/neoboard/internal/modules/realtime/service"

	searchHttp "anoa.com/neoboard/internal/modules/search/delivery/http"
	searchService "anoa.com/neoboard/internal/modules/search/service"

	statHttp "anoa.com/neoboard/internal/modules/stat/delivery/http"
	statService "anoa.com/neoboard/internal/modules/stat/service"

	threadHttp "anoa.com/neoboard/internal/modules/thread/delivery/http"
	threadRepo "anoa.com/neoboard/internal/modules/thread/repository"
	threadService "anoa.com/neoboard/internal/modules/thread/service"

	userHttp "anoa.com/neoboard/internal/modules/user/delivery/http"
	userRepo "anoa.com/neoboard/internal/modules/user/repository"
	userService "anoa.com/neoboard/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	scheduler   *scheduler.Scheduler
	cfg         *config.Config
	db          *gorm.DB
	redisClient *redis.Client
}

// NewServer builds every module and the router. redisClient may be nil.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	validator.RegisterCustomValidations()

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTExpiresIn)

	var meiliSvc searchService.SearchService
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		meiliSvc = searchService.NewMeiliSearchService(meiliClient)
	} else {
		log.Println("🔎 MEILISEARCH_HOST not set, search disabled")
	}

	hub := realtimeService.NewHub(redisClient)

	userRepo := userRepo.NewUserRepository(db)
	authSvc := userService.NewAuthService(userRepo, issuer)
	authHandler := userHttp.NewAuthHandler(authSvc)

	boardRepo := boardRepo.NewBoardRepository(db)
	boardSvc := boardService.NewBoardService(boardRepo)
	boardHandler := boardHttp.NewBoardHandler(boardSvc)

	threadRepo := threadRepo.NewRepository(db)
	threadSvc := threadService.NewService(threadRepo, boardRepo, redisClient, cfg.RateLimitThread, meiliSvc, hub)
	threadHandler := threadHttp.NewThreadHandler(threadSvc)

	postRepo := postRepo.NewPostRepository(db)
	postSvc := postService.NewPostService(postRepo, threadRepo, redisClient, cfg.RateLimitPost, meiliSvc, hub)
	postHandler := postHttp.NewPostHandler(postSvc)

	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(leaderboardService.NewLeaderboardService(userRepo))
	searchHandler := searchHttp.NewSearchHandler(meiliSvc)
	liveHandler := realtimeHttp.NewLiveHandler(hub, threadSvc, cfg.AllowedOrigins)

	statSvc := statService.NewStatService(sqlDB, db.Dialector.Name(), statService.ServerInfo{
		Port:        cfg.Port,
		Environment: cfg.AppEnv,
	}, boardRepo, userRepo, threadRepo, postRepo)
	statHandler := statHttp.NewStatHandler(statSvc)

	jobs := scheduler.NewScheduler()
	if err := jobs.Register(scheduler.NewCounterJob(boardRepo, cfg.ReconcileSchedule)); err != nil {
		return nil, err
	}

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/health", "/metrics"},
	}))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(metrics.Middleware())

	router.GET("/", statHandler.Root)
	router.GET("/metrics", metrics.Handler())

	authMiddleware := middleware.NewAuthMiddleware(issuer, userRepo)
	requireAuth := authMiddleware.RequireAuth()

	api := router.Group("/api")
	api.Use(middleware.RateLimitByIP(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow))
	api.Use(authMiddleware.Authenticate())

	api.GET("/health", statHandler.Health)
	api.GET("/search", searchHandler.SearchThreads)
	api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/anonymous", authHandler.AnonymousLogin)
		auth.GET("/me", requireAuth, authHandler.Me)
		auth.POST("/logout", requireAuth, authHandler.Logout)
	}

	boards := api.Group("/boards")
	{
		boards.GET("", boardHandler.ListBoards)
		boards.GET("/:id", boardHandler.GetBoard)
		boards.POST("", requireAuth, boardHandler.CreateBoard)
		boards.PUT("/:id", requireAuth, boardHandler.UpdateBoard)
		boards.DELETE("/:id", requireAuth, boardHandler.DeleteBoard)
	}

	threads := api.Group("/threads")
	{
		threads.GET("/board/:boardId", threadHandler.ListByBoard)
		threads.GET("/:id", threadHandler.GetThread)
		threads.GET("/:id/live", liveHandler.HandleThreadSocket)
		threads.POST("", requireAuth, threadHandler.CreateThread)
		threads.PUT("/:id", requireAuth, threadHandler.UpdateThread)
		threads.DELETE("/:id", requireAuth, threadHandler.DeleteThread)
	}

	posts := api.Group("/posts")
	{
		posts.GET("/thread/:threadId", postHandler.ListByThread)
		posts.POST("", requireAuth, postHandler.CreatePost)
		posts.PUT("/:id", requireAuth, postHandler.UpdatePost)
		posts.DELETE("/:id", requireAuth, postHandler.DeletePost)
	}

	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") {
			log.Printf("❌ 404 - API Route not found: %s", path)
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found: " + path})
	})

	return &Server{
		engine:      router,
		scheduler:   jobs,
		cfg:         cfg,
		db:          db,
		redisClient: redisClient,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the background jobs and serves until Shutdown is called.
func (s *Server) Run(addr string) error {
	s.scheduler.Start()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🚀 Server running on %s", addr)
	log.Printf("📊 Environment: %s", s.cfg.AppEnv)
	log.Printf("🔗 Health check: http://localhost%s/api/health", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.scheduler.Stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
