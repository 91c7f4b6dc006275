// Package server contains the HTTP handlers and route registration for
// the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"devhub/internal/cache"
	"devhub/internal/config"
	"devhub/internal/database"
	"devhub/internal/github"
	"devhub/internal/middleware"
	"devhub/internal/repository"
	"devhub/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// RepoLister lists a user's external repositories. Satisfied by
// github.Client; replaced with a stub in tests.
type RepoLister interface {
	ListUserRepos(ctx context.Context, username string) ([]github.RepoSummary, error)
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *mongo.Database
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	profileService *service.ProfileService
	postService    *service.PostService
	githubClient   RepoLister
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Used by tests and bootstrap layers.
func NewServerWithDeps(cfg *config.Config, db *mongo.Database, redisClient *redis.Client) *Server {
	var (
		userRepo    repository.UserRepository
		profileRepo repository.ProfileRepository
		postRepo    repository.PostRepository
	)
	if db != nil {
		userRepo = repository.NewUserRepository(db)
		profileRepo = repository.NewProfileRepository(db)
		postRepo = repository.NewPostRepository(db)
	}

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: fiberprometheus.New("devhub-api"),
		userRepo:       userRepo,
		profileService: service.NewProfileService(profileRepo, userRepo),
		postService:    service.NewPostService(postRepo, userRepo),
		githubClient:   github.NewClient(cfg.GithubToken),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Propagate request ID and user ID into the request context
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")
	authGate := middleware.AuthRequired(s.config)

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Registration and login
	api.Post("/users", s.Register)
	auth := api.Group("/auth")
	auth.Post("/", s.Login)
	auth.Get("/", authGate, s.GetAuthedUser)

	// Profile routes; reads are public, mutations gated
	profile := api.Group("/profile")
	profile.Get("/me", authGate, s.GetMyProfile)
	profile.Get("/user/:id", s.GetProfileByUser)
	profile.Get("/github/:username", s.GetGithubRepos)
	profile.Put("/experience", authGate, s.AddExperience)
	profile.Delete("/experience/:id", authGate, s.RemoveExperience)
	profile.Put("/education", authGate, s.AddEducation)
	profile.Delete("/education/:id", authGate, s.RemoveEducation)
	profile.Post("/", authGate, s.UpsertProfile)
	profile.Delete("/", authGate, s.DeleteProfileAndUser)
	profile.Get("/", s.GetProfiles)

	// Post routes, all gated. Specific /:resource/:id routes go before
	// the generic /:id routes.
	posts := api.Group("/posts", authGate)
	posts.Post("/", s.CreatePost)
	posts.Get("/", s.GetPosts)
	posts.Put("/like/:id", s.LikePost)
	posts.Put("/unlike/:id", s.UnlikePost)
	posts.Post("/comment/:id", s.AddComment)
	posts.Delete("/comment/:id/:commentId", s.RemoveComment)
	posts.Get("/:id", s.GetPost)
	posts.Delete("/:id", s.DeletePost)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests, pinging the document
// store and (when configured) the cache.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unhealthy"
	} else if err := s.db.Client().Ping(ctx, nil); err != nil {
		dbStatus = "unhealthy"
	}

	cacheStatus := "disabled"
	if s.redis != nil {
		cacheStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			cacheStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status": dbStatus,
		"cache":  cacheStatus,
	})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	return database.Disconnect(ctx, s.db)
}
