// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"postfeed/internal/cache"
	"postfeed/internal/config"
	"postfeed/internal/database"
	"postfeed/internal/middleware"
	"postfeed/internal/models"
	"postfeed/internal/repository"
	"postfeed/internal/service"
	"postfeed/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// BodyLimit caps request bodies; oversized uploads surface as HTTP 413.
const BodyLimit = 10 * 1024 * 1024

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	store          storage.Storage
	userService    *service.UserService
	postService    *service.PostService
	musicService   *service.MusicService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient(), storage.NewClient(cfg)), nil
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Use this in tests or when a bootstrap layer establishes
// DB/Redis/storage itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.Storage) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	trackRepo := repository.NewTrackRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: fiberprometheus.New("postfeed-api"),
		store:          store,
		userService:    service.NewUserService(userRepo, postRepo, store, cfg.DefaultAvatar),
		postService:    service.NewPostService(postRepo, store),
		musicService:   service.NewMusicService(trackRepo, store),
	}
}

// NewApp builds the Fiber app with the envelope-producing error handler.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "PostFeed API",
		BodyLimit: BodyLimit,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
					return c.Status(fiber.StatusRequestEntityTooLarge).JSON(models.ErrorResponse{
						Success: false,
						Error:   "Uploaded file is too large (max 10MB)",
					})
				}
				return c.Status(fiberErr.Code).JSON(models.ErrorResponse{
					Success: false,
					Error:   fiberErr.Message,
				})
			}
			// Last line of defense: anything unhandled becomes a
			// generic 500 envelope; detail stays in the server log.
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
				"error", err.Error(), "path", c.Path())
			return models.RespondWithError(c, models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit so browser
	// clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5001,http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Success: false,
				Error:   "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Liveness)
	app.Get("/health", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	authRequired := middleware.AuthRequired(s.config.JWTSecret)

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	posts := api.Group("/posts")
	posts.Get("/feed", s.GetFeed)
	posts.Post("/create", authRequired, middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Delete("/:postId", authRequired, s.DeletePost)

	music := api.Group("/music")
	music.Get("/", s.GetMusics)
	music.Get("/imagekit-auth", authRequired, s.GetUploadAuth)
	music.Post("/", authRequired, s.CreateMusic)
	music.Delete("/:musicId", authRequired, s.DeleteMusic)

	users := api.Group("/users")
	users.Get("/profile", authRequired, s.GetProfile)
	users.Put("/profile", authRequired, s.UpdateProfile)
	users.Delete("/profile", authRequired, s.DeleteAccount)
	// Generic /:id route must be last
	users.Get("/:id", s.GetUserByID)
}

// Liveness handles the root liveness probe.
func (s *Server) Liveness(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "PostFeed and Music Backend is running!",
	})
}

// HealthCheck reports database connectivity and configuration validity.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unavailable"
	} else if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis == nil {
		redisStatus = "unavailable"
	} else if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": overall == "healthy",
		"status":  overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"config": fiber.Map{
			"jwtConfigured":     s.config.JWTSecret != "",
			"storageConfigured": s.config.StorageConfigured(),
		},
		"time": time.Now(),
	})
}

// Start builds the app and begins listening.
func (s *Server) Start() error {
	app := s.NewApp()
	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server and closes its resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Printf("error closing sql DB: %v", cerr)
			}
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
