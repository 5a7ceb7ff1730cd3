// Package server contains HTTP and WebSocket handlers for the application's endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/featureflags"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/notifications"
	"yatube/internal/repository"
	"yatube/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "yatube-api"
	tokenAudience = "yatube-client"
	authCookie    = "auth_token"
	loginPath     = "/auth/login/"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	userRepo       repository.UserRepository
	groupRepo      repository.GroupRepository
	postRepo       repository.PostRepository
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	flags          *featureflags.Manager
	postService    *service.PostService
	imageService   *service.ImageService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Use this in tests or when a bootstrap layer establishes
// DB/Redis and optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)

	prom := middleware.InitMetrics("yatube-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		groupRepo:      groupRepo,
		postRepo:       postRepo,
		hub:            notifications.NewHub(),
		flags:          featureflags.NewManager(cfg.FeatureFlags),
	}
	server.imageService = service.NewImageService(cfg)
	server.postService = service.NewPostService(postRepo, groupRepo, userRepo, server.imageService)

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit, so browser clients
	// still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Yatube Metrics Dashboard",
	}))

	// Auth routes
	auth := app.Group("/auth")
	auth.Get("/login/", s.LoginPage)
	auth.Post("/signup/", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout/", s.Logout)

	// Public browse routes
	app.Get("/", s.Index)
	app.Get("/group/:slug/", s.GroupPosts)
	app.Get("/profile/:username/", s.Profile)
	app.Get("/posts/:id/", s.PostDetail)

	// Uploaded post attachments
	app.Get("/media/*", s.ServeMedia)

	// Live feed updates over WebSocket; anonymous visitors welcome.
	app.Get("/ws/feed", s.FeedWebsocketHandler())

	// Authoring routes
	app.Get("/create/", s.AuthRequired(), s.PostCreateForm)
	app.Post("/create/", s.AuthRequired(), middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.PostCreate)
	app.Get("/posts/:id/edit/", s.AuthRequired(), s.PostEditForm)
	app.Post("/posts/:id/edit/", s.AuthRequired(), s.PostEdit)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional: the site browses fine without the cache,
		// only live feed updates are lost.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. Browsers get the
// session token from the auth cookie; API clients may send a Bearer
// header instead. Anonymous requests are redirected to the login page
// with the original path in the next parameter.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := s.extractToken(c)
		if tokenString == "" {
			return redirectToLogin(c)
		}

		userID, username, ok := s.parseToken(c, tokenString)
		if !ok {
			return redirectToLogin(c)
		}

		c.Locals("userID", userID)
		c.Locals("username", username)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

func redirectToLogin(c *fiber.Ctx) error {
	next := url.QueryEscape(c.Path())
	return c.Redirect(loginPath+"?next="+next, fiber.StatusFound)
}

// extractToken pulls the JWT from the auth cookie or the Authorization
// header, in that order.
func (s *Server) extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(authCookie); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return ""
}

// parseToken validates the JWT and returns the user ID and username it
// carries.
func (s *Server) parseToken(c *fiber.Ctx, tokenString string) (uint, string, bool) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return 0, "", false
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return 0, "", false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, "", false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, "", false
	}

	// Check JTI for revocation
	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
		if err == nil && isBlacklisted > 0 {
			return 0, "", false
		}
	}

	username, _ := claims["username"].(string)
	return uint(userID), username, true
}

// optionalUserID extracts the user from the token if one is present but
// does not enforce authentication.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	tokenString := s.extractToken(c)
	if tokenString == "" {
		return 0, false
	}
	userID, _, ok := s.parseToken(c, tokenString)
	return userID, ok
}

// Start starts the server.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Yatube",
		BodyLimit: (s.config.MaxUploadMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				if fiberErr.Code == fiber.StatusNotFound {
					return models.RespondWithError(c, fiber.StatusNotFound,
						models.NewNotFoundError("Page", c.Path()))
				}
				return c.Status(fiberErr.Code).JSON(models.ErrorResponse{
					Error: fiberErr.Message,
					Code:  "HTTP_ERROR",
				})
			}
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.notifier != nil && s.flags.Enabled("live_feed", 0) {
		go func() {
			if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
				log.Printf("failed to start feed hub wiring: %v", err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down feed hub: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
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
