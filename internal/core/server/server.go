package server

import (
	"context"
	"fmt"

	"shipdesk/internal/core/config"
	"shipdesk/internal/core/logger"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "shipdesk/docs/swagger"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
	// checks are run by the health endpoint, keyed by dependency name.
	checks map[string]HealthCheck
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "shipdesk",
	})

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	s := &Server{
		App:    app,
		cfg:    cfg,
		checks: map[string]HealthCheck{},
	}

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", s.health)

	return s
}

// AddHealthCheck registers a dependency probed by GET /health.
func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.checks[name] = check
}

// health answers 200 when every registered check passes and 503 otherwise.
func (s *Server) health(c *fiber.Ctx) error {
	status := fiber.StatusOK
	result := make(map[string]string, len(s.checks))

	for name, check := range s.checks {
		if err := check(c.UserContext()); err != nil {
			logger.Get().Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			result[name] = err.Error()
			status = fiber.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": statusText(status),
		"checks": result,
	})
}

func statusText(status int) string {
	if status == fiber.StatusOK {
		return "ok"
	}
	return "degraded"
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
