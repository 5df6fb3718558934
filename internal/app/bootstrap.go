package app

import (
	"context"
	"fmt"
	"strings"

	"talent-bridge/internal/config"
	"talent-bridge/internal/delivery/http/handler"
	"talent-bridge/internal/delivery/http/middleware"
	"talent-bridge/internal/delivery/http/routes"
	"talent-bridge/internal/logger"
	"talent-bridge/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the HTTP application over an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Log)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container, starts the WebSocket hub and returns the app
// with a cleanup func that stops both.
func Bootstrap(ctx context.Context, cfg config.Config, log logger.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	go c.Hub.Run(hubCtx)

	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return New(c), cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, log logger.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil || c == nil {
		return
	}

	health := handler.NewHealthHandler(c.DB, c.Cache)

	var matchHandler *handler.MatchHandler
	if c.Matching != nil {
		matchHandler = handler.NewMatchHandler(c.Matching)
	}

	routes.NewRegistry(
		health,
		matchHandler,
		ws.NewHandler(c.Hub, c.Log),
		middleware.NewAuthMiddleware(c.JWT),
	).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
