package app

import (
	"fmt"
	"strings"

	"cv-forge/internal/config"
	"cv-forge/internal/delivery/http/middleware"
	"cv-forge/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	container, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	f.Use(middleware.NewErrorMiddleware().Middleware())
	f.Use(middleware.NewAccessLogMiddleware(nil).Middleware())

	if err := routes.Register(f, routes.Deps{
		Config: cfg,
		DB:     container.DB,
		Cache:  container.Cache,
	}); err != nil {
		_ = container.Close()
		return nil, nil, err
	}

	app := &App{Fiber: f, Container: container}
	return app, container.Close, nil
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
