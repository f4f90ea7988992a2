package main

import (
	"fmt"

	"github.com/aaveggupta/dhandiary/infra/initializer"
	"github.com/aaveggupta/dhandiary/pkg/app"
	"github.com/aaveggupta/dhandiary/pkg/config"
	"github.com/aaveggupta/dhandiary/webapi"
	"github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	deps.Logger.Info(
		"starting server",
		"env", cfg.Env,
		"addr", cfg.Server.Addr,
	)

	application := app.New(deps, cfg)
	return webapi.NewApp(application).Listen(cfg.Server.Addr)
}
