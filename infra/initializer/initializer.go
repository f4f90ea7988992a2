// Package initializer bootstraps the application dependencies:
// logger, database connection and unit of work.
package initializer

import (
	"fmt"

	"github.com/aaveggupta/dhandiary/infra"
	infrarepo "github.com/aaveggupta/dhandiary/infra/repository"
	"github.com/aaveggupta/dhandiary/pkg/app"
	"github.com/aaveggupta/dhandiary/pkg/config"
)

// InitializeDependencies builds the app dependencies from configuration.
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	logger := SetupLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &app.Deps{
		Uow:    infrarepo.NewUoW(db, cfg.DB.TxMaxRetries),
		Logger: logger,
	}, nil
}
