// Package app wires configuration and infrastructure into the service
// layer. It owns no behavior of its own.
package app

import (
	"log/slog"

	"github.com/aaveggupta/dhandiary/pkg/config"
	"github.com/aaveggupta/dhandiary/pkg/repository"
	accountsvc "github.com/aaveggupta/dhandiary/pkg/service/account"
	"github.com/aaveggupta/dhandiary/pkg/service/insights"
	ledgersvc "github.com/aaveggupta/dhandiary/pkg/service/ledger"
)

// Deps contains the infrastructure dependencies the services need.
type Deps struct {
	Uow    repository.UnitOfWork
	Logger *slog.Logger
}

// App bundles the constructed services behind one handle.
type App struct {
	Deps            *Deps
	Config          *config.App
	AccountService  *accountsvc.Service
	LedgerService   *ledgersvc.Service
	InsightsService *insights.Service
}

// New constructs the service layer from its dependencies.
func New(deps *Deps, cfg *config.App) *App {
	return &App{
		Deps:            deps,
		Config:          cfg,
		AccountService:  accountsvc.NewService(deps.Uow, deps.Logger),
		LedgerService:   ledgersvc.NewService(deps.Uow, deps.Logger),
		InsightsService: insights.NewService(deps.Uow, deps.Logger),
	}
}
