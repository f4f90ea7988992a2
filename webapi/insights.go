// Insights routes: read models over the ledger state.
//
//   - GET /insights/net-worth              : Asset/liability partition.
//   - GET /insights/dashboard              : Home-screen read model.
//   - GET /accounts/:id/credit-status      : Pool-aware credit view of one card.
package webapi

import (
	"github.com/aaveggupta/dhandiary/pkg/app"
	"github.com/aaveggupta/dhandiary/pkg/service/insights"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// InsightsRoutes registers the read-model routes.
func InsightsRoutes(fiberApp *fiber.App, application *app.App) {
	svc := application.InsightsService

	group := fiberApp.Group("/insights", RequireUser())
	group.Get("/net-worth", NetWorth(svc))
	group.Get("/dashboard", Dashboard(svc))

	fiberApp.Get("/accounts/:id/credit-status", RequireUser(), CreditStatus(svc))
}

// NetWorth returns the handler computing the user's net worth.
func NetWorth(svc *insights.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		nw, err := svc.NetWorth(c.UserContext(), currentUserID(c))
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Net worth", nw)
	}
}

// Dashboard returns the handler assembling the home-screen read model.
func Dashboard(svc *insights.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dash, err := svc.Dashboard(c.UserContext(), currentUserID(c))
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Dashboard", dash)
	}
}

// CreditStatus returns the handler computing one card's credit view.
func CreditStatus(svc *insights.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		status, err := svc.CreditStatus(c.UserContext(), currentUserID(c), id)
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Credit status", status)
	}
}
