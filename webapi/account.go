// Account, shared credit limit and category routes.
//
//   - POST   /accounts                  : Create an account.
//   - GET    /accounts                  : List the user's accounts.
//   - GET    /accounts/:id              : Get one account.
//   - PATCH  /accounts/:id              : Update account metadata.
//   - POST   /accounts/:id/archive      : Archive the account, keeping history.
//   - POST   /shared-limits             : Create a shared credit limit pool.
//   - GET    /shared-limits             : List pools with aggregates.
//   - GET    /shared-limits/:id         : Get one pool with aggregates.
//   - PATCH  /shared-limits/:id         : Update a pool.
//   - DELETE /shared-limits/:id         : Delete a pool, unlinking members.
//   - POST   /categories                : Create a category.
//   - GET    /categories                : List categories.
package webapi

import (
	"github.com/aaveggupta/dhandiary/pkg/app"
	"github.com/aaveggupta/dhandiary/pkg/domain/category"
	"github.com/aaveggupta/dhandiary/pkg/dto"
	accountsvc "github.com/aaveggupta/dhandiary/pkg/service/account"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateAccountRequest struct {
	Name           string   `json:"name" validate:"required,max=100"`
	Type           string   `json:"type" validate:"required,oneof=BANK CASH CREDIT"`
	Balance        float64  `json:"balance"`
	Currency       string   `json:"currency" validate:"omitempty,len=3,uppercase"`
	CreditLimit    float64  `json:"credit_limit" validate:"omitempty,gte=0"`
	SharedLimitID  *string  `json:"shared_limit_id" validate:"omitempty,uuid"`
	BillingDay     int      `json:"billing_day" validate:"omitempty,min=1,max=31"`
	DueDay         int      `json:"due_day" validate:"omitempty,min=1,max=31"`
	AlertEnabled   bool     `json:"alert_enabled"`
	AlertThreshold *float64 `json:"alert_threshold" validate:"omitempty,gt=0,lte=100"`
}

type UpdateAccountRequest struct {
	Name           *string  `json:"name" validate:"omitempty,max=100"`
	CreditLimit    *float64 `json:"credit_limit" validate:"omitempty,gte=0"`
	SharedLimitID  *string  `json:"shared_limit_id" validate:"omitempty,uuid"`
	UnlinkShared   bool     `json:"unlink_shared"`
	BillingDay     *int     `json:"billing_day" validate:"omitempty,min=1,max=31"`
	DueDay         *int     `json:"due_day" validate:"omitempty,min=1,max=31"`
	AlertEnabled   *bool    `json:"alert_enabled"`
	AlertThreshold *float64 `json:"alert_threshold" validate:"omitempty,gt=0,lte=100"`
	Archived       *bool    `json:"archived"`
}

type SharedLimitRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	TotalLimit  float64 `json:"total_limit" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=500"`
}

type UpdateSharedLimitRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=100"`
	TotalLimit  *float64 `json:"total_limit" validate:"omitempty,gt=0"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Kind string `json:"kind" validate:"required,oneof=INCOME EXPENSE"`
	Icon string `json:"icon" validate:"omitempty,max=50"`
}

// AccountRoutes registers account, shared limit and category routes.
func AccountRoutes(fiberApp *fiber.App, application *app.App) {
	svc := application.AccountService

	accounts := fiberApp.Group("/accounts", RequireUser())
	accounts.Post("/", CreateAccount(svc))
	accounts.Get("/", ListAccounts(svc))
	accounts.Get("/:id", GetAccount(svc))
	accounts.Patch("/:id", UpdateAccount(svc))
	accounts.Post("/:id/archive", ArchiveAccount(svc))

	limits := fiberApp.Group("/shared-limits", RequireUser())
	limits.Post("/", CreateSharedLimit(svc))
	limits.Get("/", ListSharedLimits(svc))
	limits.Get("/:id", GetSharedLimit(svc))
	limits.Patch("/:id", UpdateSharedLimit(svc))
	limits.Delete("/:id", DeleteSharedLimit(svc))

	categories := fiberApp.Group("/categories", RequireUser())
	categories.Post("/", CreateCategory(svc))
	categories.Get("/", ListCategories(svc))
}

// CreateAccount returns the handler creating a new account for the
// current user.
func CreateAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[CreateAccountRequest](c)
		if err != nil {
			return nil
		}
		create := dto.AccountCreate{
			UserID:       currentUserID(c),
			Name:         input.Name,
			Type:         input.Type,
			Balance:      input.Balance,
			Currency:     input.Currency,
			CreditLimit:  input.CreditLimit,
			BillingDay:   input.BillingDay,
			DueDay:       input.DueDay,
			AlertEnabled: input.AlertEnabled,
		}
		if create.Currency == "" {
			create.Currency = "USD"
		}
		if input.AlertThreshold != nil {
			create.AlertThreshold = *input.AlertThreshold
		}
		if input.SharedLimitID != nil {
			id, err := uuid.Parse(*input.SharedLimitID)
			if err != nil {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid shared limit id", err.Error())
			}
			create.SharedLimitID = &id
		}

		a, err := svc.CreateAccount(c.UserContext(), create)
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "Account created", accountsvc.MapAccountToRead(a))
	}
}

// ListAccounts returns the handler listing the user's accounts.
func ListAccounts(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accounts, err := svc.ListAccounts(c.UserContext(), currentUserID(c))
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		reads := make([]*dto.AccountRead, 0, len(accounts))
		for _, a := range accounts {
			reads = append(reads, accountsvc.MapAccountToRead(a))
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Accounts", reads)
	}
}

// GetAccount returns the handler fetching one account.
func GetAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		a, err := svc.GetAccount(c.UserContext(), currentUserID(c), id)
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Account", accountsvc.MapAccountToRead(a))
	}
}

// UpdateAccount returns the handler applying a partial account update.
func UpdateAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		input, err := BindAndValidate[UpdateAccountRequest](c)
		if err != nil {
			return nil
		}
		update := dto.AccountUpdate{
			Name:           input.Name,
			CreditLimit:    input.CreditLimit,
			UnlinkShared:   input.UnlinkShared,
			BillingDay:     input.BillingDay,
			DueDay:         input.DueDay,
			AlertEnabled:   input.AlertEnabled,
			AlertThreshold: input.AlertThreshold,
			Archived:       input.Archived,
		}
		if input.SharedLimitID != nil {
			limitID, err := uuid.Parse(*input.SharedLimitID)
			if err != nil {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid shared limit id", err.Error())
			}
			update.SharedLimitID = &limitID
		}

		a, err := svc.UpdateAccount(c.UserContext(), currentUserID(c), id, update)
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Account updated", accountsvc.MapAccountToRead(a))
	}
}

// ArchiveAccount returns the handler archiving an account.
func ArchiveAccount(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		if err := svc.ArchiveAccount(c.UserContext(), currentUserID(c), id); err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Account archived", nil)
	}
}

// CreateSharedLimit returns the handler creating a pool.
func CreateSharedLimit(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[SharedLimitRequest](c)
		if err != nil {
			return nil
		}
		l, err := svc.CreateSharedLimit(c.UserContext(), dto.SharedLimitCreate{
			UserID:      currentUserID(c),
			Name:        input.Name,
			TotalLimit:  input.TotalLimit,
			Description: input.Description,
		})
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "Shared limit created", l)
	}
}

// ListSharedLimits returns the handler listing pools with aggregates.
func ListSharedLimits(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reads, err := svc.ListSharedLimits(c.UserContext(), currentUserID(c))
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Shared limits", reads)
	}
}

// GetSharedLimit returns the handler fetching one pool with aggregates.
func GetSharedLimit(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid shared limit id", err.Error())
		}
		read, err := svc.GetSharedLimit(c.UserContext(), currentUserID(c), id)
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Shared limit", read)
	}
}

// UpdateSharedLimit returns the handler applying a partial pool update.
func UpdateSharedLimit(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid shared limit id", err.Error())
		}
		input, err := BindAndValidate[UpdateSharedLimitRequest](c)
		if err != nil {
			return nil
		}
		l, err := svc.UpdateSharedLimit(c.UserContext(), currentUserID(c), id, dto.SharedLimitUpdate{
			Name:        input.Name,
			TotalLimit:  input.TotalLimit,
			Description: input.Description,
		})
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Shared limit updated", l)
	}
}

// DeleteSharedLimit returns the handler deleting a pool.
func DeleteSharedLimit(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid shared limit id", err.Error())
		}
		if err := svc.DeleteSharedLimit(c.UserContext(), currentUserID(c), id); err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Shared limit deleted", nil)
	}
}

// CreateCategory returns the handler creating a category.
func CreateCategory(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[CreateCategoryRequest](c)
		if err != nil {
			return nil
		}
		created, err := svc.CreateCategory(
			c.UserContext(),
			currentUserID(c),
			input.Name,
			category.Kind(input.Kind),
			input.Icon,
		)
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "Category created", created)
	}
}

// ListCategories returns the handler listing categories.
func ListCategories(svc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		categories, err := svc.ListCategories(c.UserContext(), currentUserID(c))
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Categories", categories)
	}
}
