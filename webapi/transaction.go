// Transaction routes. Every mutation goes through the ledger service,
// which validates admissibility and applies balance deltas atomically.
//
//   - POST   /transactions                   : Record a transaction.
//   - GET    /transactions                   : List with filters.
//   - GET    /transactions/:id               : Get one transaction.
//   - PATCH  /transactions/:id               : Edit, reversing the old effect first.
//   - DELETE /transactions/:id               : Delete, reversing the effect.
//   - POST   /accounts/:id/adjust-balance    : Set a corrected balance via a synthetic entry.
package webapi

import (
	"time"

	"github.com/aaveggupta/dhandiary/pkg/app"
	"github.com/aaveggupta/dhandiary/pkg/dto"
	ledgersvc "github.com/aaveggupta/dhandiary/pkg/service/ledger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateTransactionRequest struct {
	Amount        float64    `json:"amount" validate:"required,gt=0"`
	Type          string     `json:"type" validate:"required,oneof=INCOME EXPENSE TRANSFER"`
	AccountID     string     `json:"account_id" validate:"required,uuid"`
	DestinationID *string    `json:"destination_id" validate:"omitempty,uuid"`
	CategoryID    *string    `json:"category_id" validate:"omitempty,uuid"`
	Date          *time.Time `json:"date"`
	Note          string     `json:"note" validate:"omitempty,max=500"`
}

type UpdateTransactionRequest struct {
	Amount        *float64   `json:"amount" validate:"omitempty,gt=0"`
	Type          *string    `json:"type" validate:"omitempty,oneof=INCOME EXPENSE TRANSFER"`
	AccountID     *string    `json:"account_id" validate:"omitempty,uuid"`
	DestinationID *string    `json:"destination_id" validate:"omitempty,uuid"`
	CategoryID    *string    `json:"category_id" validate:"omitempty,uuid"`
	ClearCategory bool       `json:"clear_category"`
	Date          *time.Time `json:"date"`
	Note          *string    `json:"note" validate:"omitempty,max=500"`
}

type AdjustBalanceRequest struct {
	Balance float64 `json:"balance"`
}

// TransactionRoutes registers transaction and balance adjustment routes.
func TransactionRoutes(fiberApp *fiber.App, application *app.App) {
	svc := application.LedgerService

	txs := fiberApp.Group("/transactions", RequireUser())
	txs.Post("/", CreateTransaction(svc))
	txs.Get("/", ListTransactions(svc))
	txs.Get("/:id", GetTransaction(svc))
	txs.Patch("/:id", UpdateTransaction(svc))
	txs.Delete("/:id", DeleteTransaction(svc))

	fiberApp.Post("/accounts/:id/adjust-balance", RequireUser(), AdjustBalance(svc))
}

// CreateTransaction returns the handler recording a new transaction.
func CreateTransaction(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := BindAndValidate[CreateTransactionRequest](c)
		if err != nil {
			return nil
		}
		accountID, err := uuid.Parse(input.AccountID)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		create := dto.TransactionCreate{
			UserID:    currentUserID(c),
			Amount:    input.Amount,
			Type:      input.Type,
			AccountID: accountID,
			Note:      input.Note,
			Date:      time.Now(),
		}
		if input.Date != nil {
			create.Date = *input.Date
		}
		if input.DestinationID != nil {
			id, err := uuid.Parse(*input.DestinationID)
			if err != nil {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid destination id", err.Error())
			}
			create.DestinationID = &id
		}
		if input.CategoryID != nil {
			id, err := uuid.Parse(*input.CategoryID)
			if err != nil {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid category id", err.Error())
			}
			create.CategoryID = &id
		}

		tx, err := svc.CreateTransaction(c.UserContext(), create)
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusCreated, "Transaction recorded", ledgersvc.MapTransactionToRead(tx))
	}
}

// ListTransactions returns the handler listing transactions with
// optional account_id, category_id, type, from, to and limit filters.
func ListTransactions(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter dto.TransactionFilter
		if raw := c.Query("account_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account_id filter", err.Error())
			}
			filter.AccountID = &id
		}
		if raw := c.Query("category_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid category_id filter", err.Error())
			}
			filter.CategoryID = &id
		}
		if raw := c.Query("type"); raw != "" {
			filter.Type = &raw
		}
		if raw := c.Query("from"); raw != "" {
			from, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid from filter", err.Error())
			}
			filter.From = &from
		}
		if raw := c.Query("to"); raw != "" {
			to, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid to filter", err.Error())
			}
			filter.To = &to
		}
		filter.Limit = c.QueryInt("limit")

		reads, err := svc.ListTransactions(c.UserContext(), currentUserID(c), filter)
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transactions", reads)
	}
}

// GetTransaction returns the handler fetching one transaction.
func GetTransaction(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		tx, err := svc.GetTransaction(c.UserContext(), currentUserID(c), id)
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transaction", ledgersvc.MapTransactionToRead(tx))
	}
}

// UpdateTransaction returns the handler editing a transaction. The
// ledger service reverses the original effect, validates the edited
// version against the reverted balances and applies it, all atomically.
func UpdateTransaction(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		input, err := BindAndValidate[UpdateTransactionRequest](c)
		if err != nil {
			return nil
		}
		update := dto.TransactionUpdate{
			Amount:        input.Amount,
			Type:          input.Type,
			ClearCategory: input.ClearCategory,
			Date:          input.Date,
			Note:          input.Note,
		}
		if input.AccountID != nil {
			accountID, err := uuid.Parse(*input.AccountID)
			if err != nil {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
			}
			update.AccountID = &accountID
		}
		if input.DestinationID != nil {
			destID, err := uuid.Parse(*input.DestinationID)
			if err != nil {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid destination id", err.Error())
			}
			update.DestinationID = &destID
		}
		if input.CategoryID != nil {
			catID, err := uuid.Parse(*input.CategoryID)
			if err != nil {
				return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid category id", err.Error())
			}
			update.CategoryID = &catID
		}

		tx, err := svc.UpdateTransaction(c.UserContext(), currentUserID(c), id, update)
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transaction updated", ledgersvc.MapTransactionToRead(tx))
	}
}

// DeleteTransaction returns the handler deleting a transaction and
// reversing its balance effect.
func DeleteTransaction(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid transaction id", err.Error())
		}
		if err := svc.DeleteTransaction(c.UserContext(), currentUserID(c), id); err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Transaction deleted", nil)
	}
}

// AdjustBalance returns the handler setting a corrected balance. The
// correction is recorded as a synthetic income or expense entry so
// history explains the change.
func AdjustBalance(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid account id", err.Error())
		}
		input, err := BindAndValidate[AdjustBalanceRequest](c)
		if err != nil {
			return nil
		}
		tx, err := svc.AdjustBalance(c.UserContext(), currentUserID(c), id, input.Balance)
		if err != nil {
			return DomainErrorResponseJSON(c, err)
		}
		if tx == nil {
			return SuccessResponseJSON(c, fiber.StatusOK, "Balance already correct", nil)
		}
		return SuccessResponseJSON(c, fiber.StatusOK, "Balance adjusted", ledgersvc.MapTransactionToRead(tx))
	}
}
