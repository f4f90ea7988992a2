package webapi

import (
	"errors"

	"github.com/aaveggupta/dhandiary/pkg/domain/account"
	"github.com/aaveggupta/dhandiary/pkg/domain/category"
	"github.com/aaveggupta/dhandiary/pkg/domain/ledger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details.
func ErrorResponseJSON(
	c *fiber.Ctx,
	status int,
	title string,
	detail any,
) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()
	c.Set(fiber.HeaderContentType, "application/problem+json")

	return c.Status(status).JSON(pd, "application/problem+json")
}

// DomainErrorResponseJSON maps a domain error to its status code and
// problem response. Insufficient funds rejections carry their machine
// code plus the exact available and required figures so clients can
// explain the rejection.
func DomainErrorResponseJSON(c *fiber.Ctx, err error) error {
	var insufficient *ledger.InsufficientFundsError
	if errors.As(err, &insufficient) {
		return ErrorResponseJSON(c, fiber.StatusUnprocessableEntity, "Insufficient funds", fiber.Map{
			"code":      insufficient.Code,
			"available": insufficient.Available,
			"required":  insufficient.Required,
		})
	}
	return ErrorResponseJSON(c, ErrorToStatusCode(err), "Request failed", err.Error())
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, account.ErrSharedLimitNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound),
		errors.Is(err, category.ErrCategoryNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, account.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, account.ErrUnknownAccountType),
		errors.Is(err, account.ErrNotCreditAccount),
		errors.Is(err, ledger.ErrAmountMustBePositive),
		errors.Is(err, ledger.ErrUnknownTransactionType),
		errors.Is(err, ledger.ErrTransferNeedsDestination),
		errors.Is(err, ledger.ErrDestinationNotAllowed),
		errors.Is(err, ledger.ErrCannotTransferToSameAccount):
		return fiber.StatusBadRequest
	case errors.Is(err, account.ErrAccountArchived):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. On failure it writes the error response and
// returns a non-nil error.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error()) //nolint:errcheck
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error()) //nolint:errcheck
		return nil, err
	}
	return &input, nil
}
