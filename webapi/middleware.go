package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// userIDHeader carries the authenticated user's id, injected by the
// gateway in front of this service. Authentication itself is out of
// scope here; every route still requires the header to be present and
// well-formed.
const userIDHeader = "X-User-ID"

const userIDKey = "userID"

// RequireUser rejects requests without a valid user id header and
// stores the parsed id in the request context.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(userIDHeader)
		if raw == "" {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Missing user", "missing "+userIDHeader+" header")
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Invalid user", "malformed "+userIDHeader+" header")
		}
		c.Locals(userIDKey, id)
		return c.Next()
	}
}

// currentUserID reads the user id stored by RequireUser.
func currentUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(userIDKey).(uuid.UUID)
	return id
}
