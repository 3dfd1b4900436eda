// file: internals/helpers/branch_context.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocBranchID = "branch_id"
	LocUserID   = "user_id"
)

// GetBranchIDFromToken returns the branch the request is scoped to. The JWT
// middleware hydrates it into locals; every query in the subsystem carries it
// as a tenant guard.
func GetBranchIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(LocBranchID).(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "branch scope missing from token")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid branch id in token")
	}
	return id, nil
}

// GetUserIDFromToken returns the authenticated user, when present.
func GetUserIDFromToken(c *fiber.Ctx) *uuid.UUID {
	raw, _ := c.Locals(LocUserID).(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
