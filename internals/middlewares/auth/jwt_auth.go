// middlewares/auth/jwt_auth.go
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	helper "academia_backend/internals/helpers"
)

type AuthJWTOpts struct {
	Secret string
	// AllowCookieFallback also reads the access_token cookie when no
	// Authorization header is present (browser clients).
	AllowCookieFallback bool
}

func extractToken(c *fiber.Ctx, allowCookie bool) string {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if allowCookie {
		return strings.TrimSpace(c.Cookies("access_token"))
	}
	return ""
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := claims[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// AuthJWT validates the bearer token and hydrates the tenant scope into
// locals. Every admin route sits behind this; handlers read the branch id
// through helper.GetBranchIDFromToken.
func AuthJWT(opts AuthJWTOpts) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := extractToken(c, opts.AllowCookieFallback)
		if raw == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "missing bearer token")
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "unexpected signing method")
			}
			return []byte(opts.Secret), nil
		})
		if err != nil || !token.Valid {
			return helper.JsonError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return helper.JsonError(c, fiber.StatusUnauthorized, "malformed token claims")
		}

		if branchID := claimString(claims, "branch_id", "active_branch_id"); branchID != "" {
			c.Locals(helper.LocBranchID, branchID)
		}
		if userID := claimString(claims, "sub", "user_id", "id"); userID != "" {
			c.Locals(helper.LocUserID, userID)
		}

		return c.Next()
	}
}
