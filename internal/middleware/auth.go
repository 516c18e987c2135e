package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/x402pay/escrow-backend/internal/auth"
	"github.com/x402pay/escrow-backend/internal/config"
	"go.uber.org/zap"
)

const CtxParty = "party"

// AuthMiddleware validates the bearer token and records the
// authenticated party both in fiber locals and on the user context,
// where the ledger's authorization oracle reads it.
func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(CtxParty, claims.Party)
		c.SetUserContext(auth.WithParty(c.UserContext(), claims.Party))

		return c.Next()
	}
}

func GetParty(c *fiber.Ctx) string {
	party, _ := c.Locals(CtxParty).(string)
	return party
}
