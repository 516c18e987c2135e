package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/x402pay/escrow-backend/internal/auth"
	"github.com/x402pay/escrow-backend/internal/config"
	"github.com/x402pay/escrow-backend/internal/http/dto"
	"go.uber.org/zap"
)

type AuthHandler struct {
	cfg *config.Config
	log *zap.Logger
}

func NewAuthHandler(cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, log: log}
}

// IssueToken exchanges a party-proof for a bearer token. The proof
// shows the caller was provisioned with the shared auth secret for
// that party identifier; stronger schemes plug in by replacing this
// endpoint without touching the ledger.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Party == "" || req.Proof == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "party and proof are required"})
	}

	if h.cfg.AuthSecret == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "token issuance is disabled"})
	}
	if err := auth.VerifyPartyProof(h.cfg.AuthSecret, req.Party, req.Proof); err != nil {
		h.log.Debug("party proof rejected", zap.String("party", req.Party), zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid proof"})
	}

	token, err := auth.GenerateJWT(h.cfg.JWTSecret, req.Party, h.cfg.JWTExpiration)
	if err != nil {
		h.log.Error("failed to generate jwt", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(dto.TokenResponse{Token: token, Party: req.Party})
}
