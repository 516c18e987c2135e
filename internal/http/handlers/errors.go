package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/x402pay/escrow-backend/internal/auth"
	"github.com/x402pay/escrow-backend/internal/services"
)

// statusForError maps the ledger failure taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrEscrowNotFound),
		errors.Is(err, services.ErrPaymentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrDuplicateEscrow),
		errors.Is(err, services.ErrPaymentAlreadySettled):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInsufficientBalance):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
