package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/x402pay/escrow-backend/internal/http/dto"
	"github.com/x402pay/escrow-backend/internal/services"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	ledger *services.Ledger
	log    *zap.Logger
}

func NewPaymentHandler(ledger *services.Ledger, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{ledger: ledger, log: log}
}

func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "amount must be positive"})
	}

	id, err := h.ledger.CreatePayment(c.UserContext(), req.EscrowID, req.Amount)
	if err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreatePaymentResponse{PaymentID: id})
}

func (h *PaymentHandler) Settle(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid payment id"})
	}

	settled, err := h.ledger.SettlePayment(c.UserContext(), id)
	if err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.SettleResponse{Settled: settled})
}

func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid payment id"})
	}

	payment, err := h.ledger.GetPayment(c.UserContext(), id)
	if err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.SuccessResponse{OK: true, Data: payment})
}
