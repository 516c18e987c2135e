package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/x402pay/escrow-backend/internal/http/dto"
	"github.com/x402pay/escrow-backend/internal/middleware"
	"github.com/x402pay/escrow-backend/internal/services"
	"go.uber.org/zap"
)

type EscrowHandler struct {
	ledger *services.Ledger
	log    *zap.Logger
}

func NewEscrowHandler(ledger *services.Ledger, log *zap.Logger) *EscrowHandler {
	return &EscrowHandler{ledger: ledger, log: log}
}

func parseID(c *fiber.Ctx, name string) (uint64, error) {
	return strconv.ParseUint(c.Params(name), 10, 64)
}

func (h *EscrowHandler) Open(c *fiber.Ctx) error {
	var req dto.OpenEscrowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	if req.Server == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "server is required"})
	}
	if req.Client == "" {
		req.Client = middleware.GetParty(c)
	}

	id, err := h.ledger.Open(c.UserContext(), req.Client, req.Server, req.Amount)
	if err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OpenEscrowResponse{EscrowID: id})
}

func (h *EscrowHandler) Deposit(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid escrow id"})
	}

	var req dto.DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	if err := h.ledger.Deposit(c.UserContext(), id, req.Amount); err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}

func (h *EscrowHandler) ClientClose(c *fiber.Ctx) error {
	return h.close(c, h.ledger.ClientClose)
}

func (h *EscrowHandler) ServerClose(c *fiber.Ctx) error {
	return h.close(c, h.ledger.ServerClose)
}

func (h *EscrowHandler) close(c *fiber.Ctx, closeFn func(context.Context, uint64) (*int64, error)) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid escrow id"})
	}

	remaining, err := closeFn(c.UserContext(), id)
	if err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.CloseResponse{Closed: remaining != nil, Remaining: remaining})
}

func (h *EscrowHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid escrow id"})
	}

	escrow, err := h.ledger.GetEscrow(c.UserContext(), id)
	if err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.EscrowResponse{Escrow: *escrow, State: escrow.ClosureState()})
}

func (h *EscrowHandler) GetBalance(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid escrow id"})
	}

	balance, err := h.ledger.GetBalance(c.UserContext(), id)
	if err != nil {
		return c.Status(statusForError(err)).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(dto.BalanceResponse{EscrowID: id, Balance: balance})
}

func (h *EscrowHandler) Find(c *fiber.Ctx) error {
	client := c.Query("client")
	server := c.Query("server")
	if client == "" || server == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "client and server are required"})
	}

	id, ok, err := h.ledger.FindEscrow(c.UserContext(), client, server)
	if err != nil {
		h.log.Error("find escrow failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal error"})
	}
	if !ok {
		return c.JSON(dto.FindEscrowResponse{EscrowID: nil})
	}

	return c.JSON(dto.FindEscrowResponse{EscrowID: &id})
}
