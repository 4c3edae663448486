package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/FitSyncBack/internal/models"
	"github.com/saeid-a/FitSyncBack/internal/program"
	"github.com/saeid-a/FitSyncBack/internal/services"
)

type programApplicationService interface {
	GetWeek(ctx context.Context, actorID, role, clientID string, weekOffset int) (*models.WeekProgram, error)
	AddBlock(ctx context.Context, actorID, role, clientID string, weekOffset int, day string) (int, error)
	AppendExercise(ctx context.Context, actorID, role, clientID string, weekOffset int, day string, blockIndex int, exercise models.Exercise) (*models.Block, error)
	ToggleBlockCollapsed(ctx context.Context, actorID, role, clientID string, weekOffset int, day string, blockIndex int) error
	CopyWeek(ctx context.Context, actorID, role, clientID string, fromWeekOffset, toWeekOffset int) (*models.WeekProgram, error)
}

type ProgramHandler struct {
	service programApplicationService
}

func NewProgramHandler(service programApplicationService) *ProgramHandler {
	return &ProgramHandler{service: service}
}

func (h *ProgramHandler) GetWeek(c *fiber.Ctx) error {
	actorID, role, err := actorContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	weekOffset, err := parseWeekOffset(c.Query("week", "0"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid week offset"})
	}

	week, err := h.service.GetWeek(c.Context(), actorID, role, c.Params("clientId"), weekOffset)
	if err != nil {
		return mapProgramError(c, err)
	}
	return c.JSON(fiber.Map{"week": week})
}

func (h *ProgramHandler) AddBlock(c *fiber.Ctx) error {
	actorID, role, err := actorContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	weekOffset, err := parseWeekOffset(c.Query("week", "0"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid week offset"})
	}

	index, err := h.service.AddBlock(
		c.Context(),
		actorID,
		role,
		c.Params("clientId"),
		weekOffset,
		c.Params("day"),
	)
	if err != nil {
		return mapProgramError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"block_index": index})
}

func (h *ProgramHandler) AppendExercise(c *fiber.Ctx) error {
	actorID, role, err := actorContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	blockIndex, err := strconv.Atoi(c.Params("index"))
	if err != nil || blockIndex < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid block index"})
	}
	weekOffset, err := parseWeekOffset(c.Query("week", "0"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid week offset"})
	}

	var exercise models.Exercise
	if err := c.BodyParser(&exercise); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	block, err := h.service.AppendExercise(
		c.Context(),
		actorID,
		role,
		c.Params("clientId"),
		weekOffset,
		c.Params("day"),
		blockIndex,
		exercise,
	)
	if err != nil {
		return mapProgramError(c, err)
	}
	return c.JSON(fiber.Map{"block": block})
}

func (h *ProgramHandler) ToggleBlock(c *fiber.Ctx) error {
	actorID, role, err := actorContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	blockIndex, err := strconv.Atoi(c.Params("index"))
	if err != nil || blockIndex < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid block index"})
	}
	weekOffset, err := parseWeekOffset(c.Query("week", "0"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid week offset"})
	}

	if err := h.service.ToggleBlockCollapsed(
		c.Context(),
		actorID,
		role,
		c.Params("clientId"),
		weekOffset,
		c.Params("day"),
		blockIndex,
	); err != nil {
		return mapProgramError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type copyWeekRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (h *ProgramHandler) CopyWeek(c *fiber.Ctx) error {
	actorID, role, err := actorContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req copyWeekRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	week, err := h.service.CopyWeek(c.Context(), actorID, role, c.Params("clientId"), req.From, req.To)
	if err != nil {
		return mapProgramError(c, err)
	}
	return c.JSON(fiber.Map{"week": week})
}

func actorContext(c *fiber.Ctx) (string, string, error) {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return "", "", errors.New("missing user id")
	}
	role, _ := c.Locals("role").(string)
	return userID, role, nil
}

func parseWeekOffset(raw string) (int, error) {
	return strconv.Atoi(raw)
}

func mapProgramError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, program.ErrValidation), errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, program.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process program request"})
	}
}
