package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/FitSyncBack/internal/models"
	"github.com/saeid-a/FitSyncBack/internal/services"
)

type feedbackApplicationService interface {
	SubmitResult(ctx context.Context, actorID, role string, input services.SubmitResultInput) (*models.WorkoutResult, error)
	ListResults(ctx context.Context, actorID, role, clientID string) ([]models.WorkoutResult, error)
	AppendTask(ctx context.Context, role, clientID, text string) (*models.Task, error)
	ListTasks(ctx context.Context, role, clientID string) ([]models.Task, error)
}

type FeedbackHandler struct {
	service feedbackApplicationService
}

func NewFeedbackHandler(service feedbackApplicationService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

type submitResultRequest struct {
	Day        string            `json:"day"`
	WeekOffset int               `json:"week_offset"`
	Rating     int               `json:"rating"`
	Notes      string            `json:"notes"`
	Exercises  []models.Exercise `json:"exercises"`
}

func (h *FeedbackHandler) SubmitResult(c *fiber.Ctx) error {
	actorID, role, err := actorContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req submitResultRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.SubmitResult(c.Context(), actorID, role, services.SubmitResultInput{
		Day:        req.Day,
		WeekOffset: req.WeekOffset,
		Rating:     req.Rating,
		Notes:      req.Notes,
		Exercises:  req.Exercises,
	})
	if err != nil {
		return mapFeedbackError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"result": result})
}

func (h *FeedbackHandler) ListResults(c *fiber.Ctx) error {
	actorID, role, err := actorContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	results, err := h.service.ListResults(c.Context(), actorID, role, c.Params("clientId"))
	if err != nil {
		return mapFeedbackError(c, err)
	}
	return c.JSON(fiber.Map{"results": results})
}

type appendTaskRequest struct {
	ClientID string `json:"client_id"`
	Task     string `json:"task"`
}

func (h *FeedbackHandler) AppendTask(c *fiber.Ctx) error {
	_, role, err := actorContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req appendTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	task, err := h.service.AppendTask(c.Context(), role, req.ClientID, req.Task)
	if err != nil {
		return mapFeedbackError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task": task})
}

func (h *FeedbackHandler) ListTasks(c *fiber.Ctx) error {
	_, role, err := actorContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	tasks, err := h.service.ListTasks(c.Context(), role, c.Params("clientId"))
	if err != nil {
		return mapFeedbackError(c, err)
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

func mapFeedbackError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process feedback request"})
	}
}
