package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/FitSyncBack/internal/models"
	"github.com/saeid-a/FitSyncBack/internal/services"
)

// AccountHandler carries the role-selection flow and profile glue around the
// sync core: an authenticated identity picks client or coach once, then the
// rest of the API branches on that role.
type AccountHandler struct {
	service accountApplicationService
}

func NewAccountHandler(service accountApplicationService) *AccountHandler {
	return &AccountHandler{service: service}
}

type roleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *AccountHandler) GetRole(c *fiber.Ctx) error {
	var req roleRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	role, err := h.service.GetRole(c.Context(), req.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to look up role"})
	}

	// No selection yet reads as null, matching the first-login flow.
	if role == "" {
		return c.JSON(fiber.Map{"role": nil})
	}
	return c.JSON(fiber.Map{"role": role})
}

func (h *AccountHandler) SetRole(c *fiber.Ctx) error {
	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	token, err := h.service.SetRole(c.Context(), req.Email, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to set role"})
	}

	return c.JSON(fiber.Map{"role": req.Role, "token": token})
}

func (h *AccountHandler) ListUsers(c *fiber.Ctx) error {
	role, _ := c.Locals("role").(string)

	users, err := h.service.ListUsers(c.Context(), role)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to list users"})
	}

	summaries := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
	return c.JSON(fiber.Map{"users": summaries})
}

func (h *AccountHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	user, err := h.service.GetUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load profile"})
	}

	return c.JSON(fiber.Map{"profile": user.Profile})
}

func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var profile models.Profile
	if err := c.BodyParser(&profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.UpdateProfile(c.Context(), userID, profile); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": "Failed to update profile"})
		}
	}

	return c.JSON(fiber.Map{"profile": profile})
}
