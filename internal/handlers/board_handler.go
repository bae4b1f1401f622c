package handlers

import (
	"canvas-studio-backend/internal/models"
	"canvas-studio-backend/internal/repo"
	"canvas-studio-backend/internal/services"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// for simple crud operations service layer is not required
type BoardHandler struct {
	repo    repo.BoardRepoInterface
	service *services.BoardService
}

func NewBoardHandler(repo repo.BoardRepoInterface, service *services.BoardService) *BoardHandler {
	return &BoardHandler{
		repo:    repo,
		service: service,
	}
}

// parseBoardID reads the :boardId route param. The error is a 400
// *fiber.Error for the app's error handler.
func parseBoardID(c *fiber.Ctx) (uuid.UUID, error) {
	boardId, err := uuid.Parse(c.Params("boardId"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid board ID")
	}
	return boardId, nil
}

// errorResponse maps service and repository errors to a status code.
func errorResponse(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, repo.ErrObjectNotFound), errors.Is(err, repo.ErrBoardNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrSnapshotDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	log.Println(err, "Error trying to "+action)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to " + action,
	})
}

// function to create a board
func (h *BoardHandler) CreateBoard(c *fiber.Ctx) error {
	var dto struct {
		Title  string `json:"title"`
		UserID string `json:"userId"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID, err := uuid.Parse(dto.UserID)
	if err != nil {
		log.Println(err, "Error parsing user id")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}
	if dto.Title == "" {
		dto.Title = "Untitled board"
	}

	id, err := h.repo.CreateBoard(&models.Board{
		Title:  dto.Title,
		UserID: userID,
	})
	if err != nil {
		return errorResponse(c, err, "create board")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uuid":    id.String(),
		"message": "Board created successfully",
	})
}

// function to get all boards
func (h *BoardHandler) GetAllBoards(c *fiber.Ctx) error {
	boards, err := h.repo.GetAllBoards()
	if err != nil {
		return errorResponse(c, err, "get boards")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"boards": boards,
	})
}

// function to get a board and its objects in render order
func (h *BoardHandler) GetBoardByID(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}

	board, err := h.repo.GetBoard(boardId)
	if err != nil {
		return errorResponse(c, err, "get board")
	}
	objects, err := h.service.RenderOrder(boardId)
	if err != nil {
		return errorResponse(c, err, "get board")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"board":   board,
		"objects": objects,
	})
}

// function to clear board
func (h *BoardHandler) ClearBoard(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}

	if err := h.service.ClearBoard(boardId); err != nil {
		return errorResponse(c, err, "clear board")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Board cleared successfully",
	})
}
