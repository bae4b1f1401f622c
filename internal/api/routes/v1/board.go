package v1

import (
	"canvas-studio-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

func registerBoard(r fiber.Router, deps Dependencies) {
	// Initialize handler
	boardHandler := handlers.NewBoardHandler(deps.BoardRepo, deps.Service)

	// Register routes
	r.Get("/boards", boardHandler.GetAllBoards)
	r.Post("/boards", boardHandler.CreateBoard)
	r.Get("/boards/:boardId", boardHandler.GetBoardByID)
	r.Delete("/boards/:boardId/clear", boardHandler.ClearBoard)
}
