package v1

import (
	"canvas-studio-backend/internal/libraries"
	"canvas-studio-backend/internal/repo"
	"canvas-studio-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Dependencies are the shared components the v1 handlers are built from.
type Dependencies struct {
	BoardRepo repo.BoardRepoInterface
	Service   *services.BoardService
	Hub       *libraries.Hub
}

func RegisterRoutes(r fiber.Router, deps Dependencies) {
	registerBoard(r, deps)
	registerBoardObjects(r, deps)
	registerWebSocket(r, deps)
}
