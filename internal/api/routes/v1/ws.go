package v1

import (
	"canvas-studio-backend/internal/libraries"
	"canvas-studio-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

// registerWebSocket relays every committed change to the board's room and
// serves the realtime endpoint.
func registerWebSocket(r fiber.Router, deps Dependencies) {
	deps.Service.Subscribe(func(e services.ObjectEvent) {
		deps.Hub.BroadcastToBoard(e.BoardID, libraries.WebSocketMessageType(e.Kind), e, "")
	})

	r.Get("/ws", libraries.WebSocketHandler(deps.Hub, deps.Service))
}
