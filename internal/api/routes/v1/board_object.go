package v1

import (
	"canvas-studio-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
)

func registerBoardObjects(r fiber.Router, deps Dependencies) {
	h := handlers.NewBoardObjectHandler(deps.Service)

	r.Get("/builders", h.GetBuilders)

	board := r.Group("/boards/:boardId")
	board.Get("/objects", h.ListObjects)
	board.Post("/objects", h.CreateObject)
	board.Patch("/objects/:objectId", h.UpdateObject)
	board.Delete("/objects/:objectId", h.DeleteObject)
	board.Post("/objects/:objectId/resize", h.ResizeObject)
	board.Post("/objects/:objectId/fit-text", h.FitText)

	board.Post("/build/:builder", h.BuildObject)
	board.Post("/duplicate", h.DuplicateObjects)
	board.Post("/zorder", h.ApplyZOrder)
	board.Post("/connectors", h.ConnectObjects)
	board.Post("/transform", h.TransformObjects)
	board.Post("/frames/:frameId/drag", h.DragFrame)
	board.Post("/snap", h.Snap)
	board.Post("/snapshot", h.ExportSnapshot)
}
