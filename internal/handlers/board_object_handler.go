package handlers

import (
	"canvas-studio-backend/internal/builders"
	"canvas-studio-backend/internal/canvas"
	"canvas-studio-backend/internal/models"
	"canvas-studio-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

// BoardObjectHandler exposes the board service over HTTP. Requests are
// stateless: HTTP callers have no selection and no undo history.
type BoardObjectHandler struct {
	service *services.BoardService
}

func NewBoardObjectHandler(service *services.BoardService) *BoardObjectHandler {
	return &BoardObjectHandler{service: service}
}

func badBody() error {
	return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
}

func (h *BoardObjectHandler) ListObjects(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	objects, err := h.service.RenderOrder(boardId)
	if err != nil {
		return errorResponse(c, err, "list objects")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"objects": objects,
	})
}

func (h *BoardObjectHandler) CreateObject(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	var obj models.BoardObject
	if err := c.BodyParser(&obj); err != nil {
		return badBody()
	}

	created, err := h.service.CreateObject(nil, boardId, obj)
	if err != nil {
		return errorResponse(c, err, "create object")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"object": created,
	})
}

func (h *BoardObjectHandler) UpdateObject(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	var patch models.ObjectPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody()
	}

	updated, err := h.service.UpdateObject(nil, boardId, c.Params("objectId"), patch)
	if err != nil {
		return errorResponse(c, err, "update object")
	}
	if updated == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"deleted": true,
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"object": updated,
	})
}

func (h *BoardObjectHandler) DeleteObject(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteObject(nil, boardId, c.Params("objectId")); err != nil {
		return errorResponse(c, err, "delete object")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Object deleted successfully",
	})
}

func (h *BoardObjectHandler) ResizeObject(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	var req services.ResizeRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}

	obj, err := h.service.ResizeObject(nil, boardId, c.Params("objectId"), req)
	if err != nil {
		return errorResponse(c, err, "resize object")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"object": obj,
	})
}

func (h *BoardObjectHandler) FitText(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	obj, err := h.service.FitText(nil, boardId, c.Params("objectId"))
	if err != nil {
		return errorResponse(c, err, "fit text")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"object": obj,
	})
}

func (h *BoardObjectHandler) BuildObject(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	input := map[string]interface{}{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return badBody()
		}
	}

	obj, err := h.service.BuildObject(c.UserContext(), nil, boardId, c.Params("builder"), input)
	if err != nil {
		return errorResponse(c, err, "build object")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"object": obj,
	})
}

func (h *BoardObjectHandler) DuplicateObjects(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	var dto struct {
		IDs []string `json:"ids"`
		DX  float64  `json:"dx"`
		DY  float64  `json:"dy"`
	}
	if err := c.BodyParser(&dto); err != nil || len(dto.IDs) == 0 {
		return badBody()
	}

	copies, err := h.service.DuplicateObjects(nil, boardId, dto.IDs, dto.DX, dto.DY)
	if err != nil {
		return errorResponse(c, err, "duplicate objects")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"objects": copies,
	})
}

func (h *BoardObjectHandler) ApplyZOrder(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	var dto struct {
		Action canvas.ZOrderAction `json:"action"`
		IDs    []string            `json:"ids"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badBody()
	}

	changed, err := h.service.ApplyZOrder(nil, boardId, dto.Action, dto.IDs)
	if err != nil {
		return errorResponse(c, err, "reorder objects")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"zIndex": changed,
	})
}

func (h *BoardObjectHandler) ConnectObjects(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	var req services.ConnectRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}

	line, err := h.service.ConnectObjects(nil, boardId, req)
	if err != nil {
		return errorResponse(c, err, "connect objects")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"object": line,
	})
}

// TransformObjects accepts either per-object transforms in items, or ids
// and one group transform around a shared pivot.
func (h *BoardObjectHandler) TransformObjects(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	var dto struct {
		Items []services.TransformItem `json:"items"`
		IDs   []string                 `json:"ids"`
		Group *canvas.GroupTransform   `json:"group"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badBody()
	}

	var objects []models.BoardObject
	switch {
	case len(dto.Items) > 0:
		objects, err = h.service.TransformSelection(nil, boardId, dto.Items)
	case dto.Group != nil && len(dto.IDs) > 0:
		objects, err = h.service.TransformGroup(nil, boardId, dto.IDs, *dto.Group)
	default:
		return badBody()
	}
	if err != nil {
		return errorResponse(c, err, "transform objects")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"objects": objects,
	})
}

func (h *BoardObjectHandler) DragFrame(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	var dto struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badBody()
	}

	moved, err := h.service.DragFrame(nil, boardId, c.Params("frameId"), dto.DX, dto.DY)
	if err != nil {
		return errorResponse(c, err, "drag frame")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"objects": moved,
	})
}

func (h *BoardObjectHandler) Snap(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	var req services.SnapRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}

	res, err := h.service.Snap(boardId, req)
	if err != nil {
		return errorResponse(c, err, "snap")
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *BoardObjectHandler) ExportSnapshot(c *fiber.Ctx) error {
	boardId, err := parseBoardID(c)
	if err != nil {
		return err
	}
	url, err := h.service.ExportSnapshot(c.UserContext(), boardId)
	if err != nil {
		return errorResponse(c, err, "export snapshot")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url": url,
	})
}

func (h *BoardObjectHandler) GetBuilders(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"builders": builders.GetBuilderDefinitions(),
	})
}
