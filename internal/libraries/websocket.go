package libraries

import (
	"canvas-studio-backend/internal/models"
	"canvas-studio-backend/internal/session"
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type WebSocketMessageType string

const (
	WebSocketMessageTypePing          WebSocketMessageType = "ping"
	WebSocketMessageTypePong          WebSocketMessageType = "pong"
	WebSocketMessageTypeError         WebSocketMessageType = "error"
	WebSocketMessageTypeJoin          WebSocketMessageType = "join"
	WebSocketMessageTypeJoined        WebSocketMessageType = "joined"
	WebSocketMessageTypeObjectUpdate  WebSocketMessageType = "object_update"
	WebSocketMessageTypeObjectUpdated WebSocketMessageType = "object_updated"
	WebSocketMessageTypeDragPreview   WebSocketMessageType = "drag_preview"
	WebSocketMessageTypeSelection     WebSocketMessageType = "selection"
	WebSocketMessageTypeUndo          WebSocketMessageType = "undo"
	WebSocketMessageTypeRedo          WebSocketMessageType = "redo"
	WebSocketMessageTypeHistory       WebSocketMessageType = "history"
)

type Client struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Session *session.Session
	once    sync.Once
}

// BoardMessage is a payload for every client in a board room except
// ExcludeID.
type BoardMessage struct {
	BoardID   uuid.UUID
	ExcludeID string
	Payload   []byte
}

type joinRequest struct {
	client  *Client
	boardID uuid.UUID
}

type Hub struct {
	Clients    map[string]*Client
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan BoardMessage

	join  chan joinRequest
	rooms map[uuid.UUID]map[string]*Client
	board map[string]uuid.UUID
}

type WebSocketMessage struct {
	Type WebSocketMessageType `json:"type"`
	Data interface{}          `json:"data,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type JoinPayload struct {
	BoardId string `json:"board_id"`
}

type JoinedPayload struct {
	BoardId   string `json:"board_id"`
	SessionId string `json:"session_id"`
}

type ObjectUpdatePayload struct {
	BoardId string             `json:"board_id"`
	ID      string             `json:"id"`
	Patch   models.ObjectPatch `json:"patch"`
}

// DragPreviewPayload is the in-flight position of an object being dragged.
// It is relayed to the room and never stored.
type DragPreviewPayload struct {
	BoardId  string    `json:"board_id"`
	ClientId string    `json:"client_id,omitempty"`
	ID       string    `json:"id"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Rotation *float64  `json:"rotation,omitempty"`
	Points   []float64 `json:"points,omitempty"`
}

type SelectionPayload struct {
	BoardId  string   `json:"board_id,omitempty"`
	ClientId string   `json:"client_id,omitempty"`
	IDs      []string `json:"ids"`
}

type HistoryPayload struct {
	Applied bool `json:"applied"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan BoardMessage),
		join:       make(chan joinRequest),
		rooms:      make(map[uuid.UUID]map[string]*Client),
		board:      make(map[string]uuid.UUID),
	}
}

func (h *Hub) leave(client *Client) {
	boardID, ok := h.board[client.ID]
	if !ok {
		return
	}
	delete(h.board, client.ID)
	if room := h.rooms[boardID]; room != nil {
		delete(room, client.ID)
		if len(room) == 0 {
			delete(h.rooms, boardID)
		}
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client.ID] = client
		case client := <-h.Unregister:
			if _, exists := h.Clients[client.ID]; exists {
				h.leave(client)
				delete(h.Clients, client.ID)
				client.once.Do(func() {
					close(client.Send)
				})
			}
		case req := <-h.join:
			if _, exists := h.Clients[req.client.ID]; !exists {
				continue
			}
			h.leave(req.client)
			room := h.rooms[req.boardID]
			if room == nil {
				room = make(map[string]*Client)
				h.rooms[req.boardID] = room
			}
			room[req.client.ID] = req.client
			h.board[req.client.ID] = req.boardID
		case message := <-h.Broadcast:
			for id, client := range h.rooms[message.BoardID] {
				if id == message.ExcludeID {
					continue
				}
				select {
				case client.Send <- message.Payload:
				default:
					log.Printf("dropping message for slow client %s", id)
				}
			}
		}
	}
}

// Join moves client into the room of boardID.
func (h *Hub) Join(client *Client, boardID uuid.UUID) {
	h.join <- joinRequest{client: client, boardID: boardID}
}

// BroadcastToBoard sends a typed message to every client on boardID except
// excludeID.
func (h *Hub) BroadcastToBoard(boardID uuid.UUID, msgType WebSocketMessageType, data interface{}, excludeID string) {
	payload, err := json.Marshal(WebSocketMessage{Type: msgType, Data: data})
	if err != nil {
		log.Println("failed to marshal broadcast:", err)
		return
	}
	h.Broadcast <- BoardMessage{BoardID: boardID, ExcludeID: excludeID, Payload: payload}
}

func (h *Hub) SendMessage(client *Client, message []byte) {
	client.Send <- message
}

// SendEvent sends a typed message to a single client.
func SendEvent(hub *Hub, client *Client, msgType WebSocketMessageType, data interface{}) {
	resp, err := json.Marshal(WebSocketMessage{Type: msgType, Data: data})
	if err != nil {
		log.Printf("failed to marshal %s response: %v", msgType, err)
		return
	}
	hub.SendMessage(client, resp)
}

// SendErrorMessage sends a standardized error message to a client
func SendErrorMessage(hub *Hub, client *Client, errorMsg string) {
	SendEvent(hub, client, WebSocketMessageTypeError, &ErrorPayload{Message: errorMsg})
}

// parseWebSocketMessage parses incoming websocket message and returns the message structure
func parseWebSocketMessage(msg []byte) (*WebSocketMessage, error) {
	var rawMessage struct {
		Type WebSocketMessageType `json:"type"`
		Data json.RawMessage      `json:"data,omitempty"`
	}
	if err := json.Unmarshal(msg, &rawMessage); err != nil {
		return nil, err
	}

	message := &WebSocketMessage{
		Type: rawMessage.Type,
	}

	if len(rawMessage.Data) > 0 {
		var target interface{}
		switch rawMessage.Type {
		case WebSocketMessageTypeJoin:
			target = &JoinPayload{}
		case WebSocketMessageTypeObjectUpdate:
			target = &ObjectUpdatePayload{}
		case WebSocketMessageTypeDragPreview:
			target = &DragPreviewPayload{}
		case WebSocketMessageTypeSelection:
			target = &SelectionPayload{}
		default:
			var data interface{}
			if err := json.Unmarshal(rawMessage.Data, &data); err != nil {
				return nil, err
			}
			message.Data = data
			return message, nil
		}
		if err := json.Unmarshal(rawMessage.Data, target); err != nil {
			return nil, err
		}
		message.Data = target
	}

	return message, nil
}

// BoardProcessor applies the mutations a socket client asks for.
type BoardProcessor interface {
	UpdateObject(sess *session.Session, boardID uuid.UUID, id string, patch models.ObjectPatch) (*models.BoardObject, error)
	Undo(sess *session.Session) (bool, error)
	Redo(sess *session.Session) (bool, error)
}

// handleMessage dispatches one parsed message. It runs on the client's
// read loop, which owns client.Session.
func handleMessage(hub *Hub, client *Client, processor BoardProcessor, message *WebSocketMessage) {
	switch message.Type {
	case WebSocketMessageTypePing:
		SendEvent(hub, client, WebSocketMessageTypePong, nil)

	case WebSocketMessageTypeJoin:
		payload, ok := message.Data.(*JoinPayload)
		if !ok {
			SendErrorMessage(hub, client, "Join payload is required")
			return
		}
		boardID, err := uuid.Parse(payload.BoardId)
		if err != nil {
			SendErrorMessage(hub, client, "Invalid board ID")
			return
		}
		client.Session = session.New(boardID)
		hub.Join(client, boardID)
		SendEvent(hub, client, WebSocketMessageTypeJoined, &JoinedPayload{BoardId: boardID.String(), SessionId: client.Session.ID})

	case WebSocketMessageTypeObjectUpdate:
		payload, ok := message.Data.(*ObjectUpdatePayload)
		if !ok || payload.ID == "" {
			SendErrorMessage(hub, client, "Object update payload is required")
			return
		}
		if !joined(hub, client, payload.BoardId) {
			return
		}
		if _, err := processor.UpdateObject(client.Session, client.Session.BoardID, payload.ID, payload.Patch); err != nil {
			log.Printf("object update failed: %v", err)
			SendErrorMessage(hub, client, err.Error())
		}

	case WebSocketMessageTypeDragPreview:
		payload, ok := message.Data.(*DragPreviewPayload)
		if !ok {
			SendErrorMessage(hub, client, "Drag preview payload is required")
			return
		}
		if !joined(hub, client, payload.BoardId) {
			return
		}
		payload.ClientId = client.ID
		hub.BroadcastToBoard(client.Session.BoardID, WebSocketMessageTypeDragPreview, payload, client.ID)

	case WebSocketMessageTypeSelection:
		payload, ok := message.Data.(*SelectionPayload)
		if !ok {
			SendErrorMessage(hub, client, "Selection payload is required")
			return
		}
		if !joined(hub, client, payload.BoardId) {
			return
		}
		client.Session.Select(payload.IDs)
		payload.ClientId = client.ID
		payload.BoardId = client.Session.BoardID.String()
		hub.BroadcastToBoard(client.Session.BoardID, WebSocketMessageTypeSelection, payload, client.ID)

	case WebSocketMessageTypeUndo, WebSocketMessageTypeRedo:
		if !joined(hub, client, "") {
			return
		}
		replay := processor.Undo
		if message.Type == WebSocketMessageTypeRedo {
			replay = processor.Redo
		}
		applied, err := replay(client.Session)
		if err != nil {
			log.Printf("%s failed: %v", message.Type, err)
			SendErrorMessage(hub, client, err.Error())
			return
		}
		SendEvent(hub, client, WebSocketMessageTypeHistory, &HistoryPayload{
			Applied: applied,
			CanUndo: client.Session.CanUndo(),
			CanRedo: client.Session.CanRedo(),
		})

	default:
		SendErrorMessage(hub, client, "Type is invalid or not provided")
	}
}

// joined reports whether client is in a board room, and in boardId's room
// when one is named. It answers the client with an error otherwise.
func joined(hub *Hub, client *Client, boardId string) bool {
	if client.Session == nil {
		SendErrorMessage(hub, client, "Join a board first")
		return false
	}
	if boardId != "" && boardId != client.Session.BoardID.String() {
		SendErrorMessage(hub, client, "Board ID does not match the joined board")
		return false
	}
	return true
}

func WebSocketHandler(hub *Hub, processor BoardProcessor) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:   uuid.NewString(),
			Conn: conn,
			Send: make(chan []byte, 256),
		}

		hub.Register <- client

		// Write loop. A write failure closes the conn so the read loop
		// exits and unregisters; Send is only closed after that.
		go func() {
			defer conn.Close()
			for msg := range client.Send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Println("write error:", err)
					return
				}
			}
		}()

		// Read loop
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Println("read error:", err)
				break
			}

			message, err := parseWebSocketMessage(msg)
			if err != nil {
				log.Println("failed to parse JSON:", err)
				SendErrorMessage(hub, client, "Invalid JSON format")
				continue
			}
			handleMessage(hub, client, processor, message)
		}

		hub.Unregister <- client
		conn.Close()
	})
}
