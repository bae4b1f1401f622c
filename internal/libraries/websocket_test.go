package libraries

import (
	"canvas-studio-backend/internal/models"
	"canvas-studio-backend/internal/session"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestParseObjectUpdate(t *testing.T) {
	msg, err := parseWebSocketMessage([]byte(`{"type":"object_update","data":{"board_id":"b","id":"o","patch":{"x":10,"unset":["radius"]}}}`))
	if err != nil {
		t.Fatal(err)
	}
	payload, ok := msg.Data.(*ObjectUpdatePayload)
	if !ok {
		t.Fatalf("expected *ObjectUpdatePayload, got %T", msg.Data)
	}
	if payload.ID != "o" || *payload.Patch.X != 10 || payload.Patch.Unset[0] != models.FieldRadius {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestParseMessages(t *testing.T) {
	msg, err := parseWebSocketMessage([]byte(`{"type":"drag_preview","data":{"board_id":"b","id":"o","x":1,"y":2}}`))
	if err != nil {
		t.Fatal(err)
	}
	if p, ok := msg.Data.(*DragPreviewPayload); !ok || p.X != 1 || p.Y != 2 {
		t.Errorf("unexpected drag preview %#v", msg.Data)
	}

	msg, err = parseWebSocketMessage([]byte(`{"type":"ping"}`))
	if err != nil || msg.Type != WebSocketMessageTypePing || msg.Data != nil {
		t.Errorf("unexpected ping parse %+v %v", msg, err)
	}

	if _, err := parseWebSocketMessage([]byte(`{"type":`)); err == nil {
		t.Error("expected an error for malformed JSON")
	}
	if _, err := parseWebSocketMessage([]byte(`{"type":"join","data":{"board_id":5}}`)); err == nil {
		t.Error("expected an error for a mistyped payload")
	}
}

func newTestClient() *Client {
	return &Client{ID: uuid.NewString(), Send: make(chan []byte, 8)}
}

func receive(t *testing.T, c *Client) WebSocketMessage {
	t.Helper()
	select {
	case raw := <-c.Send:
		var msg WebSocketMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatal(err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a message")
	}
	return WebSocketMessage{}
}

func expectNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.Send:
		t.Errorf("unexpected message %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastsToRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	boardA, boardB := uuid.New(), uuid.New()
	alice, bob, carol := newTestClient(), newTestClient(), newTestClient()
	for _, c := range []*Client{alice, bob, carol} {
		hub.Register <- c
	}
	hub.Join(alice, boardA)
	hub.Join(bob, boardA)
	hub.Join(carol, boardB)

	hub.BroadcastToBoard(boardA, WebSocketMessageTypeObjectUpdated, map[string]string{"id": "x"}, alice.ID)

	if msg := receive(t, bob); msg.Type != WebSocketMessageTypeObjectUpdated {
		t.Errorf("bob got %s", msg.Type)
	}
	expectNothing(t, alice)
	expectNothing(t, carol)

	// Rejoining moves the client out of its old room.
	hub.Join(bob, boardB)
	hub.BroadcastToBoard(boardA, WebSocketMessageTypeObjectUpdated, nil, "")
	receive(t, alice)
	expectNothing(t, bob)
}

type stubProcessor struct {
	updates int
	undos   int
}

func (p *stubProcessor) UpdateObject(sess *session.Session, boardID uuid.UUID, id string, patch models.ObjectPatch) (*models.BoardObject, error) {
	p.updates++
	return &models.BoardObject{ID: id}, nil
}

func (p *stubProcessor) Undo(sess *session.Session) (bool, error) {
	p.undos++
	return false, nil
}

func (p *stubProcessor) Redo(sess *session.Session) (bool, error) {
	return false, nil
}

func TestHandleMessageRequiresJoin(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	client := newTestClient()
	hub.Register <- client
	proc := &stubProcessor{}

	handleMessage(hub, client, proc, &WebSocketMessage{Type: WebSocketMessageTypeObjectUpdate, Data: &ObjectUpdatePayload{ID: "o"}})
	if msg := receive(t, client); msg.Type != WebSocketMessageTypeError {
		t.Errorf("expected an error before join, got %s", msg.Type)
	}

	board := uuid.New()
	handleMessage(hub, client, proc, &WebSocketMessage{Type: WebSocketMessageTypeJoin, Data: &JoinPayload{BoardId: board.String()}})
	if msg := receive(t, client); msg.Type != WebSocketMessageTypeJoined {
		t.Fatalf("expected joined, got %s", msg.Type)
	}
	if client.Session == nil || client.Session.BoardID != board {
		t.Fatal("join should open a session for the board")
	}

	handleMessage(hub, client, proc, &WebSocketMessage{Type: WebSocketMessageTypeObjectUpdate, Data: &ObjectUpdatePayload{BoardId: board.String(), ID: "o"}})
	if proc.updates != 1 {
		t.Errorf("expected one update, got %d", proc.updates)
	}

	handleMessage(hub, client, proc, &WebSocketMessage{Type: WebSocketMessageTypeObjectUpdate, Data: &ObjectUpdatePayload{BoardId: uuid.NewString(), ID: "o"}})
	if msg := receive(t, client); msg.Type != WebSocketMessageTypeError || proc.updates != 1 {
		t.Errorf("updates for another board should be refused")
	}

	handleMessage(hub, client, proc, &WebSocketMessage{Type: WebSocketMessageTypeUndo})
	if msg := receive(t, client); msg.Type != WebSocketMessageTypeHistory || proc.undos != 1 {
		t.Errorf("expected a history reply, got %s", msg.Type)
	}

	handleMessage(hub, client, proc, &WebSocketMessage{Type: WebSocketMessageTypeSelection, Data: &SelectionPayload{IDs: []string{"a"}}})
	if got := client.Session.Selection(); len(got) != 1 || got[0] != "a" {
		t.Errorf("selection not stored, got %v", got)
	}

	handleMessage(hub, client, proc, &WebSocketMessage{Type: WebSocketMessageTypePing})
	if msg := receive(t, client); msg.Type != WebSocketMessageTypePong {
		t.Errorf("expected pong, got %s", msg.Type)
	}
}
