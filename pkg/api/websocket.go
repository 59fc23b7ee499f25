package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsSlotWait bounds how long a message waits for a move slot.
var wsSlotWait = 10 * time.Second

// WSMessage is a client request.
type WSMessage struct {
	Type    string          `json:"type"`    // "ping", "new", "move", "legal", "best"
	ID      string          `json:"id"`      // Echoed back in the response
	Payload json.RawMessage `json:"payload"` // Same body as the matching REST endpoint
}

// WSResponse is a server reply.
type WSResponse struct {
	Type    string      `json:"type"` // "result", "error" or "pong"
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// WSClient is one connected WebSocket client.
type WSClient struct {
	ctx      context.Context
	conn     *websocket.Conn
	handlers *Handlers
	send     chan WSResponse
}

// WebSocket handles GET /api/ws. Each message is answered in order on the
// same connection.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	c := &WSClient{ctx: r.Context(), conn: conn, handlers: h, send: make(chan WSResponse, 64)}
	go c.writePump()
	c.readPump()
}

func (c *WSClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *WSClient) readPump() {
	defer close(c.send)
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.send <- c.handle(msg)
	}
}

// decodePayload unmarshals an optional payload.
func decodePayload(raw json.RawMessage, v interface{}) *apiError {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return badRequest("INVALID_JSON", "invalid payload: %v", err)
	}
	return nil
}

func wsError(id string, e *apiError) WSResponse {
	return WSResponse{Type: "error", ID: id, Error: e.msg, Code: e.code}
}

func (c *WSClient) handle(msg WSMessage) WSResponse {
	h := c.handlers
	var (
		payload interface{}
		aerr    *apiError
	)
	switch msg.Type {
	case "ping":
		return WSResponse{Type: "pong", ID: msg.ID}
	case "new", "move", "legal", "best":
	default:
		return wsError(msg.ID, badRequest("UNKNOWN_TYPE", "unknown message type %q", msg.Type))
	}

	ctx, cancel := context.WithTimeout(c.ctx, wsSlotWait)
	aerr = h.takeMoveSlot(ctx)
	cancel()
	if aerr != nil {
		return wsError(msg.ID, aerr)
	}
	defer h.releaseMove()

	switch msg.Type {
	case "new":
		var req NewGameRequest
		if aerr = decodePayload(msg.Payload, &req); aerr == nil {
			payload, aerr = h.newGame(req)
		}
	case "move":
		var req MoveRequest
		if aerr = decodePayload(msg.Payload, &req); aerr == nil {
			var (
				turn  *TurnResponse
				board *BoardResponse
			)
			turn, board, aerr = h.playMove(req)
			if board != nil {
				resp := wsError(msg.ID, aerr)
				resp.Payload = board
				return resp
			}
			payload = turn
		}
	case "legal":
		var req PositionRequest
		if aerr = decodePayload(msg.Payload, &req); aerr == nil {
			payload, aerr = h.legal(req)
		}
	case "best":
		var req PositionRequest
		if aerr = decodePayload(msg.Payload, &req); aerr == nil {
			payload, aerr = h.best(req)
		}
	}
	if aerr != nil {
		return wsError(msg.ID, aerr)
	}
	return WSResponse{Type: "result", ID: msg.ID, Payload: payload}
}
