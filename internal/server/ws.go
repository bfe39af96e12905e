package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
	"github.com/msto63/dashscript/pkg/core/health"
	"github.com/msto63/dashscript/pkg/core/logging"
	"github.com/msto63/dashscript/pkg/core/version"
)

const readDeadline = 120 * time.Second

// WebSocket upgrader with permissive settings for local editors
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is a client request
type WSMessage struct {
	Type    string          `json:"type"` // "ping", "apply", "create", "get", "undo", "history"
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSResponse answers one WSMessage, echoing its ID
type WSResponse struct {
	Type    string      `json:"type"` // "pong", "result", "error"
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WSCreatePayload creates a document
type WSCreatePayload struct {
	Title string `json:"title"`
	Code  string `json:"code"`
}

// WSDocPayload names a document
type WSDocPayload struct {
	DocID string `json:"docId"`
}

// WebSocketHandler serves the editor over websocket connections
type WebSocketHandler struct {
	editor *Editor
	logger *logging.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(editor *Editor, logger *logging.Logger) *WebSocketHandler {
	if logger == nil {
		logger = logging.New("ws")
	}
	return &WebSocketHandler{editor: editor, logger: logger}
}

// NewHTTPHandler routes /ws to the editor and /healthz to the health
// report. A store that can be pinged is checked on every probe.
func NewHTTPHandler(editor *Editor, logger *logging.Logger) http.Handler {
	checks := health.NewRegistry("dashscript", version.Engine, version.Protocol)
	if p, ok := editor.store.(health.Pinger); ok {
		checks.Register(health.PingCheck("store", p, 2*time.Second))
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", NewWebSocketHandler(editor, logger))
	mux.Handle("/healthz", checks.Handler(5*time.Second))
	return mux
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection processes messages in order. Replies arrive in request
// order, so a client may pipeline.
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Error("WebSocket read error", "error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readDeadline))

		if msg.Type == "ping" {
			h.sendResponse(conn, WSResponse{Type: "pong", ID: msg.ID})
			continue
		}
		result, err := h.dispatch(ctx, msg)
		if err != nil {
			h.sendError(conn, msg.ID, err)
			continue
		}
		h.sendResponse(conn, WSResponse{Type: "result", ID: msg.ID, Payload: result})
	}
}

func (h *WebSocketHandler) dispatch(ctx context.Context, msg WSMessage) (interface{}, error) {
	switch msg.Type {
	case "apply":
		var req ApplyRequest
		if err := decodePayload(msg, &req); err != nil {
			return nil, err
		}
		return h.editor.Apply(ctx, req)

	case "create":
		var req WSCreatePayload
		if err := decodePayload(msg, &req); err != nil {
			return nil, err
		}
		return h.editor.Create(ctx, req.Title, req.Code)

	case "get", "undo", "history":
		var req WSDocPayload
		if err := decodePayload(msg, &req); err != nil {
			return nil, err
		}
		switch msg.Type {
		case "get":
			return h.editor.Get(ctx, req.DocID)
		case "undo":
			return h.editor.Undo(ctx, req.DocID)
		default:
			return h.editor.History(ctx, req.DocID)
		}

	default:
		return nil, mdwerror.Newf("unknown message type: %s", msg.Type).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("ws.dispatch")
	}
}

func decodePayload(msg WSMessage, v interface{}) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return mdwerror.Wrap(err, "invalid "+msg.Type+" payload").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("ws.dispatch")
	}
	return nil
}

// sendResponse sends a response message via WebSocket
func (h *WebSocketHandler) sendResponse(conn *websocket.Conn, resp WSResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Error("WebSocket send error", "error", err)
	}
}

// sendError sends an error response via WebSocket
func (h *WebSocketHandler) sendError(conn *websocket.Conn, id string, err error) {
	code := mdwerror.GetCode(err)
	if code == mdwerror.CodeInternal || code == mdwerror.CodeUnknown || code == mdwerror.CodeStorage {
		h.logger.Error("WebSocket request failed", "error", err.Error(), "code", code.String())
	}
	h.sendResponse(conn, WSResponse{
		Type: "error",
		ID:   id,
		Payload: WSErrorPayload{
			Code:    code.String(),
			Message: err.Error(),
		},
	})
}
