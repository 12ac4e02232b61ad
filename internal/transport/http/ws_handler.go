package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"timeclash/internal/app"
	"timeclash/internal/domain"
	"timeclash/internal/engine"
)

type WSHandler struct {
	service  *app.RoundService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.RoundService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	CatalogID string `json:"catalogId"`
}

type answerPayload struct {
	Text string `json:"text"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type rosterPayload struct {
	Participants []domain.Participant `json:"participants"`
}

type joinedPayload struct {
	Room        domain.Room        `json:"room"`
	Participant domain.Participant `json:"participant"`
}

type attemptPayload struct {
	Outcome      string `json:"outcome"`
	AttemptsUsed int    `json:"attemptsUsed"`
	Class        int    `json:"class,omitempty"`
	Feedback     string `json:"feedback,omitempty"`
	Reveal       string `json:"reveal,omitempty"`
	Resolved     bool   `json:"resolved"`
	Ended        bool   `json:"ended"`
}

func attemptFrom(result engine.AttemptResult) attemptPayload {
	return attemptPayload{
		Outcome:      result.Outcome.String(),
		AttemptsUsed: result.AttemptsUsed,
		Class:        result.Class,
		Feedback:     result.Feedback,
		Reveal:       result.Reveal,
		Resolved:     result.Resolved,
		Ended:        result.Ended,
	}
}

// wsConn bundles the per-connection plumbing: one writer goroutine owns the
// socket, pumps forward feed channels into send, closeSignals tears the pumps
// down before send is closed.
type wsConn struct {
	send         chan outboundMessage[any]
	closeSignals chan struct{}
	writerDone   chan struct{}
	pumps        sync.WaitGroup
}

func newWSConn(conn *websocket.Conn) *wsConn {
	c := &wsConn{
		send:         make(chan outboundMessage[any], 16),
		closeSignals: make(chan struct{}),
		writerDone:   make(chan struct{}),
	}
	go func() {
		defer close(c.writerDone)
		for msg := range c.send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()
	return c
}

func (c *wsConn) shutdown() {
	close(c.closeSignals)
	c.pumps.Wait()
	close(c.send)
	<-c.writerDone
}

func (c *wsConn) sendError(message string) {
	c.send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the round
// use cases. Multiplayer clients pass ?room=CODE&name=NAME; single-player
// clients pass ?solo=1&name=NAME and skip the room join.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("room")
	name := r.URL.Query().Get("name")
	solo := r.URL.Query().Get("solo") != ""
	if name == "" || (code == "" && !solo) {
		http.Error(w, "missing room or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	if solo {
		h.serveSolo(r.Context(), conn, name, r.URL.Query().Get("catalog"))
		return
	}
	h.serveRoom(r.Context(), conn, code, name)
}

func (h *WSHandler) serveRoom(ctx context.Context, conn *websocket.Conn, code, name string) {
	room, err := h.service.GetRoomByCode(ctx, code)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	participant, err := h.service.JoinRoom(ctx, code, name)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Leave(ctx, code, participant.ID)

	roster, rosterCancel, err := h.service.SubscribeRoster(ctx, code)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer rosterCancel()

	c := newWSConn(conn)

	c.send <- outboundMessage[any]{Type: "joined", Payload: joinedPayload{Room: room, Participant: participant}}

	c.pumps.Add(1)
	go func() {
		defer c.pumps.Done()
		for {
			select {
			case ps, ok := <-roster:
				if !ok {
					return
				}
				select {
				case c.send <- outboundMessage[any]{Type: "roster", Payload: rosterPayload{Participants: ps}}:
				case <-c.closeSignals:
					return
				}
			case <-c.closeSignals:
				return
			}
		}
	}()

	// a round may already be running when this client connects
	roundCancel := h.pumpRound(ctx, c, code)
	defer func() {
		if roundCancel != nil {
			roundCancel()
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			_ = json.Unmarshal(inbound.Payload, &payload)
			if err := h.service.StartRound(ctx, code, payload.CatalogID); err != nil {
				c.sendError(err.Error())
				continue
			}
			if roundCancel == nil {
				roundCancel = h.pumpRound(ctx, c, code)
			}
		case "answer", "giveUp":
			h.handleAttempt(ctx, c, code, inbound)
			if roundCancel == nil {
				roundCancel = h.pumpRound(ctx, c, code)
			}
		default:
			c.sendError("unsupported message type")
		}
	}

	c.shutdown()
}

func (h *WSHandler) serveSolo(ctx context.Context, conn *websocket.Conn, name, catalogID string) {
	key, err := h.service.StartSolo(ctx, name, catalogID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	c := newWSConn(conn)
	roundCancel := h.pumpRound(ctx, c, key)
	defer func() {
		if roundCancel != nil {
			roundCancel()
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer", "giveUp":
			h.handleAttempt(ctx, c, key, inbound)
		default:
			c.sendError("unsupported message type")
		}
	}

	c.shutdown()
}

// handleAttempt feeds one answer or give-up into the round and reports the
// synchronous result back to the submitting client. Updates for everyone
// else travel through the round subscription.
func (h *WSHandler) handleAttempt(ctx context.Context, c *wsConn, key string, inbound inboundMessage) {
	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.sendError("invalid answer payload")
			return
		}
		result, err := h.service.SubmitAnswer(ctx, key, payload.Text)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.send <- outboundMessage[any]{Type: "attempt", Payload: attemptFrom(result)}
	case "giveUp":
		result, err := h.service.GiveUp(ctx, key)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.send <- outboundMessage[any]{Type: "attempt", Payload: attemptFrom(result)}
	}
}

// pumpRound forwards round updates into the send channel. Returns nil when
// no round is running yet.
func (h *WSHandler) pumpRound(ctx context.Context, c *wsConn, key string) func() {
	updates, cancel, err := h.service.SubscribeRound(ctx, key)
	if err != nil {
		return nil
	}
	c.pumps.Add(1)
	go func() {
		defer c.pumps.Done()
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case c.send <- outboundMessage[any]{Type: string(update.Kind), Payload: update}:
				case <-c.closeSignals:
					return
				}
			case <-c.closeSignals:
				return
			}
		}
	}()
	return cancel
}
