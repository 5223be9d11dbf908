package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

const (
	noticeLoggedIn   = "Logged in successfully!"
	noticeRegistered = "Registered successfully! Please login."
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
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

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type leaderboardRequest struct {
	Limit int `json:"limit"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type leaderboardPayload struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
}

type noticePayload struct {
	Message string `json:"message"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorCode maps use-case errors onto the codes clients switch on.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuthNotFound):
		return "auth_not_found"
	case errors.Is(err, domain.ErrRegistrationConflict):
		return "registration_conflict"
	case errors.Is(err, domain.ErrAuthOther):
		return "auth_other"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, domain.ErrOptionNotFound):
		return "bad_request"
	default:
		return "invalid_state"
	}
}

func errorMessage(code, message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: code, Message: message}}
}

func errorFrame(err error) outboundMessage[any] {
	return errorMessage(errorCode(err), err.Error())
}

// frameConn is the part of a websocket connection a session loop needs.
type frameConn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
	Close() error
}

// ServeWS upgrades HTTP requests to websockets and binds one quiz session to the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	h.serve(r.Context(), conn)
}

func (h *WSHandler) serve(ctx context.Context, conn frameConn) {
	defer conn.Close()

	session, err := h.service.Open(ctx)
	if err != nil {
		_ = conn.WriteJSON(errorFrame(err))
		return
	}
	// The request context is done once the client is gone; closing must still run.
	defer h.service.Close(context.Background(), session)

	updates, cancel := h.service.Subscribe(session)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Str("session", session.ID()).Msg("ws write error")
				// Unblocks the read loop.
				_ = conn.Close()
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: view}:
				case <-closeSignals:
					return
				case <-writerDone:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

read:
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		for _, msg := range h.dispatch(ctx, session, inbound) {
			select {
			case send <- msg:
			case <-writerDone:
				break read
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch runs one inbound command. State frames travel through the session
// subscription; the returned frames are the command's direct replies.
func (h *WSHandler) dispatch(ctx context.Context, session *app.Session, inbound inboundMessage) []outboundMessage[any] {
	switch inbound.Type {
	case "login":
		var payload credentialsPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return []outboundMessage[any]{errorMessage("bad_request", "invalid login payload")}
		}
		if _, err := h.service.Login(ctx, session, payload.Email, payload.Password); err != nil {
			return []outboundMessage[any]{errorFrame(err)}
		}
		return []outboundMessage[any]{
			{Type: "notice", Payload: noticePayload{Message: noticeLoggedIn}},
			h.leaderboardFrame(ctx, 0),
		}

	case "register":
		var payload credentialsPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return []outboundMessage[any]{errorMessage("bad_request", "invalid register payload")}
		}
		if err := h.service.Register(ctx, payload.Email, payload.Password); err != nil {
			return []outboundMessage[any]{errorFrame(err)}
		}
		return []outboundMessage[any]{{Type: "notice", Payload: noticePayload{Message: noticeRegistered}}}

	case "answer":
		var payload answerPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil || payload.Option == "" {
			return []outboundMessage[any]{errorMessage("bad_request", "invalid answer payload")}
		}
		// On store_unavailable the answer still stands; only the write failed.
		if _, _, err := h.service.Answer(ctx, session, payload.Option); err != nil {
			return []outboundMessage[any]{errorFrame(err)}
		}
		return []outboundMessage[any]{h.leaderboardFrame(ctx, 0)}

	case "next":
		if _, err := h.service.Next(ctx, session); err != nil {
			return []outboundMessage[any]{errorFrame(err)}
		}
		return nil

	case "logout":
		if _, err := h.service.Logout(ctx, session); err != nil {
			return []outboundMessage[any]{errorFrame(err)}
		}
		return nil

	case "leaderboard":
		var payload leaderboardRequest
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return []outboundMessage[any]{errorMessage("bad_request", "invalid leaderboard payload")}
		}
		return []outboundMessage[any]{h.leaderboardFrame(ctx, payload.Limit)}

	default:
		return []outboundMessage[any]{errorMessage("bad_request", "unsupported message type")}
	}
}

func (h *WSHandler) leaderboardFrame(ctx context.Context, limit int) outboundMessage[any] {
	entries, err := h.service.Leaderboard(ctx, limit)
	if err != nil {
		log.Warn().Err(err).Msg("leaderboard fetch failed")
		return errorFrame(err)
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return outboundMessage[any]{Type: "leaderboard", Payload: leaderboardPayload{Entries: entries}}
}

// decodePayload tolerates a missing payload for commands whose fields are optional.
func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}
