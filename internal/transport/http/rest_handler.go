package http

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
)

//go:embed static
var staticFiles embed.FS

// RESTHandler serves the JSON endpoints next to the websocket.
type RESTHandler struct {
	service *app.QuizService
}

func NewRESTHandler(service *app.QuizService) *RESTHandler {
	return &RESTHandler{service: service}
}

// Register mounts the REST routes, the websocket endpoint and the browser client on mux.
func Register(mux *http.ServeMux, service *app.QuizService) {
	rest := NewRESTHandler(service)
	mux.HandleFunc("/healthz", rest.Health)
	mux.HandleFunc("/api/leaderboard", rest.Leaderboard)
	mux.HandleFunc("/api/register", rest.RegisterUser)
	mux.HandleFunc("/ws", NewWSHandler(service).ServeWS)
	mux.Handle("/", StaticHandler())
}

// StaticHandler serves the embedded browser client.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

func (h *RESTHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

// Leaderboard handles GET /api/leaderboard?limit=n.
func (h *RESTHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "bad_request", "method not allowed")
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, errorCode(err), err.Error())
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, leaderboardPayload{Entries: entries})
}

// RegisterUser handles POST /api/register.
func (h *RESTHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "bad_request", "method not allowed")
		return
	}
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	err := h.service.Register(r.Context(), payload.Email, payload.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, noticePayload{Message: noticeRegistered})
	case errors.Is(err, domain.ErrRegistrationConflict):
		writeError(w, http.StatusConflict, errorCode(err), err.Error())
	default:
		writeError(w, http.StatusBadRequest, errorCode(err), err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorPayload{Code: code, Message: message})
}
