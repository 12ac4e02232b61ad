package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"timeclash/internal/app"
	"timeclash/internal/domain"
)

// RoomHandler exposes the room directory over plain HTTP: room creation for
// hosts and lookup for guests joining via an invite link.
type RoomHandler struct {
	service *app.RoundService
}

func NewRoomHandler(service *app.RoundService) *RoomHandler {
	return &RoomHandler{service: service}
}

// Register mounts the directory routes on the mux.
func (h *RoomHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /rooms", h.CreateRoom)
	mux.HandleFunc("GET /rooms/{code}", h.GetRoom)
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.CreateRoom(r.Context())
	if err != nil {
		log.Printf("create room failed: %v", err)
		http.Error(w, "could not create room", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.GetRoomByCode(r.Context(), r.PathValue("code"))
	if errors.Is(err, domain.ErrRoomNotFound) {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("room lookup failed: %v", err)
		http.Error(w, "room lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
