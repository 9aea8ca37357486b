package session

import (
	"net/http"

	"mighty/apps/server/internal/hub"
)

// RegisterRoutes wires the five sub-protocol tags onto mux at
// "/ws/<tag>" (spec.md §6).
func RegisterRoutes(mux *http.ServeMux, h *hub.Hub) {
	mux.HandleFunc("/ws/list", func(w http.ResponseWriter, r *http.Request) { ServeList(h, w, r) })
	mux.HandleFunc("/ws/main", func(w http.ResponseWriter, r *http.Request) { ServeStatus(h, w, r) })
	mux.HandleFunc("/ws/room", func(w http.ResponseWriter, r *http.Request) { ServeRoom(h, w, r) })
	mux.HandleFunc("/ws/observe", func(w http.ResponseWriter, r *http.Request) { ServeObserve(h, w, r) })
	mux.HandleFunc("/ws/chat", func(w http.ResponseWriter, r *http.Request) { ServeChat(h, w, r) })
	mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) { ServeCreateRoom(h, w, r) })
}
