package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"mighty/apps/server/internal/hub"
	"mighty/apps/server/internal/session"
	"mighty/apps/server/internal/storage"
)

func main() {
	store, storageMode, err := storage.NewStoreFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init storage: %v", err)
	}
	defer store.Close()

	h := hub.New(store, storage.NewLinearRatingPolicy())

	mux := http.NewServeMux()
	session.RegisterRoutes(mux, h)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := strings.TrimSpace(os.Getenv("SERVER_ADDR"))
	if addr == "" {
		addr = ":18080"
	}
	log.Printf("[Server] Storage mode: %s", storageMode)
	log.Printf("[Server] Starting WebSocket server on %s", addr)
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
