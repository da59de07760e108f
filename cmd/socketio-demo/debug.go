package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	socketio "github.com/sadewadee/socketio-client"
)

// newDebugServer builds the optional local HTTP server exposing liveness
// and connection status for the running demo client, mirroring the
// embedded server's router-per-concern layout.
func newDebugServer(addr string, client *socketio.Client, logger *slog.Logger) *http.Server {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/status", handleStatus(client)).Methods(http.MethodGet)

	return &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

type statusResponse struct {
	SID           string `json:"sid"`
	PendingAcks   int    `json:"pending_acks"`
	DriverRunning bool   `json:"driver_running"`
}

func handleStatus(client *socketio.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := statusResponse{
			SID:           client.SID(),
			PendingAcks:   client.PendingAckCount(),
			DriverRunning: client.Err() == nil,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func stopDebugServer(ctx context.Context, srv *http.Server, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("debug server shutdown error", "error", err)
	}
}
