package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"sync/atomic"
	"time"
)

// StartMockAssetServer runs a mock asset resource answering with a
// "results" payload. Responses take 50-800ms so overlapping fetches
// resolve out of order, and every fifth request fails with 502.
// Call this in a goroutine before starting AssetBoard.
func StartMockAssetServer(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/asset", mockAssetHandler(new(atomic.Int64)))

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}

func mockAssetHandler(hits *atomic.Int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		n := hits.Add(1)

		// simulate latency variance
		time.Sleep(time.Duration(50+rand.Intn(750)) * time.Millisecond)

		// every fifth request fails
		if n%5 == 0 {
			http.Error(w, "asset unavailable", http.StatusBadGateway)
			return
		}

		results := map[string]any{
			"item1": id,
			"item2": nil,
		}
		if n%2 == 0 {
			results["item2"] = time.Now().UTC().Format(time.RFC3339)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{"results": results}); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	}
}
