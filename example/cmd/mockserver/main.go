// Standalone mock asset server for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/assetboard serve -c example/config.yaml
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

func main() {
	fmt.Println("Mock asset server starting on :9999")
	fmt.Println("GET /asset?id=<id> answers {\"results\":{\"item1\":<id>,\"item2\":...}}")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	var hits atomic.Int64

	http.HandleFunc("/asset", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		n := hits.Add(1)

		time.Sleep(time.Duration(50+rand.Intn(750)) * time.Millisecond)

		item2 := any(nil)
		if n%2 == 0 {
			item2 = fmt.Sprintf("hit-%d", n)
		}
		slog.Info("asset request", "id", id, "hit", n)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": map[string]any{
				"item1": id,
				"item2": item2,
			},
		})
	})

	if err := http.ListenAndServe(":9999", nil); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
