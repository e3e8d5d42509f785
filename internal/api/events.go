package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// EventsHandler streams board updates to the client over SSE. Each task
// status change arrives as one `data:` frame carrying the grouped board.
func (h *APIHandler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	updates := h.hub.Subscribe()
	defer h.hub.Unsubscribe(updates)

	for {
		select {
		case <-r.Context().Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			payload, err := json.Marshal(update)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: taskUpdated\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
