package broadcast

import (
	"sync"

	"sprintdesk/internal/store"
)

// BoardUpdate is the grouped board state published after a task status
// change, keyed by status column.
type BoardUpdate struct {
	ProjectID string                  `json:"project_id"`
	Columns   map[string][]store.Task `json:"columns"`
}

// Hub fans board updates out to connected clients. Publishing is
// fire-and-forget: a slow or absent subscriber never blocks or fails the
// request that triggered the update.
type Hub struct {
	mu   sync.Mutex
	subs map[chan BoardUpdate]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan BoardUpdate]struct{})}
}

func (h *Hub) Subscribe() chan BoardUpdate {
	ch := make(chan BoardUpdate, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan BoardUpdate) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(update BoardUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- update:
		default:
			// Subscriber buffer full: drop the update rather than block.
		}
	}
}

// GroupTasksByStatus builds the column layout clients render.
func GroupTasksByStatus(tasks []store.Task) map[string][]store.Task {
	grouped := map[string][]store.Task{
		store.TaskStatusTodo:       {},
		store.TaskStatusInProgress: {},
		store.TaskStatusDone:       {},
	}
	for _, t := range tasks {
		grouped[t.Status] = append(grouped[t.Status], t)
	}
	return grouped
}
