package todo

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/state"
)

// SelectionStore is the client-only overlay of todo ids flagged for bulk
// action. Membership is independent of the server's done flag and toggling
// never calls the remote API. Persisted across restarts.
type SelectionStore struct {
	mu     sync.Mutex
	ids    map[string]struct{}
	shadow *state.Store
}

// NewSelectionStore restores the persisted selection; an absent or
// unreadable shadow means an empty set.
func NewSelectionStore(shadow *state.Store) *SelectionStore {
	ss := &SelectionStore{ids: make(map[string]struct{}), shadow: shadow}
	if shadow == nil {
		return ss
	}
	raw, ok, err := shadow.Get(state.KeySelectedTodos)
	if err != nil || !ok {
		return ss
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return ss
	}
	for _, id := range ids {
		ss.ids[id] = struct{}{}
	}
	return ss
}

// Toggle flips membership of id.
func (ss *SelectionStore) Toggle(id string) {
	ss.mu.Lock()
	if _, ok := ss.ids[id]; ok {
		delete(ss.ids, id)
	} else {
		ss.ids[id] = struct{}{}
	}
	ss.mu.Unlock()
	ss.persist()
}

// Remove drops id from the set if present. Used when the corresponding todo
// has been deleted so the set never references a nonexistent id.
func (ss *SelectionStore) Remove(id string) {
	ss.mu.Lock()
	delete(ss.ids, id)
	ss.mu.Unlock()
	ss.persist()
}

// SetAll replaces the whole set.
func (ss *SelectionStore) SetAll(ids []string) {
	ss.mu.Lock()
	ss.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		ss.ids[id] = struct{}{}
	}
	ss.mu.Unlock()
	ss.persist()
}

func (ss *SelectionStore) Clear() {
	ss.SetAll(nil)
}

func (ss *SelectionStore) Has(id string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	_, ok := ss.ids[id]
	return ok
}

// IDs returns the members in sorted order.
func (ss *SelectionStore) IDs() []string {
	ss.mu.Lock()
	ids := make([]string, 0, len(ss.ids))
	for id := range ss.ids {
		ids = append(ids, id)
	}
	ss.mu.Unlock()
	sort.Strings(ids)
	return ids
}

func (ss *SelectionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.ids)
}

func (ss *SelectionStore) persist() {
	if ss.shadow == nil {
		return
	}
	raw, err := json.Marshal(ss.IDs())
	if err != nil {
		return
	}
	ss.shadow.Set(state.KeySelectedTodos, string(raw))
}

// VisibleDone reports how a todo is displayed: done on the server or
// selected locally.
func VisibleDone(t api.Todo, sel *SelectionStore) bool {
	return t.IsDone || sel.Has(t.ID)
}

// FilterByStatus applies the page-local status filter used by the admin
// view: selection membership counts as done. StatusAny returns the page
// unchanged.
func FilterByStatus(entries []api.Todo, status Status, sel *SelectionStore) []api.Todo {
	if status == StatusAny {
		return entries
	}
	var out []api.Todo
	for _, t := range entries {
		done := VisibleDone(t, sel)
		if (status == StatusDone) == done {
			out = append(out, t)
		}
	}
	return out
}
