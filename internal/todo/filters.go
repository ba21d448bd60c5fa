package todo

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/state"
)

// Status is the three-valued done filter: unset, done or undone.
type Status int

const (
	StatusAny Status = iota
	StatusDone
	StatusUndone
)

func (s Status) Label() string {
	switch s {
	case StatusDone:
		return "Done"
	case StatusUndone:
		return "Undone"
	}
	return "All Status"
}

// IsDone converts the status to the backend's optional bool filter.
func (s Status) IsDone() *bool {
	switch s {
	case StatusDone:
		b := true
		return &b
	case StatusUndone:
		b := false
		return &b
	}
	return nil
}

// Filters are the query parameters controlling which page of todos is
// fetched and how it is ordered.
type Filters struct {
	Status    Status `json:"status"`
	Search    string `json:"search,omitempty"`
	Page      int    `json:"page"`
	Rows      int    `json:"rows"`
	OrderKey  string `json:"orderKey"`
	OrderRule string `json:"orderRule"`
}

func DefaultFilters() Filters {
	return Filters{
		Page:      1,
		Rows:      10,
		OrderKey:  "createdAt",
		OrderRule: "desc",
	}
}

// Query converts the filters to the remote list query.
func (f Filters) Query() api.ListQuery {
	return api.ListQuery{
		Page:      f.Page,
		Rows:      f.Rows,
		OrderKey:  f.OrderKey,
		OrderRule: f.OrderRule,
		IsDone:    f.Status.IsDone(),
		Search:    f.Search,
	}
}

// Key is the canonical cache-key fragment for this filter value. Equal
// filters produce equal keys.
func (f Filters) Key() string {
	return fmt.Sprintf("p%d|r%d|%s|%s|d%d|q%s", f.Page, f.Rows, f.OrderKey, f.OrderRule, f.Status, f.Search)
}

// FilterPatch is a partial update; nil fields are left untouched.
type FilterPatch struct {
	Status    *Status
	Search    *string
	Page      *int
	Rows      *int
	OrderKey  *string
	OrderRule *string
}

// FilterStore holds the filter state for one view. With a shadow it mirrors
// every mutation to persistence; without one (the admin copy) it is purely
// in-memory.
type FilterStore struct {
	mu      sync.Mutex
	filters Filters
	shadow  *state.Store
	key     string
}

// NewFilterStore creates the store with defaults and, when a shadow is
// given, restores the last persisted value. An unreadable shadow falls back
// to defaults.
func NewFilterStore(shadow *state.Store, key string) *FilterStore {
	fs := &FilterStore{filters: DefaultFilters(), shadow: shadow, key: key}
	if shadow == nil {
		return fs
	}
	raw, ok, err := shadow.Get(key)
	if err != nil || !ok {
		return fs
	}
	var f Filters
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return fs
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Rows < 1 {
		f.Rows = DefaultFilters().Rows
	}
	fs.filters = f
	return fs
}

func (fs *FilterStore) Get() Filters {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.filters
}

// Set shallow-merges the patch into the current filters. Changing search or
// status does not implicitly reset the page; callers include Page
// explicitly when they want that.
func (fs *FilterStore) Set(p FilterPatch) {
	fs.mu.Lock()
	if p.Status != nil {
		fs.filters.Status = *p.Status
	}
	if p.Search != nil {
		fs.filters.Search = *p.Search
	}
	if p.Page != nil && *p.Page >= 1 {
		fs.filters.Page = *p.Page
	}
	if p.Rows != nil && *p.Rows >= 1 {
		fs.filters.Rows = *p.Rows
	}
	if p.OrderKey != nil {
		fs.filters.OrderKey = *p.OrderKey
	}
	if p.OrderRule != nil {
		fs.filters.OrderRule = *p.OrderRule
	}
	f := fs.filters
	fs.mu.Unlock()
	fs.persist(f)
}

// Clear resets to defaults.
func (fs *FilterStore) Clear() {
	fs.mu.Lock()
	fs.filters = DefaultFilters()
	f := fs.filters
	fs.mu.Unlock()
	fs.persist(f)
}

func (fs *FilterStore) persist(f Filters) {
	if fs.shadow == nil {
		return
	}
	if raw, err := json.Marshal(f); err == nil {
		fs.shadow.Set(fs.key, string(raw))
	}
}

// Helpers for building patches inline.

func PatchStatus(s Status) *Status { return &s }
func PatchString(s string) *string { return &s }
func PatchInt(n int) *int          { return &n }
