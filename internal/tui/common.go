package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/notify"
)

// screen is the currently active top-level view.
type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenDashboard
	screenAdmin
)

// --- Messages ---

type noticeMsg notify.Notice

type sessionExpiredMsg struct{}

// authDoneMsg reports the outcome of a login or register submission.
type authDoneMsg struct {
	err error
}

type loggedOutMsg struct{}

// todosMsg carries one fetched page. seq lets a view discard results that
// arrive after the filters moved on.
type todosMsg struct {
	topic string
	seq   int
	page  *api.TodoPage
	err   error
}

// mutationDoneMsg reports a completed write; the cache is already
// invalidated when err is nil.
type mutationDoneMsg struct {
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}

type verifyDoneMsg struct{}

// --- Helpers ---

func truncate(s string, max int) string {
	if max <= 1 || len([]rune(s)) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}

// relTime renders an RFC3339 timestamp as a short relative age.
func relTime(stamp string) string {
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
