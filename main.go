package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/notify"
	"github.com/sadopc/taskdeck/internal/session"
	"github.com/sadopc/taskdeck/internal/state"
	"github.com/sadopc/taskdeck/internal/todo"
	"github.com/sadopc/taskdeck/internal/tui"
)

const defaultAPIURL = "https://fe-test-api.nwappservice.com"

func main() {
	dbPath, err := state.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	st, err := state.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	baseURL := os.Getenv("TASKDECK_API_URL")
	if baseURL == "" {
		baseURL = defaultAPIURL
	}

	feed := notify.NewFeed()
	client := api.NewClient(baseURL, feed)
	sess := session.New(client, st, feed)
	client.SetTokenSource(sess.Token)
	sess.Restore()

	filters := todo.NewFilterStore(st, state.KeyDashboardFilters)
	selection := todo.NewSelectionStore(st)
	cache := todo.NewPageCache(client, 0)
	mutator := todo.NewMutator(client, cache, selection, feed)

	app := tui.NewApp(tui.Deps{
		Client:    client,
		Session:   sess,
		Filters:   filters,
		Selection: selection,
		Cache:     cache,
		Mutator:   mutator,
		Feed:      feed,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
