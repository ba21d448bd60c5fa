package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/session"
	"github.com/sadopc/taskdeck/internal/todo"
)

// adminModel browses every user's todos. The remote query is issued with
// the status filter cleared; status filtering happens client-side over the
// fetched page, with selection membership counting as done. Counts are
// therefore page-local. Search term and status filter live only in this
// model and are not persisted; pagination is shared with the dashboard.
type adminModel struct {
	session   *session.Session
	cache     *todo.PageCache
	filters   *todo.FilterStore
	selection *todo.SelectionStore

	width  int
	height int

	todos     []api.Todo // raw page, unfiltered
	totalPage int
	cursor    int
	loading   bool
	seq       int

	searchTerm string
	status     todo.Status

	formActive bool
	form       *huh.Form
	formQuery  *string

	chart      barchart.Model
	chartWidth int
}

func newAdminModel(sess *session.Session, cache *todo.PageCache, filters *todo.FilterStore, sel *todo.SelectionStore) adminModel {
	query := ""
	return adminModel{
		session:    sess,
		cache:      cache,
		filters:    filters,
		selection:  sel,
		formQuery:  &query,
		chart:      barchart.New(24, 8),
		chartWidth: 24,
	}
}

func (a *adminModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

func (a adminModel) startFetch() (adminModel, tea.Cmd) {
	a.seq++
	a.loading = true
	seq := a.seq

	// Server always returns all statuses for this view.
	f := a.filters.Get()
	f.Search = a.searchTerm
	f.Status = todo.StatusAny

	cache := a.cache
	return a, func() tea.Msg {
		page, err := cache.Page(context.Background(), todo.TopicAdminTodos, f)
		return todosMsg{topic: todo.TopicAdminTodos, seq: seq, page: page, err: err}
	}
}

func (a adminModel) update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case todosMsg:
		if msg.topic != todo.TopicAdminTodos || msg.seq != a.seq {
			return a, nil
		}
		a.loading = false
		if msg.err != nil {
			return a, nil
		}
		a.todos = msg.page.Entries
		a.totalPage = msg.page.TotalPage
		a.cursor = 0
		a.buildChart()
		return a, nil

	case tea.KeyMsg:
		if a.formActive && a.form != nil {
			return a.updateForm(msg)
		}
		return a.updateList(msg)
	}
	return a, nil
}

func (a adminModel) updateList(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, keys.Down):
		if a.cursor < len(a.visible())-1 {
			a.cursor++
		}

	case key.Matches(msg, keys.Search):
		*a.formQuery = a.searchTerm
		a.form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Search ...").Value(a.formQuery),
			),
		).WithShowHelp(true).WithShowErrors(true)
		a.formActive = true
		return a, a.form.Init()

	case key.Matches(msg, keys.Status):
		// Pure client-side filter; no refetch.
		a.status = (a.status + 1) % 3
		a.cursor = 0
		a.buildChart()

	case key.Matches(msg, keys.PrevPage):
		f := a.filters.Get()
		if f.Page > 1 {
			a.filters.Set(todo.FilterPatch{Page: todo.PatchInt(f.Page - 1)})
			return a.startFetch()
		}

	case key.Matches(msg, keys.NextPage):
		f := a.filters.Get()
		if a.totalPage > 0 && f.Page < a.totalPage {
			a.filters.Set(todo.FilterPatch{Page: todo.PatchInt(f.Page + 1)})
			return a.startFetch()
		}

	case key.Matches(msg, keys.Refresh):
		a.cache.Invalidate(todo.TopicAdminTodos)
		return a.startFetch()
	}
	return a, nil
}

func (a adminModel) updateForm(msg tea.Msg) (adminModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			a.formActive = false
			a.form = nil
			return a, nil
		}
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		a.formActive = false
		a.searchTerm = strings.TrimSpace(*a.formQuery)
		a.filters.Set(todo.FilterPatch{Page: todo.PatchInt(1)})
		return a.startFetch()
	}

	return a, cmd
}

// visible applies the page-local status filter.
func (a adminModel) visible() []api.Todo {
	return todo.FilterByStatus(a.todos, a.status, a.selection)
}

func (a *adminModel) buildChart() {
	a.chartWidth = 24
	if a.width > 80 {
		a.chartWidth = 30
	}
	a.chart = barchart.New(a.chartWidth, 8)

	done, pending := 0, 0
	for _, t := range a.todos {
		if todo.VisibleDone(t, a.selection) {
			done++
		} else {
			pending++
		}
	}

	bars := []barchart.BarData{
		{
			Label: "Done",
			Values: []barchart.BarValue{
				{Name: "Done", Value: float64(done), Style: lipgloss.NewStyle().Foreground(colorSuccess)},
			},
		},
		{
			Label: "Pending",
			Values: []barchart.BarValue{
				{Name: "Pending", Value: float64(pending), Style: lipgloss.NewStyle().Foreground(colorError)},
			},
		},
	}

	a.chart.PushAll(bars)
	a.chart.Draw()
}

func (a adminModel) view() string {
	w := a.width - 4
	if w < 20 {
		w = 20
	}

	if a.formActive && a.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Search All Todo"), "", a.form.View())
		return panelStyle.Width(w).Render(content)
	}

	visible := a.visible()
	f := a.filters.Get()

	var rows []string
	rows = append(rows, titleStyle.Render("All Todo"))

	meta := []string{
		fmt.Sprintf("Page %d/%d", f.Page, max(1, a.totalPage)),
		a.status.Label(),
	}
	if a.searchTerm != "" {
		meta = append(meta, fmt.Sprintf("search %q", a.searchTerm))
	}
	if a.loading {
		meta = append(meta, "loading...")
	}
	rows = append(rows, mutedStyle.Render(strings.Join(meta, " · ")))
	rows = append(rows, "")

	if len(visible) == 0 && !a.loading {
		rows = append(rows, mutedStyle.Render("No todo found"))
	} else {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-20s %-40s %s", "Name", "To Do", "Status")))
		for i, t := range visible {
			rows = append(rows, a.renderRow(i, t))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("Showing %d of %d todo", len(visible), len(visible))))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  /: search  f: status  ←/→: page  r: refresh  esc: dashboard"))

	table := panelStyle.Width(max(20, w-a.chartWidth-6)).Render(strings.Join(rows, "\n"))

	chartTitle := titleStyle.Render("Status Overview")
	chartPanel := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, chartTitle, "", a.chart.View()))

	return lipgloss.JoinHorizontal(lipgloss.Top, table, " ", chartPanel)
}

func (a adminModel) renderRow(i int, t api.Todo) string {
	cursor := "  "
	style := normalItemStyle
	if i == a.cursor {
		cursor = "> "
		style = selectedItemStyle
	}

	name := t.UserID
	if me := a.session.User(); me != nil && me.ID == t.UserID {
		name = me.FullName
	}

	done := todo.VisibleDone(t, a.selection)
	item := truncate(t.Item, 38)
	if done {
		item = doneStyle.Render(item)
	} else {
		item = style.Render(item)
	}

	badge := pendingBadgeStyle.Render("✗ Pending")
	if done {
		badge = doneBadgeStyle.Render("✓ Success")
	}

	return fmt.Sprintf("%s%-20s %-40s %s", cursor, truncate(name, 20), item, badge)
}
