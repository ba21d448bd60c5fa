package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/export"
	"github.com/sadopc/taskdeck/internal/todo"
)

// dashboardModel is the end-user view: the personal todo list driven by the
// persisted filter state, with the selection overlay for bulk deletes.
type dashboardModel struct {
	cache     *todo.PageCache
	filters   *todo.FilterStore
	selection *todo.SelectionStore
	mutator   *todo.Mutator

	width  int
	height int

	todos     []api.Todo
	totalData int
	totalPage int
	cursor    int
	loading   bool
	seq       int

	formActive bool
	form       *huh.Form
	formType   string // "add", "search"

	// Form field pointers (survive value copies)
	formItem  *string
	formQuery *string

	exportPicking bool
	exportCursor  int
}

func newDashboardModel(cache *todo.PageCache, filters *todo.FilterStore, sel *todo.SelectionStore, mut *todo.Mutator) dashboardModel {
	item, query := "", ""
	return dashboardModel{
		cache:     cache,
		filters:   filters,
		selection: sel,
		mutator:   mut,
		formItem:  &item,
		formQuery: &query,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

// startFetch kicks off a page load for the current filters. The sequence
// number lets stale responses be discarded if the filters move on before
// the fetch resolves.
func (d dashboardModel) startFetch() (dashboardModel, tea.Cmd) {
	d.seq++
	d.loading = true
	seq := d.seq
	f := d.filters.Get()
	cache := d.cache
	return d, func() tea.Msg {
		page, err := cache.Page(context.Background(), todo.TopicTodos, f)
		return todosMsg{topic: todo.TopicTodos, seq: seq, page: page, err: err}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case todosMsg:
		if msg.topic != todo.TopicTodos || msg.seq != d.seq {
			return d, nil
		}
		d.loading = false
		if msg.err != nil {
			// The list stays exactly as it was; the error has already
			// been surfaced through the notice feed.
			return d, nil
		}
		d.todos = msg.page.Entries
		d.totalData = msg.page.TotalData
		d.totalPage = msg.page.TotalPage
		d.cursor = clamp(d.cursor, 0, max(0, len(d.todos)-1))
		return d, nil

	case mutationDoneMsg:
		if msg.err != nil {
			return d, nil
		}
		return d.startFetch()

	case exportDoneMsg:
		d.exportPicking = false
		return d, nil

	case tea.KeyMsg:
		if d.exportPicking {
			return d.updateExportPicker(msg)
		}
		if d.formActive && d.form != nil {
			return d.updateForm(msg)
		}
		return d.updateList(msg)
	}
	return d, nil
}

func (d dashboardModel) updateList(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.todos)-1 {
			d.cursor++
		}

	case key.Matches(msg, keys.New):
		return d.showAddForm()

	case key.Matches(msg, keys.Search):
		return d.showSearchForm()

	case key.Matches(msg, keys.ToggleDone):
		if len(d.todos) > 0 {
			t := d.todos[d.cursor]
			mut := d.mutator
			return d, func() tea.Msg {
				return mutationDoneMsg{err: mut.Mark(context.Background(), t.ID, !t.IsDone)}
			}
		}

	case key.Matches(msg, keys.Select):
		if len(d.todos) > 0 {
			d.selection.Toggle(d.todos[d.cursor].ID)
		}

	case key.Matches(msg, keys.Delete):
		if len(d.todos) > 0 {
			id := d.todos[d.cursor].ID
			mut := d.mutator
			return d, func() tea.Msg {
				return mutationDoneMsg{err: mut.Delete(context.Background(), id)}
			}
		}

	case key.Matches(msg, keys.DeleteSelected):
		if d.selection.Len() > 0 {
			ids := d.selection.IDs()
			mut := d.mutator
			return d, func() tea.Msg {
				return mutationDoneMsg{err: mut.DeleteMany(context.Background(), ids)}
			}
		}

	case key.Matches(msg, keys.Status):
		next := (d.filters.Get().Status + 1) % 3
		d.filters.Set(todo.FilterPatch{Status: todo.PatchStatus(next), Page: todo.PatchInt(1)})
		d.cursor = 0
		return d.startFetch()

	case key.Matches(msg, keys.ClearFilters):
		d.filters.Clear()
		d.cursor = 0
		return d.startFetch()

	case key.Matches(msg, keys.PrevPage):
		f := d.filters.Get()
		if f.Page > 1 {
			d.filters.Set(todo.FilterPatch{Page: todo.PatchInt(f.Page - 1)})
			d.cursor = 0
			return d.startFetch()
		}

	case key.Matches(msg, keys.NextPage):
		f := d.filters.Get()
		if d.totalPage > 0 && f.Page < d.totalPage {
			d.filters.Set(todo.FilterPatch{Page: todo.PatchInt(f.Page + 1)})
			d.cursor = 0
			return d.startFetch()
		}

	case key.Matches(msg, keys.Refresh):
		d.cache.Invalidate(todo.TopicTodos)
		return d.startFetch()

	case key.Matches(msg, keys.Export):
		if len(d.todos) > 0 {
			d.exportPicking = true
			d.exportCursor = 0
		}
	}
	return d, nil
}

func (d dashboardModel) showAddForm() (dashboardModel, tea.Cmd) {
	*d.formItem = ""
	d.formType = "add"
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Add a new task").
				Validate(todo.ValidateItem).
				Value(d.formItem),
		),
	).WithShowHelp(true).WithShowErrors(true)
	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showSearchForm() (dashboardModel, tea.Cmd) {
	*d.formQuery = d.filters.Get().Search
	d.formType = "search"
	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search").
				Value(d.formQuery),
		),
	).WithShowHelp(true).WithShowErrors(true)
	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		switch d.formType {
		case "add":
			item := *d.formItem
			mut := d.mutator
			return d, func() tea.Msg {
				return mutationDoneMsg{err: mut.Create(context.Background(), item)}
			}
		case "search":
			// Changing the search resets to the first page.
			d.filters.Set(todo.FilterPatch{Search: todo.PatchString(*d.formQuery), Page: todo.PatchInt(1)})
			d.cursor = 0
			return d.startFetch()
		}
	}

	return d, cmd
}

func (d dashboardModel) updateExportPicker(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.exportCursor > 0 {
			d.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if d.exportCursor < 1 {
			d.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		d.exportPicking = false
		return d, d.doExport(d.exportCursor)
	case key.Matches(msg, keys.Back):
		d.exportPicking = false
	}
	return d, nil
}

func (d dashboardModel) doExport(format int) tea.Cmd {
	todos := d.todos
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		var err error
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("taskdeck-export-%s.csv", dateStr))
			err = export.ToCSV(todos, path)
		} else {
			path = filepath.Join(home, fmt.Sprintf("taskdeck-export-%s.json", dateStr))
			err = export.ToJSON(todos, path)
		}
		return exportDoneMsg{path: path, err: err}
	}
}

func (d dashboardModel) view() string {
	w := d.width - 4
	if w < 20 {
		w = 20
	}

	if d.formActive && d.form != nil {
		title := titleStyle.Render("New Todo")
		if d.formType == "search" {
			title = titleStyle.Render("Search Todos")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if d.exportPicking {
		return d.renderExportPicker(w)
	}

	f := d.filters.Get()

	var rows []string
	rows = append(rows, titleStyle.Render("To Do"))
	rows = append(rows, d.renderFilterLine(f))
	rows = append(rows, "")

	switch {
	case d.loading && len(d.todos) == 0:
		rows = append(rows, mutedStyle.Render("Loading todo..."))
	case len(d.todos) == 0:
		rows = append(rows, mutedStyle.Render("No todo found"))
	default:
		for i, t := range d.todos {
			rows = append(rows, d.renderRow(i, t))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  x: done  space: select  d: delete  D: delete selected  /: search  f: filter"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderFilterLine(f todo.Filters) string {
	parts := []string{
		fmt.Sprintf("Page %d/%d", f.Page, max(1, d.totalPage)),
		f.Status.Label(),
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", f.Search))
	}
	if n := d.selection.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if d.loading {
		parts = append(parts, "loading...")
	}
	return mutedStyle.Render(strings.Join(parts, " · "))
}

func (d dashboardModel) renderRow(i int, t api.Todo) string {
	cursor := "  "
	style := normalItemStyle
	if i == d.cursor {
		cursor = "> "
		style = selectedItemStyle
	}

	sel := "[ ]"
	if d.selection.Has(t.ID) {
		sel = highlightStyle.Render("[•]")
	}

	check := "○"
	item := t.Item
	if t.IsDone {
		check = successStyle.Render("✓")
		item = doneStyle.Render(truncate(t.Item, 48))
	} else {
		item = style.Render(truncate(t.Item, 48))
	}

	age := mutedStyle.Render(relTime(t.CreatedAt))
	return fmt.Sprintf("%s%s %s %s  %s", cursor, sel, check, item, age)
}

func (d dashboardModel) renderExportPicker(w int) string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == d.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
