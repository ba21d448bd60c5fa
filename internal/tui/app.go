package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/notify"
	"github.com/sadopc/taskdeck/internal/session"
	"github.com/sadopc/taskdeck/internal/todo"
)

// Deps holds the wired application services the TUI runs against.
type Deps struct {
	Client    *api.Client
	Session   *session.Session
	Filters   *todo.FilterStore
	Selection *todo.SelectionStore
	Cache     *todo.PageCache
	Mutator   *todo.Mutator
	Feed      *notify.Feed
}

type clearStatusMsg struct{}

// App is the root model. It owns screen routing, the notice ticker line,
// and the forced return to the sign-in screen when the backend rejects
// the stored token.
type App struct {
	deps    Deps
	expired chan struct{}

	current   screen
	login     loginModel
	register  registerModel
	dashboard dashboardModel
	admin     adminModel

	help     help.Model
	showHelp bool
	status   *notify.Notice

	// Prepared in NewApp; Init has a value receiver and could not keep
	// the model changes a fetch start makes.
	initCmd tea.Cmd

	width  int
	height int
}

func NewApp(deps Deps) App {
	a := App{
		deps:      deps,
		expired:   make(chan struct{}, 1),
		login:     newLoginModel(deps.Session),
		register:  newRegisterModel(deps.Session),
		dashboard: newDashboardModel(deps.Cache, deps.Filters, deps.Selection, deps.Mutator),
		admin:     newAdminModel(deps.Session, deps.Cache, deps.Filters, deps.Selection),
		help:      help.New(),
	}

	// A 401 from any call tears the session down and bounces the UI back
	// to sign-in, mirroring what happens when the token expires server-side.
	expired := a.expired
	sess := deps.Session
	deps.Client.SetUnauthorizedHook(func() {
		sess.Forget()
		select {
		case expired <- struct{}{}:
		default:
		}
	})

	if deps.Session.Authenticated() {
		a.current = screenDashboard
		var fetch tea.Cmd
		a.dashboard, fetch = a.dashboard.startFetch()
		a.initCmd = tea.Batch(fetch, func() tea.Msg {
			// Best effort; a dead token surfaces through the 401 hook.
			_ = sess.Verify(context.Background())
			return verifyDoneMsg{}
		})
	} else {
		a.initCmd = a.login.Init()
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.listenNotices(), a.listenExpired(), a.initCmd)
}

func (a App) listenNotices() tea.Cmd {
	feed := a.deps.Feed
	return func() tea.Msg {
		return noticeMsg(<-feed.Next())
	}
}

func (a App) listenExpired() tea.Cmd {
	expired := a.expired
	return func() tea.Msg {
		<-expired
		return sessionExpiredMsg{}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.login.setSize(msg.Width, msg.Height)
		a.register.setSize(msg.Width, msg.Height)
		a.dashboard.setSize(msg.Width, msg.Height)
		a.admin.setSize(msg.Width, msg.Height)
		return a, nil

	case noticeMsg:
		n := notify.Notice(msg)
		a.status = &n
		return a, tea.Batch(a.listenNotices(), tea.Tick(4*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		}))

	case clearStatusMsg:
		a.status = nil
		return a, nil

	case sessionExpiredMsg:
		a.current = screenLogin
		a.login = newLoginModel(a.deps.Session)
		a.login.setSize(a.width, a.height)
		return a, tea.Batch(a.listenExpired(), a.login.Init())

	case authDoneMsg:
		switch a.current {
		case screenLogin:
			var cmd tea.Cmd
			a.login, cmd = a.login.update(msg)
			if msg.err == nil {
				a.current = screenDashboard
				var fetch tea.Cmd
				a.dashboard, fetch = a.dashboard.startFetch()
				return a, fetch
			}
			return a, cmd
		case screenRegister:
			var cmd tea.Cmd
			a.register, cmd = a.register.update(msg)
			if msg.err == nil {
				// Registration signs the account in.
				a.current = screenDashboard
				var fetch tea.Cmd
				a.dashboard, fetch = a.dashboard.startFetch()
				return a, fetch
			}
			return a, cmd
		}
		return a, nil

	case loggedOutMsg:
		a.current = screenLogin
		a.login = newLoginModel(a.deps.Session)
		a.login.setSize(a.width, a.height)
		return a, a.login.Init()

	case todosMsg:
		switch msg.topic {
		case todo.TopicTodos:
			var cmd tea.Cmd
			a.dashboard, cmd = a.dashboard.update(msg)
			return a, cmd
		case todo.TopicAdminTodos:
			var cmd tea.Cmd
			a.admin, cmd = a.admin.update(msg)
			return a, cmd
		}
		return a, nil

	case mutationDoneMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case exportDoneMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		n := notify.Notice{Text: "Exported to " + msg.path}
		if msg.err != nil {
			n = notify.Notice{Text: "Failed to export todos", IsError: true}
		}
		a.status = &n
		return a, tea.Batch(cmd, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		}))

	case verifyDoneMsg:
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.route(msg)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, even inside a form.
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.typing() {
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			return a, nil
		}
	}

	switch a.current {
	case screenLogin:
		if msg.String() == "ctrl+r" {
			a.current = screenRegister
			a.register = newRegisterModel(a.deps.Session)
			a.register.setSize(a.width, a.height)
			return a, a.register.Init()
		}

	case screenRegister:
		if msg.String() == "esc" && !a.register.submitting {
			a.current = screenLogin
			a.login = newLoginModel(a.deps.Session)
			a.login.setSize(a.width, a.height)
			return a, a.login.Init()
		}

	case screenDashboard:
		if !a.typing() {
			switch {
			case key.Matches(msg, keys.Admin):
				a.current = screenAdmin
				var cmd tea.Cmd
				a.admin, cmd = a.admin.startFetch()
				return a, cmd
			case key.Matches(msg, keys.Logout):
				sess := a.deps.Session
				return a, func() tea.Msg {
					sess.Logout()
					return loggedOutMsg{}
				}
			}
		}

	case screenAdmin:
		if !a.admin.formActive {
			switch {
			case key.Matches(msg, keys.Back):
				a.current = screenDashboard
				var cmd tea.Cmd
				a.dashboard, cmd = a.dashboard.startFetch()
				return a, cmd
			case key.Matches(msg, keys.Logout):
				sess := a.deps.Session
				return a, func() tea.Msg {
					sess.Logout()
					return loggedOutMsg{}
				}
			}
		}
	}

	return a.route(msg)
}

// typing reports whether the active screen is capturing text input, in
// which case single-letter shortcuts must pass through untouched.
func (a App) typing() bool {
	switch a.current {
	case screenLogin, screenRegister:
		return true
	case screenDashboard:
		return a.dashboard.formActive || a.dashboard.exportPicking
	case screenAdmin:
		return a.admin.formActive
	}
	return false
}

func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.current {
	case screenLogin:
		a.login, cmd = a.login.update(msg)
	case screenRegister:
		a.register, cmd = a.register.update(msg)
	case screenDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case screenAdmin:
		a.admin, cmd = a.admin.update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	var body string
	switch a.current {
	case screenLogin:
		body = a.login.view()
	case screenRegister:
		body = a.register.view()
	case screenDashboard:
		body = a.dashboard.view()
	case screenAdmin:
		body = a.admin.view()
	}

	sections := []string{a.renderHeader(), body, a.renderFooter()}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) renderHeader() string {
	title := titleStyle.Render("taskdeck")

	if !a.deps.Session.Authenticated() {
		return headerStyle.Render(title)
	}

	tabs := []string{
		a.renderTab("To Do", screenDashboard),
		a.renderTab("All Todo", screenAdmin),
	}

	who := ""
	if u := a.deps.Session.User(); u != nil {
		who = mutedStyle.Render(u.FullName)
	}

	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Center,
		title, "  ", strings.Join(tabs, " "), "  ", who))
}

func (a App) renderTab(label string, s screen) string {
	if a.current == s {
		return activeTabStyle.Render(label)
	}
	return inactiveTabStyle.Render(label)
}

func (a App) renderFooter() string {
	if a.status != nil {
		style := successStyle
		if a.status.IsError {
			style = errorStyle
		}
		return footerStyle.Render(style.Render(a.status.Text))
	}
	if a.showHelp {
		return footerStyle.Render(a.help.FullHelpView(keys.FullHelp()))
	}
	return footerStyle.Render(a.help.ShortHelpView(keys.ShortHelp()))
}

var _ tea.Model = App{}
