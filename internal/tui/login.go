package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/taskdeck/internal/session"
)

type loginModel struct {
	session *session.Session
	width   int
	height  int

	submitting bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	email    *string
	password *string
	remember *bool
}

func newLoginModel(s *session.Session) loginModel {
	email, password := "", ""
	remember := false
	m := loginModel{
		session:  s,
		email:    &email,
		password: &password,
		remember: &remember,
	}
	m.buildForm()
	return m
}

func (m *loginModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *loginModel) buildForm() {
	*m.email = ""
	*m.password = ""
	*m.remember = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Your Email / Username").
				Placeholder("yourname@squareteam.com").
				Validate(session.ValidateEmail).
				Value(m.email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(session.ValidatePassword).
				Value(m.password),
			huh.NewConfirm().
				Title("Remember me").
				Value(m.remember),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m loginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			// Keep the screen open for another attempt.
			m.buildForm()
			return m, m.form.Init()
		}
		return m, nil
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitting = true
		email, password, remember := *m.email, *m.password, *m.remember
		sess := m.session
		return m, func() tea.Msg {
			return authDoneMsg{err: sess.Login(context.Background(), email, password, remember)}
		}
	}

	return m, cmd
}

func (m loginModel) view() string {
	title := titleStyle.Render("Sign In")
	subtitle := mutedStyle.Render("Just sign in if you have an account in here. Enjoy our Website")

	body := m.form.View()
	if m.submitting {
		body = mutedStyle.Render("Signing in...")
	}

	hint := mutedStyle.Render("ctrl+r: create an account  ctrl+c: quit")
	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", body, "", hint)

	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return panelStyle.Width(w).Render(content)
}
