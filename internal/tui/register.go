package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/taskdeck/internal/session"
)

type registerModel struct {
	session *session.Session
	width   int
	height  int

	submitting bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	firstName   *string
	lastName    *string
	phone       *string
	country     *string
	email       *string
	password    *string
	confirm     *string
	description *string
}

func newRegisterModel(s *session.Session) registerModel {
	var firstName, lastName, phone, country, email, password, confirm, description string
	m := registerModel{
		session:     s,
		firstName:   &firstName,
		lastName:    &lastName,
		phone:       &phone,
		country:     &country,
		email:       &email,
		password:    &password,
		confirm:     &confirm,
		description: &description,
	}
	m.buildForm()
	return m
}

func (m *registerModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

func (m *registerModel) buildForm() {
	*m.firstName = ""
	*m.lastName = ""
	*m.phone = ""
	*m.country = ""
	*m.email = ""
	*m.password = ""
	*m.confirm = ""
	*m.description = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First Name").
				Validate(required("First name is required")).
				Value(m.firstName),
			huh.NewInput().
				Title("Last Name").
				Validate(required("Last name is required")).
				Value(m.lastName),
			huh.NewInput().
				Title("Phone Number").
				Validate(func(s string) error {
					digits := 0
					for _, r := range s {
						if r >= '0' && r <= '9' {
							digits++
						}
					}
					if digits < 10 {
						return errors.New("Phone number must be at least 10 digits")
					}
					return nil
				}).
				Value(m.phone),
			huh.NewInput().
				Title("Country").
				Validate(required("Country is required")).
				Value(m.country),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("yourname@squareteam.com").
				Validate(required("Email is required")).
				Value(m.email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(session.ValidatePassword).
				Value(m.password),
			huh.NewInput().
				Title("Confirm Password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if len(s) < 6 {
						return errors.New("Confirm password must be at least 6 characters")
					}
					if s != *m.password {
						return errors.New("Passwords don't match")
					}
					return nil
				}).
				Value(m.confirm),
			huh.NewInput().
				Title("About You").
				Validate(required("Description is required")).
				Value(m.description),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m registerModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m registerModel) update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
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
		data := session.RegisterData{
			FirstName:       *m.firstName,
			LastName:        *m.lastName,
			Phone:           *m.phone,
			Country:         *m.country,
			Email:           *m.email,
			Password:        *m.password,
			ConfirmPassword: *m.confirm,
			Description:     *m.description,
		}
		sess := m.session
		return m, func() tea.Msg {
			return authDoneMsg{err: sess.Register(context.Background(), data)}
		}
	}

	return m, cmd
}

func (m registerModel) view() string {
	title := titleStyle.Render("Register")
	subtitle := mutedStyle.Render("Let's Sign up first for enter into Square Website. Uh She Up!")

	body := m.form.View()
	if m.submitting {
		body = mutedStyle.Render("Creating account...")
	}

	hint := mutedStyle.Render("esc: back to sign in  ctrl+c: quit")
	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", body, "", hint)

	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return panelStyle.Width(w).Render(content)
}
