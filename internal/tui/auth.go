package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avellar/dermterm/pkg/client"
	"github.com/avellar/dermterm/pkg/domain"
)

type authTab int

const (
	tabLogin authTab = iota
	tabRegister
)

type authField int

const (
	afName authField = iota
	afEmail
	afPassword
	afConfirm
	authNumFields
)

func (f authField) label() string {
	switch f {
	case afName:
		return "Full name"
	case afEmail:
		return "Email"
	case afPassword:
		return "Password"
	default:
		return "Confirm password"
	}
}

// key returns the matching validation field name.
func (f authField) key() string {
	switch f {
	case afName:
		return domain.FieldName
	case afEmail:
		return domain.FieldEmail
	case afPassword:
		return domain.FieldPassword
	default:
		return domain.FieldConfirm
	}
}

// authResultMsg carries the outcome of a login or register call.
type authResultMsg struct {
	user     *domain.User
	err      error
	register bool
}

type authModel struct {
	client    *client.Client
	tab       authTab
	fields    [authNumFields]string
	focus     authField
	fieldErrs domain.FieldErrors
	busy      bool
}

func newAuthModel(c *client.Client) authModel {
	return authModel{client: c, focus: afEmail}
}

// visibleFields lists the form fields for the active tab, in order.
func (m authModel) visibleFields() []authField {
	if m.tab == tabLogin {
		return []authField{afEmail, afPassword}
	}
	return []authField{afName, afEmail, afPassword, afConfirm}
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.busy {
		// Controls are disabled while the remote call is in flight.
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+r":
		m = m.switchTab()
	case "tab", "down":
		m.focus = m.nextField(1)
	case "shift+tab", "up":
		m.focus = m.nextField(-1)
	case "enter":
		fields := m.visibleFields()
		if m.focus == fields[len(fields)-1] {
			return m.submit()
		}
		m.focus = m.nextField(1)
	case "ctrl+s":
		return m.submit()
	case "backspace":
		m.fields[m.focus] = editRune(m.fields[m.focus], "backspace")
		delete(m.fieldErrs, m.focus.key())
	default:
		before := m.fields[m.focus]
		m.fields[m.focus] = editRune(before, keyMsg.String())
		if m.fields[m.focus] != before {
			// Editing a field clears its error, as in a form input handler.
			delete(m.fieldErrs, m.focus.key())
		}
	}
	return m, nil
}

func (m authModel) switchTab() authModel {
	if m.tab == tabLogin {
		m.tab = tabRegister
		m.focus = afName
	} else {
		m.tab = tabLogin
		m.focus = afEmail
	}
	m.fieldErrs = nil
	return m
}

func (m authModel) nextField(dir int) authField {
	fields := m.visibleFields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(fields)) % len(fields)
	return fields[idx]
}

func (m authModel) submit() (authModel, tea.Cmd) {
	form := domain.CredentialForm{
		Name:            m.fields[afName],
		Email:           m.fields[afEmail],
		Password:        m.fields[afPassword],
		ConfirmPassword: m.fields[afConfirm],
	}
	isLogin := m.tab == tabLogin
	if errs := domain.ValidateCredentials(form, isLogin); errs != nil {
		m.fieldErrs = errs
		return m, nil
	}

	m.busy = true
	c := m.client
	if isLogin {
		return m, func() tea.Msg {
			user, err := c.Login(context.Background(), form.Email, form.Password)
			return authResultMsg{user: user, err: err}
		}
	}
	name := strings.TrimSpace(form.Name)
	return m, func() tea.Msg {
		user, err := c.Register(context.Background(), name, form.Email, form.Password)
		return authResultMsg{user: user, err: err, register: true}
	}
}

// reset returns a fresh form, keeping the client.
func (m authModel) reset() authModel {
	return newAuthModel(m.client)
}

func (m authModel) View(th theme) string {
	var sb strings.Builder
	sb.WriteString("\n")

	// Login / Register tabs
	login := th.dim.Render("Login")
	register := th.dim.Render("Register")
	if m.tab == tabLogin {
		login = th.selected.Underline(true).Render("Login")
	} else {
		register = th.selected.Underline(true).Render("Register")
	}
	sb.WriteString("   " + login + "   " + register + "   " + th.placeholder.Render("ctrl+r to switch") + "\n\n")

	for _, f := range m.visibleFields() {
		cursor := "  "
		if f == m.focus {
			cursor = th.accent.Render("> ")
		}
		value := m.fields[f]
		if f == afPassword || f == afConfirm {
			value = strings.Repeat("•", len([]rune(value)))
		}
		line := "   " + cursor + th.fieldLabel.Render(f.label()+": ") + th.normal.Render(value)
		if f == m.focus && !m.busy {
			line += th.accent.Render("█")
		}
		sb.WriteString(line + "\n")
		if errText, bad := m.fieldErrs[f.key()]; bad {
			sb.WriteString("     " + th.fieldErr.Render(errText) + "\n")
		}
	}

	sb.WriteString("\n")
	if m.busy {
		if m.tab == tabLogin {
			sb.WriteString("   " + th.dim.Render("Authenticating..."))
		} else {
			sb.WriteString("   " + th.dim.Render("Creating account..."))
		}
	} else {
		sb.WriteString("   " + th.placeholder.Render("enter to submit"))
	}
	return sb.String()
}
