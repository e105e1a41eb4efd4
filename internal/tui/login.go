package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
	fieldConfirm
	numLoginFields
)

// -- messages --

type loginResultMsg struct {
	userID int64
	err    error
}

type signupResultMsg struct {
	email string
	err   error
}

// -- model --

type loginModel struct {
	auth      AuthAPI
	fields    [numLoginFields]string
	focus     loginField
	signup    bool
	submitted bool
	statusMsg string
	isErr     bool
}

func newLoginModel(a AuthAPI) loginModel {
	return loginModel{auth: a}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) numFields() loginField {
	if m.signup {
		return numLoginFields
	}
	return fieldConfirm
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = "login failed: " + msg.err.Error()
			m.isErr = true
			return m, nil
		}
		m.fields = [numLoginFields]string{}
		m.focus = fieldEmail
		m.statusMsg = ""
		m.isErr = false
		return m, nil

	case signupResultMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = "signup failed: " + msg.err.Error()
			m.isErr = true
			return m, nil
		}
		// Back to login with the email kept.
		m.signup = false
		m.fields = [numLoginFields]string{fieldEmail: msg.email}
		m.focus = fieldPassword
		m.statusMsg = "account created, log in"
		m.isErr = false
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	n := m.numFields()
	switch msg.String() {
	case "ctrl+n":
		m.signup = !m.signup
		m.fields[fieldConfirm] = ""
		if m.focus >= m.numFields() {
			m.focus = fieldEmail
		}
		m.statusMsg = ""
		return m, nil
	case "tab", "down":
		m.focus = (m.focus + 1) % n
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + n) % n
	case "enter":
		if m.focus < n-1 {
			m.focus++
			return m, nil
		}
		return m.submit()
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.fields[fieldEmail])
	password := m.fields[fieldPassword]
	if email == "" || password == "" {
		m.statusMsg = "email and password are required"
		m.isErr = true
		return m, nil
	}

	m.submitted = true
	m.statusMsg = ""
	a := m.auth
	if m.signup {
		confirm := m.fields[fieldConfirm]
		return m, func() tea.Msg {
			return signupResultMsg{email: email, err: a.Signup(context.Background(), email, password, confirm)}
		}
	}
	return m, func() tea.Msg {
		lr, err := a.Login(context.Background(), email, password)
		if err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{userID: lr.UserID}
	}
}

func (m loginModel) View() string {
	var b strings.Builder

	title := "log in"
	if m.signup {
		title = "sign up"
	}
	b.WriteString(selectedStyle.Render(title) + "\n\n")

	labels := [numLoginFields]string{"email", "password", "confirm"}
	for i := loginField(0); i < m.numFields(); i++ {
		value := m.fields[i]
		if i != fieldEmail {
			value = mask(value)
		}
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
			value += "█"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-8s", labels[i])), value)
	}

	b.WriteString("\n")
	switch {
	case m.submitted:
		b.WriteString(dimStyle.Render("contacting server..."))
	case m.statusMsg != "" && m.isErr:
		b.WriteString(errStyle.Render(m.statusMsg))
	case m.statusMsg != "":
		b.WriteString(accentStyle.Render(m.statusMsg))
	}
	b.WriteString("\n\n")
	toggle := "sign up instead"
	if m.signup {
		toggle = "log in instead"
	}
	b.WriteString(renderHelp("tab", "next field", "enter", "submit", "ctrl+n", toggle, "esc", "browse posts"))
	return b.String()
}
