package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/webook/pkg/domain"
)

type profileLoadedMsg struct {
	user *domain.User
	err  error
}

type passwordChangedMsg struct {
	err error
}

type profileModel struct {
	auth      AuthAPI
	user      *domain.User
	loading   bool
	err       string
	changing  bool
	fields    [2]string // old, new
	focus     int
	saving    bool
	statusMsg string
	isErr     bool
}

func newProfileModel(a AuthAPI) profileModel {
	return profileModel{auth: a}
}

func (m profileModel) Init() tea.Cmd {
	a := m.auth
	return func() tea.Msg {
		u, err := a.Profile(context.Background())
		return profileLoadedMsg{user: u, err: err}
	}
}

// editing reports whether key presses belong to the password form.
func (m profileModel) editing() bool {
	return m.changing
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.user = msg.user
		return m, nil

	case passwordChangedMsg:
		m.saving = false
		if msg.err != nil {
			m.statusMsg = "change failed: " + msg.err.Error()
			m.isErr = true
			return m, nil
		}
		m.changing = false
		m.fields = [2]string{}
		m.focus = 0
		m.statusMsg = "password updated"
		m.isErr = false
		return m, nil

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		if !m.changing {
			switch msg.String() {
			case "p":
				m.changing = true
				m.statusMsg = ""
			case "r":
				m.loading = true
				return m, m.Init()
			}
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.changing = false
			m.fields = [2]string{}
			m.focus = 0
		case "tab", "shift+tab", "up", "down":
			m.focus = 1 - m.focus
		case "enter":
			if m.focus == 0 {
				m.focus = 1
				return m, nil
			}
			if m.fields[0] == "" || m.fields[1] == "" {
				m.statusMsg = "both passwords are required"
				m.isErr = true
				return m, nil
			}
			m.saving = true
			a := m.auth
			oldPw, newPw := m.fields[0], m.fields[1]
			return m, func() tea.Msg {
				return passwordChangedMsg{err: a.ChangePassword(context.Background(), oldPw, newPw)}
			}
		default:
			m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
		}
	}
	return m, nil
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString(selectedStyle.Render("profile") + "\n\n")

	switch {
	case m.err != "":
		b.WriteString(errStyle.Render(m.err) + "\n")
	case m.user == nil:
		b.WriteString(dimStyle.Render("loading...") + "\n")
	default:
		fmt.Fprintf(&b, "%s %d\n", metaStyle.Render("id    "), m.user.ID)
		fmt.Fprintf(&b, "%s %s\n", metaStyle.Render("email "), normalStyle.Render(m.user.Email))
	}

	if m.changing {
		b.WriteString("\n" + selectedStyle.Render("change password") + "\n")
		labels := [2]string{"current", "new"}
		for i, v := range m.fields {
			cursor := " "
			style := metaStyle
			value := mask(v)
			if i == m.focus {
				cursor = ">"
				style = selectedStyle
				value += "█"
			}
			fmt.Fprintf(&b, "%s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-7s", labels[i])), value)
		}
	}

	b.WriteString("\n")
	switch {
	case m.saving:
		b.WriteString(dimStyle.Render("saving..."))
	case m.statusMsg != "" && m.isErr:
		b.WriteString(errStyle.Render(m.statusMsg))
	case m.statusMsg != "":
		b.WriteString(accentStyle.Render(m.statusMsg))
	}
	b.WriteString("\n")
	if m.changing {
		b.WriteString(renderHelp("tab", "next field", "enter", "save", "esc", "cancel"))
	} else {
		b.WriteString(renderHelp("p", "change password", "r", "refresh"))
	}
	return b.String()
}
