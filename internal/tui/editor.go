package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/webook/pkg/domain"
)

const (
	editorTitle = iota
	editorContent
)

const maxTitleLen = 200

type editorLoadedMsg struct {
	post *domain.Post
	err  error
}

type postSavedMsg struct {
	id        int64
	published bool
	err       error
}

type editorModel struct {
	posts     PostsAPI
	id        int64
	title     string
	content   string
	focus     int
	loading   bool
	saving    bool
	dirty     bool
	statusMsg string
	isErr     bool
	width     int
	height    int
}

func newEditorModel(p PostsAPI) editorModel {
	return editorModel{posts: p}
}

// blank resets the editor for a new draft.
func (m editorModel) blank() editorModel {
	return editorModel{posts: m.posts, width: m.width, height: m.height}
}

// edit loads an existing post by id into the editor.
func (m editorModel) edit(id int64) (editorModel, tea.Cmd) {
	m = m.blank()
	m.id = id
	m.loading = true
	p := m.posts
	return m, func() tea.Msg {
		res, err := p.GetDraft(context.Background(), id)
		if err = resultErr(res, err); err != nil {
			return editorLoadedMsg{err: err}
		}
		post := res.Data
		return editorLoadedMsg{post: &post}
	}
}

func (m editorModel) save(publish bool) (editorModel, tea.Cmd) {
	if strings.TrimSpace(m.title) == "" {
		m.statusMsg = "title is required"
		m.isErr = true
		return m, nil
	}
	m.saving = true
	m.statusMsg = ""
	p := m.posts
	id, title, content := m.id, strings.TrimSpace(m.title), m.content
	return m, func() tea.Msg {
		call := p.SavePost
		if publish {
			call = p.PublishPost
		}
		res, err := call(context.Background(), id, title, content)
		if err = resultErr(res, err); err != nil {
			return postSavedMsg{published: publish, err: err}
		}
		return postSavedMsg{id: res.Data.ID, published: publish}
	}
}

func (m editorModel) Update(msg tea.Msg) (editorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case editorLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = "load failed: " + msg.err.Error()
			m.isErr = true
			return m, nil
		}
		m.id = msg.post.ID
		m.title = msg.post.Title
		m.content = msg.post.Content
		m.focus = editorContent
		return m, nil

	case postSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.statusMsg = "save failed: " + msg.err.Error()
			m.isErr = true
			return m, nil
		}
		if msg.id != 0 {
			m.id = msg.id
		}
		m.dirty = false
		m.isErr = false
		if msg.published {
			m.statusMsg = fmt.Sprintf("published post %d", m.id)
		} else {
			m.statusMsg = fmt.Sprintf("saved draft %d", m.id)
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading || m.saving {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+s":
			return m.save(false)
		case "ctrl+p":
			return m.save(true)
		case "tab", "shift+tab":
			m.focus = 1 - m.focus
			return m, nil
		case "enter":
			if m.focus == editorTitle {
				m.focus = editorContent
				return m, nil
			}
			m.content += "\n"
		default:
			if m.focus == editorTitle {
				if msg.String() != "backspace" && len([]rune(m.title)) >= maxTitleLen {
					return m, nil
				}
				m.title = editRune(m.title, msg.String())
			} else {
				m.content = editRune(m.content, msg.String())
			}
		}
		m.dirty = true
		m.statusMsg = ""
	}
	return m, nil
}

func (m editorModel) View() string {
	var b strings.Builder

	heading := "new post"
	if m.id != 0 {
		heading = fmt.Sprintf("editing post %d", m.id)
	}
	if m.dirty {
		heading += " *"
	}
	b.WriteString(selectedStyle.Render(heading) + "\n\n")

	if m.loading {
		return b.String() + dimStyle.Render("loading...") + "\n"
	}

	title := m.title
	labelStyle := metaStyle
	if m.focus == editorTitle {
		title += "█"
		labelStyle = selectedStyle
	} else if title == "" {
		title = inputPlaceholderStyle.Render("untitled")
	}
	b.WriteString(labelStyle.Render("title   ") + title + "\n\n")

	content := m.content
	labelStyle = metaStyle
	if m.focus == editorContent {
		content += "█"
		labelStyle = selectedStyle
	} else if content == "" {
		content = inputPlaceholderStyle.Render("write something...")
	}
	b.WriteString(labelStyle.Render("content") + "\n")
	lines := strings.Split(content, "\n")
	// Keep the tail visible while typing.
	if room := m.height - 8; room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}
	for _, line := range lines {
		b.WriteString("  " + normalStyle.Render(line) + "\n")
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
	b.WriteString(renderHelp("tab", "switch field", "ctrl+s", "save draft", "ctrl+p", "publish", "esc", "back"))
	return b.String()
}
