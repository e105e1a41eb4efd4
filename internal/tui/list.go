package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/webook/pkg/client"
	"github.com/naveenspark/webook/pkg/domain"
)

// listKind selects which listing a postListModel shows.
type listKind int

const (
	listPublic listKind = iota
	listMine
)

// -- messages --

type listLoadedMsg struct {
	kind listKind
	page *domain.PostPage
	err  error
}

type postDeletedMsg struct {
	id  int64
	err error
}

// openPostMsg asks the app to show a post in the reader.
type openPostMsg struct {
	id    int64
	draft bool
}

// editPostMsg asks the app to open a post in the editor.
type editPostMsg struct {
	post domain.Post
}

// -- model --

// postListModel is the public feed or the author's own list.
type postListModel struct {
	posts         PostsAPI
	kind          listKind
	items         []domain.Post
	total         int64
	page          int
	cursor        int
	loading       bool
	confirmDelete bool
	err           string
	statusMsg     string
	width         int
	height        int
}

func newPostListModel(p PostsAPI, kind listKind) postListModel {
	return postListModel{posts: p, kind: kind, page: client.DefaultPage}
}

func (m postListModel) Init() tea.Cmd {
	return m.load()
}

func (m postListModel) load() tea.Cmd {
	p := m.posts
	kind := m.kind
	page := m.page
	return func() tea.Msg {
		var (
			res *client.Result[domain.PostPage]
			err error
		)
		if kind == listMine {
			res, err = p.ListMine(context.Background(), page, client.DefaultPageSize)
		} else {
			res, err = p.ListPublic(context.Background(), page, client.DefaultPageSize)
		}
		if err = resultErr(res, err); err != nil {
			return listLoadedMsg{kind: kind, err: err}
		}
		return listLoadedMsg{kind: kind, page: &res.Data}
	}
}

func (m postListModel) lastPage() int {
	if m.total <= 0 {
		return 1
	}
	return int((m.total + client.DefaultPageSize - 1) / client.DefaultPageSize)
}

func (m postListModel) Update(msg tea.Msg) (postListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case listLoadedMsg:
		if msg.kind != m.kind {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.items = msg.page.Posts
		m.total = msg.page.Total
		if m.cursor >= len(m.items) {
			m.cursor = max(len(m.items)-1, 0)
		}
		return m, nil

	case postDeletedMsg:
		if msg.err != nil {
			m.statusMsg = "delete failed: " + msg.err.Error()
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("deleted post %d", msg.id)
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m postListModel) updateKeys(msg tea.KeyMsg) (postListModel, tea.Cmd) {
	key := msg.String()
	if m.confirmDelete {
		m.confirmDelete = false
		if key == "y" && m.cursor < len(m.items) {
			id := m.items[m.cursor].ID
			p := m.posts
			m.statusMsg = "deleting..."
			return m, func() tea.Msg {
				res, err := p.DeletePost(context.Background(), id)
				return postDeletedMsg{id: id, err: resultErr(res, err)}
			}
		}
		m.statusMsg = ""
		return m, nil
	}

	m.statusMsg = ""
	switch key {
	case "j", "down":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "l", "right":
		if m.page < m.lastPage() {
			m.page++
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "h", "left":
		if m.page > 1 {
			m.page--
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "r":
		m.loading = true
		return m, m.load()
	case "enter":
		if m.cursor < len(m.items) {
			post := m.items[m.cursor]
			draft := m.kind == listMine && post.Status != domain.PostStatusPublished
			return m, func() tea.Msg { return openPostMsg{id: post.ID, draft: draft} }
		}
	case "e":
		if m.kind == listMine && m.cursor < len(m.items) {
			post := m.items[m.cursor]
			return m, func() tea.Msg { return editPostMsg{post: post} }
		}
	case "d":
		if m.kind == listMine && m.cursor < len(m.items) {
			m.confirmDelete = true
			m.statusMsg = fmt.Sprintf("delete %q? y to confirm", truncStr(m.items[m.cursor].Title, 40))
		}
	}
	return m, nil
}

func (m postListModel) View() string {
	var b strings.Builder

	title := "latest posts"
	if m.kind == listMine {
		title = "my posts"
	}
	fmt.Fprintf(&b, "%s  %s\n\n", selectedStyle.Render(title),
		metaStyle.Render(fmt.Sprintf("page %d/%d . %d total", m.page, m.lastPage(), m.total)))

	switch {
	case m.err != "":
		b.WriteString(errStyle.Render(m.err) + "\n")
	case m.loading && len(m.items) == 0:
		b.WriteString(dimStyle.Render("loading...") + "\n")
	case len(m.items) == 0:
		if m.kind == listMine {
			b.WriteString(inputPlaceholderStyle.Render("nothing written yet. press 3 to start a draft.") + "\n")
		} else {
			b.WriteString(inputPlaceholderStyle.Render("no posts published yet.") + "\n")
		}
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	for i, p := range m.items {
		cursor := "  "
		titleStyle := normalStyle
		if i == m.cursor {
			cursor = "> "
			titleStyle = selectedStyle
		}
		status := p.Status.String()
		line := fmt.Sprintf("%s%s  %s", cursor, titleStyle.Render(truncStr(p.Title, 40)), StatusStyle(status).Render(status))
		meta := fmt.Sprintf("  %d likes . %d reads", p.LikeCnt, p.ReadCnt)
		if when := formatMillis(p.Utime); when != "" {
			meta += " . " + when
		}
		line += metaStyle.Render(meta)
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
		if preview := oneLine(p.Content); preview != "" {
			b.WriteString("    " + dimStyle.Render(truncStr(preview, width-6)) + "\n")
		}
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString(goldStyle.Render(m.statusMsg) + "\n")
	}
	help := []string{"j/k", "move", "h/l", "page", "enter", "read", "r", "refresh"}
	if m.kind == listMine {
		help = append(help, "e", "edit", "d", "delete")
	}
	b.WriteString(renderHelp(help...))

	return truncateToHeight(b.String(), m.height)
}
