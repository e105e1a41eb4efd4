package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/webook/pkg/client"
	"github.com/naveenspark/webook/pkg/domain"
)

type postLoadedMsg struct {
	id   int64
	post *domain.Post
	err  error
}

// readMarkedMsg ends a best-effort read count; failures are not shown.
type readMarkedMsg struct{}

type reactionKind int

const (
	reactLike reactionKind = iota
	reactCollect
)

type reactionMsg struct {
	id   int64
	kind reactionKind
	on   bool
	err  error
}

type readerModel struct {
	posts     PostsAPI
	copyText  func(string) error
	openURL   func(string) error
	postURL   func(int64) string
	id        int64
	draft     bool
	post      *domain.Post
	loading   bool
	reacting  bool // a like or collect is in flight
	scroll    int
	err       string
	statusMsg string
	width     int
	height    int
}

func newReaderModel(p PostsAPI, copyText, openURL func(string) error, postURL func(int64) string) readerModel {
	return readerModel{posts: p, copyText: copyText, openURL: openURL, postURL: postURL}
}

// open resets the reader onto a post and starts loading it.
func (m readerModel) open(id int64, draft bool) (readerModel, tea.Cmd) {
	m.id = id
	m.draft = draft
	m.post = nil
	m.scroll = 0
	m.err = ""
	m.statusMsg = ""
	m.loading = true
	m.reacting = false
	return m, m.load()
}

func (m readerModel) load() tea.Cmd {
	p := m.posts
	id := m.id
	draft := m.draft
	return func() tea.Msg {
		fetch := p.GetPublished
		if draft {
			fetch = p.GetDraft
		}
		res, err := fetch(context.Background(), id)
		if err = resultErr(res, err); err != nil {
			return postLoadedMsg{id: id, err: err}
		}
		post := res.Data
		return postLoadedMsg{id: id, post: &post}
	}
}

// react toggles a like or collect. Further toggles are ignored until the
// pending one answers.
func (m readerModel) react(kind reactionKind) (readerModel, tea.Cmd) {
	if m.post == nil || m.draft || m.reacting {
		return m, nil
	}
	p := m.posts
	id := m.id
	var (
		call func(context.Context, int64) (*client.Result[client.NoData], error)
		on   bool
	)
	switch kind {
	case reactLike:
		on = !m.post.Liked
		call = p.Unlike
		if on {
			call = p.Like
		}
	case reactCollect:
		on = !m.post.Collected
		call = p.Uncollect
		if on {
			call = p.Collect
		}
	}
	m.reacting = true
	return m, func() tea.Msg {
		res, err := call(context.Background(), id)
		return reactionMsg{id: id, kind: kind, on: on, err: resultErr(res, err)}
	}
}

func (m readerModel) Update(msg tea.Msg) (readerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case postLoadedMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.post = msg.post
		if m.draft {
			return m, nil
		}
		p, id := m.posts, m.post.ID
		return m, func() tea.Msg {
			p.MarkRead(context.Background(), id) //nolint:errcheck // best-effort
			return readMarkedMsg{}
		}

	case reactionMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.reacting = false
		if msg.err != nil {
			m.statusMsg = "failed: " + msg.err.Error()
			return m, nil
		}
		if m.post == nil {
			return m, nil
		}
		delta := int64(1)
		if !msg.on {
			delta = -1
		}
		switch msg.kind {
		case reactLike:
			m.post.Liked = msg.on
			m.post.LikeCnt = max(m.post.LikeCnt+delta, 0)
		case reactCollect:
			m.post.Collected = msg.on
			m.post.CollectCnt = max(m.post.CollectCnt+delta, 0)
		}
		m.statusMsg = ""
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		switch msg.String() {
		case "j", "down":
			m.scroll++
		case "k", "up":
			if m.scroll > 0 {
				m.scroll--
			}
		case "u":
			return m.react(reactLike)
		case "s":
			return m.react(reactCollect)
		case "c":
			if m.post != nil && m.copyText != nil {
				if err := m.copyText(m.post.Content); err != nil {
					m.statusMsg = "copy failed: " + err.Error()
				} else {
					m.statusMsg = "copied to clipboard"
				}
			}
		case "o":
			if m.post != nil && m.openURL != nil && m.postURL != nil {
				if err := m.openURL(m.postURL(m.post.ID)); err != nil {
					m.statusMsg = "open failed: " + err.Error()
				}
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m readerModel) View() string {
	var b strings.Builder
	switch {
	case m.err != "":
		b.WriteString(errStyle.Render(m.err) + "\n\n")
		b.WriteString(renderHelp("r", "retry", "esc", "back"))
		return b.String()
	case m.post == nil:
		return dimStyle.Render("loading...") + "\n"
	}

	p := m.post
	status := p.Status.String()
	b.WriteString(selectedStyle.Render(p.Title) + "  " + StatusStyle(status).Render(status) + "\n")
	meta := fmt.Sprintf("author %d . %d likes . %d collected . %d reads", p.AuthorID, p.LikeCnt, p.CollectCnt, p.ReadCnt)
	if when := formatMillis(p.Utime); when != "" {
		meta += " . " + when
	}
	b.WriteString(metaStyle.Render(meta) + "\n")
	var marks []string
	if p.Liked {
		marks = append(marks, accentStyle.Render("liked"))
	}
	if p.Collected {
		marks = append(marks, goldStyle.Render("collected"))
	}
	b.WriteString(strings.Join(marks, " ") + "\n\n")

	lines := strings.Split(p.Content, "\n")
	body := lines[min(m.scroll, len(lines)-1):]
	if m.height > 6 && len(body) > m.height-6 {
		body = body[:m.height-6]
	}
	for _, line := range body {
		b.WriteString(normalStyle.Render(line) + "\n")
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString(goldStyle.Render(m.statusMsg) + "\n")
	}
	if m.draft {
		b.WriteString(renderHelp("j/k", "scroll", "c", "copy", "esc", "back"))
	} else {
		b.WriteString(renderHelp("j/k", "scroll", "u", "like", "s", "collect", "c", "copy", "o", "open", "esc", "back"))
	}
	return b.String()
}
