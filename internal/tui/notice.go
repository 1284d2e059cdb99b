package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type clearNoticeMsg struct{ id int }

const noticeDuration = 3 * time.Second

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

func noticeText(msg string, kind noticeKind) string {
	if msg == "" {
		return ""
	}
	switch kind {
	case noticeSuccess:
		return successStyle.Render("✓ " + msg)
	case noticeError:
		return errorStyle.Render("× " + msg)
	default:
		return "ℹ " + msg
	}
}

// startNotice shows msg and schedules its removal. Older timers are ignored
// through the sequence number.
func (m *Model) startNotice(msg string, kind noticeKind) tea.Cmd {
	m.notice, m.noticeKind = msg, kind
	m.noticeSeq++
	id := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg { return clearNoticeMsg{id: id} })
}
