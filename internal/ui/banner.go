package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const bannerTimeout = 5 * time.Second

type bannerKind int

const (
	bannerInfo bannerKind = iota
	bannerError
)

type bannerExpiredMsg struct {
	seq int
}

// notify shows a banner and schedules its dismissal. A newer banner
// supersedes the pending dismissal of an older one.
func (m *Model) notify(kind bannerKind, text string) tea.Cmd {
	switch kind {
	case bannerError:
		m.error = text
		m.info = ""
	default:
		m.info = text
		m.error = ""
	}
	m.bannerSeq++
	seq := m.bannerSeq
	return tea.Tick(bannerTimeout, func(time.Time) tea.Msg {
		return bannerExpiredMsg{seq: seq}
	})
}

func (m *Model) expireBanner(msg bannerExpiredMsg) {
	if msg.seq != m.bannerSeq {
		return
	}
	m.info = ""
	m.error = ""
}
