package ui

import (
	"escola/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const deletePrompt = "Tem certeza que deseja excluir este item? Esta ação não pode ser desfeita."

type confirmPrompt struct {
	text   string
	detail string
	onYes  tea.Cmd
}

func (m *Model) askConfirm(detail string, onYes tea.Cmd) {
	m.confirm = &confirmPrompt{text: deletePrompt, detail: detail, onYes: onYes}
	m.mode = model.ModeConfirm
}

// handleConfirmMode runs the pending action on "y". Any other key drops it.
func (m Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.confirm
	m.confirm = nil
	m.mode = model.ModeNav
	if pending == nil || msg.String() != "y" {
		return m, nil
	}
	return m, pending.onYes
}

func (c *confirmPrompt) View(width int) string {
	lines := []string{WarningStyle.Render(c.text)}
	if c.detail != "" {
		lines = append(lines, NormalRowStyle.Render(c.detail))
	}
	lines = append(lines, HelpKeyStyle.Render("y")+" "+HelpDescStyle.Render("confirmar")+"  "+
		HelpKeyStyle.Render("qualquer tecla")+" "+HelpDescStyle.Render("cancelar"))
	return PanelStyle.Width(width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
