package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// submitGuard blocks repeated saves while one is in flight and shows a
// spinner in the meantime.
type submitGuard struct {
	submitting bool
	spinner    spinner.Model
}

func newSubmitGuard() submitGuard {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorAccent)
	return submitGuard{spinner: s}
}

// begin marks the form as submitting and runs save. It returns nil when a
// save is already running.
func (g *submitGuard) begin(save tea.Cmd) tea.Cmd {
	if g.submitting {
		return nil
	}
	g.submitting = true
	return tea.Batch(g.spinner.Tick, save)
}

func (g *submitGuard) done() {
	g.submitting = false
}

func (g *submitGuard) update(msg spinner.TickMsg) tea.Cmd {
	if !g.submitting {
		return nil
	}
	var cmd tea.Cmd
	g.spinner, cmd = g.spinner.Update(msg)
	return cmd
}

func (g submitGuard) View() string {
	if !g.submitting {
		return ""
	}
	return g.spinner.View() + " " + HelpDescStyle.Render("Processando...")
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	return in
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	return renderFormBox(label, input.View(), focused)
}

func renderFormBox(label, body string, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		body,
	)

	return style.Render(field)
}

func renderCheckbox(label string, checked, focused bool) string {
	box := "[ ]"
	if checked {
		box = "[x]"
	}
	return renderFormBox(label, NormalRowStyle.Render(box)+" "+HelpDescStyle.Render("espaço alterna"), focused)
}

func togglePasswordEcho(in *textinput.Model) {
	if in.EchoMode == textinput.EchoPassword {
		in.EchoMode = textinput.EchoNormal
	} else {
		in.EchoMode = textinput.EchoPassword
	}
}
