package ui

import (
	"image"
	"strings"

	"escola/internal/model"
	"escola/internal/util"

	"github.com/charmbracelet/lipgloss"
)

// NewsDetailModel represents the news detail screen.
type NewsDetailModel struct {
	news  model.News
	image image.Image

	previewWidth int
	preview      string
}

// NewNewsDetailModel creates a new news detail model.
func NewNewsDetailModel(news model.News, img image.Image) *NewsDetailModel {
	return &NewsDetailModel{news: news, image: img}
}

func (m *NewsDetailModel) renderPreview(width int) string {
	if m.image == nil {
		return ""
	}
	if m.previewWidth != width {
		m.previewWidth = width
		m.preview = convertToASCII(m.image, width, width/4)
	}
	return m.preview
}

// View renders the news detail.
func (m *NewsDetailModel) View(width, height int) string {
	n := m.news

	shortcuts := HelpDescStyle.Render("d excluir  h voltar")
	header := lipgloss.NewStyle().
		Width(width - 4).
		Align(lipgloss.Right).
		Render(shortcuts)

	title := LabelStyle.Render(n.Title)
	if n.Featured {
		title += " " + FeaturedStyle.Render("★ destaque")
	}

	var fields []string
	fields = append(fields, renderField("Autor", n.AuthorName))
	fields = append(fields, renderField("Publicada em", util.FormatDateTime(n.PublishedAt)))

	sections := []string{title, strings.Join(fields, "\n")}

	divider := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render(strings.Repeat("─", max(0, width-8)))
	sections = append(sections, divider)

	sections = append(sections, lipgloss.NewStyle().Width(max(20, width-8)).Render(n.Content))

	if preview := m.renderPreview(min(60, max(10, width-8))); preview != "" {
		sections = append(sections, preview)
	} else if n.Image != "" {
		sections = append(sections, HelpDescStyle.Render("Imagem indisponível: "+n.Image))
	}

	info := PanelStyle.
		Width(width - 4).
		Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, info)
}

func renderField(label, value string) string {
	return LabelStyle.Render(label+":") + " " + NormalRowStyle.Render(util.OrPlaceholder(value))
}
