package ui

import (
	"fmt"
	"strings"

	"escola/internal/model"
	"escola/internal/util"

	"github.com/charmbracelet/lipgloss"
)

// DashboardModel represents the staff dashboard.
type DashboardModel struct {
	data model.Dashboard
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(data model.Dashboard) *DashboardModel {
	return &DashboardModel{data: data}
}

func renderStatCard(value int, label string) string {
	return CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Center,
			LabelStyle.Render(fmt.Sprintf("%d", value)),
			HelpDescStyle.Render(label),
		),
	)
}

// View renders the dashboard.
func (m *DashboardModel) View(width, height int) string {
	s := m.data.Stats
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		renderStatCard(s.Students, "alunos ativos"), " ",
		renderStatCard(s.Professors, "professores"), " ",
		renderStatCard(s.Subjects, "disciplinas"), " ",
		renderStatCard(s.News, "notícias"),
	)

	half := max(30, (width-6)/2)

	var news []string
	news = append(news, LabelStyle.Render("Notícias recentes"))
	if len(m.data.RecentNews) == 0 {
		news = append(news, HelpDescStyle.Render("Nenhuma notícia."))
	}
	for _, n := range m.data.RecentNews {
		line := util.FormatDay(n.PublishedAt) + "  " + util.TruncateString(n.Title, half-14)
		if n.Featured {
			line += " " + FeaturedStyle.Render("★")
		}
		news = append(news, NormalRowStyle.Render(line))
	}

	var students []string
	students = append(students, LabelStyle.Render("Últimos alunos"))
	if len(m.data.LatestStudents) == 0 {
		students = append(students, HelpDescStyle.Render("Nenhum aluno."))
	}
	for _, u := range m.data.LatestStudents {
		students = append(students, NormalRowStyle.Render(util.TruncateString(u.Name, half-16)+"  ")+HelpDescStyle.Render(u.Username))
	}

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		PanelStyle.Width(half).Render(strings.Join(news, "\n")),
		PanelStyle.Width(half).Render(strings.Join(students, "\n")),
	)

	return lipgloss.JoinVertical(lipgloss.Left, "", cards, "", panels)
}
