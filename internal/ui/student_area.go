package ui

import (
	"strings"

	"escola/internal/model"
	"escola/internal/table"
	"escola/internal/util"

	"github.com/charmbracelet/lipgloss"
)

const enrollmentsKey = "matriculas"

// StudentAreaModel is the logged-in student's own page: enrollments as a
// table plus the latest news.
type StudentAreaModel struct {
	area        model.StudentArea
	enrollments *TableView
}

// NewStudentAreaModel creates a new student area model.
func NewStudentAreaModel(area model.StudentArea) *StudentAreaModel {
	columns := []table.Column{
		{Key: "disciplina", Label: "disciplina", Width: 16},
		{Key: "descricao", Label: "descrição", Width: 32},
		{Key: "professor", Label: "professor", Width: 24},
		{Key: "matricula", Label: "matrícula", Width: 11},
	}
	return &StudentAreaModel{
		area:        area,
		enrollments: NewTableView(table.New(enrollmentsKey, columns, enrollmentRows(area)), "disciplinas", "    Você ainda não está matriculado em nenhuma disciplina."),
	}
}

func enrollmentRows(area model.StudentArea) []*table.Row {
	rows := make([]*table.Row, len(area.Enrollments))
	for i, e := range area.Enrollments {
		rows[i] = &table.Row{
			ID: e.SubjectID,
			Cells: []string{
				e.SubjectName,
				util.OrPlaceholder(e.Description),
				util.OrPlaceholder(e.ProfessorName),
				util.FormatDay(e.EnrolledAt),
			},
			Keys: []string{3: util.SortableTime(e.EnrolledAt)},
		}
	}
	return rows
}

// Refresh swaps in newly loaded data, keeping the table's sort and search.
func (m *StudentAreaModel) Refresh(area model.StudentArea) {
	m.area = area
	m.enrollments.Reload(enrollmentRows(area))
}

// View renders the student area.
func (m *StudentAreaModel) View(width, height int) string {
	greeting := LabelStyle.Render("Olá, " + m.area.Student.Name)

	var news []string
	news = append(news, LabelStyle.Render("Últimas notícias"))
	if len(m.area.RecentNews) == 0 {
		news = append(news, HelpDescStyle.Render("Nenhuma notícia."))
	}
	for _, n := range m.area.RecentNews {
		line := util.FormatDay(n.PublishedAt) + "  " + util.TruncateString(n.Title, max(10, width-20))
		if n.Featured {
			line += " " + FeaturedStyle.Render("★")
		}
		news = append(news, NormalRowStyle.Render(line))
	}
	newsPanel := PanelStyle.Width(width - 4).Render(strings.Join(news, "\n"))

	tableHeight := max(5, height-lipgloss.Height(newsPanel)-2)
	return lipgloss.JoinVertical(lipgloss.Left,
		" "+greeting,
		m.enrollments.View(width, tableHeight),
		newsPanel,
	)
}
