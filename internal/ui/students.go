package ui

import (
	"escola/internal/model"
	"escola/internal/table"
	"escola/internal/util"
)

const (
	studentsKey   = "alunos"
	professorsKey = "professores"
)

func userColumns() []table.Column {
	return []table.Column{
		{Key: "nome", Label: "nome", Width: 26},
		{Key: "usuario", Label: "usuário", Width: 12},
		{Key: "email", Label: "email", Width: 26},
		{Key: "telefone", Label: "telefone", Width: 16},
		{Key: "nascimento", Label: "nascimento", Width: 11},
		{Key: "ativo", Label: "ativo", Width: 6},
		{Key: "cadastro", Label: "cadastro", Width: 11},
	}
}

func userRows(users []model.User) []*table.Row {
	rows := make([]*table.Row, len(users))
	for i, u := range users {
		rows[i] = &table.Row{
			ID: u.ID,
			Cells: []string{
				u.Name,
				u.Username,
				util.OrPlaceholder(u.Email),
				util.OrPlaceholder(u.Phone),
				util.FormatDate(u.BirthDate),
				util.FormatActive(u.Active),
				util.FormatDay(u.CreatedAt),
			},
			Keys: []string{4: u.BirthDate, 6: util.SortableTime(u.CreatedAt)},
		}
	}
	return rows
}

// NewStudentsView creates the students list.
func NewStudentsView(students []model.User) *TableView {
	t := table.New(studentsKey, userColumns(), userRows(students))
	return NewTableView(t, "alunos", "    Nenhum aluno cadastrado.\n    Pressione  a  para cadastrar o primeiro!")
}

// NewProfessorsView creates the professors list.
func NewProfessorsView(professors []model.User) *TableView {
	t := table.New(professorsKey, userColumns(), userRows(professors))
	return NewTableView(t, "professores", "    Nenhum professor cadastrado.")
}
