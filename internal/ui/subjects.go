package ui

import (
	"strconv"

	"escola/internal/model"
	"escola/internal/table"
	"escola/internal/util"
)

const subjectsKey = "disciplinas"

// NewSubjectsView creates the subjects list. Workload and enrollment
// columns sort numerically.
func NewSubjectsView(subjects []model.SubjectRow) *TableView {
	columns := []table.Column{
		{Key: "nome", Label: "disciplina", Width: 16},
		{Key: "descricao", Label: "descrição", Width: 32},
		{Key: "professor", Label: "professor", Width: 24},
		{Key: "carga", Label: "carga", Mode: table.Numeric, Width: 7},
		{Key: "alunos", Label: "alunos", Mode: table.Numeric, Width: 7},
	}

	rows := make([]*table.Row, len(subjects))
	for i, s := range subjects {
		rows[i] = &table.Row{
			ID: s.ID,
			Cells: []string{
				s.Name,
				util.OrPlaceholder(s.Description),
				util.OrPlaceholder(s.ProfessorName),
				util.FormatWorkload(s.Workload),
				strconv.Itoa(s.Enrolled),
			},
		}
	}

	return NewTableView(table.New(subjectsKey, columns, rows), "disciplinas", "    Nenhuma disciplina cadastrada.")
}
