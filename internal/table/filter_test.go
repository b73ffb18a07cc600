package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func shown(rows []*Row) []bool {
	out := make([]bool, len(rows))
	for i, r := range rows {
		out[i] = !r.Hidden
	}
	return out
}

func TestFilterMatchesSubstringIgnoringCase(t *testing.T) {
	rows := rowsOf([]string{"John Smith"}, []string{"Mary Jo"}, []string{"Ann"})

	Filter(rows, "jo")

	assert.Equal(t, []bool{true, true, false}, shown(rows))
}

func TestFilterSearchesEveryCell(t *testing.T) {
	rows := []*Row{
		{ID: 1, Cells: []string{"Ana", "ana2024", "ana.oliveira@email.com"}},
		{ID: 2, Cells: []string{"Bruno", "bruno2024", "bruno.mendes@email.com"}},
	}

	Filter(rows, "OLIVEIRA")

	assert.Equal(t, []bool{true, false}, shown(rows))
}

func TestFilterEmptyQueryShowsAll(t *testing.T) {
	rows := rowsOf([]string{"a"}, []string{"b"}, []string{"c"})
	Filter(rows, "zzz")
	assert.Equal(t, []bool{false, false, false}, shown(rows))

	Filter(rows, "")

	assert.Equal(t, []bool{true, true, true}, shown(rows))
}

func TestFilterIsIdempotent(t *testing.T) {
	rows := rowsOf([]string{"Matemática"}, []string{"Português"}, []string{"História"})

	Filter(rows, "ti")
	first := shown(rows)
	Filter(rows, "ti")

	assert.Equal(t, first, shown(rows))
	assert.Equal(t, []bool{true, false, false}, first)
}

func TestFilterLeavesOrderAndCellsAlone(t *testing.T) {
	rows := rowsOf([]string{"b", "x"}, []string{"a", "y"})

	Filter(rows, "a")

	assert.Equal(t, []int64{1, 2}, ids(rows))
	assert.Equal(t, []string{"b", "x"}, rows[0].Cells)
	assert.Equal(t, []string{"a", "y"}, rows[1].Cells)
}

func TestFilterDoesNotTrimQuery(t *testing.T) {
	rows := rowsOf([]string{"Ana Carolina"}, []string{"Carla"})

	Filter(rows, "a c")

	assert.Equal(t, []bool{true, false}, shown(rows))
}

func TestTableFilterByKeepsQueryAcrossSort(t *testing.T) {
	tbl := New("alunos", []Column{{Key: "nome"}}, rowsOf(
		[]string{"Bruno"}, []string{"Ana"}, []string{"Carla"},
	))

	tbl.FilterBy("ar")
	tbl.SortBy(0)

	assert.Equal(t, "ar", tbl.Query())
	assert.Equal(t, []string{"Carla"}, firstCells(tbl.Visible()))
	assert.Equal(t, 3, tbl.Len())
}

func TestTableFilterBySkipsHiddenColumns(t *testing.T) {
	tbl := New("alunos", []Column{{Key: "nome"}, {Key: "usuario", Hidden: true}}, rowsOf(
		[]string{"Ana Oliveira", "ana2024"},
		[]string{"Bruno Mendes", "bruno2024"},
	))

	tbl.FilterBy("2024")
	assert.Empty(t, tbl.Visible())

	tbl.Columns[1].Hidden = false
	tbl.FilterBy(tbl.Query())
	assert.Len(t, tbl.Visible(), 2)
}
