package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func rowsOf(cells ...[]string) []*Row {
	rows := make([]*Row, len(cells))
	for i, c := range cells {
		rows[i] = &Row{ID: int64(i + 1), Cells: c}
	}
	return rows
}

func ids(rows []*Row) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func firstCells(rows []*Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Cell(0)
	}
	return out
}

func TestSortLexicalKeepsTiesInOriginalOrder(t *testing.T) {
	rows := rowsOf([]string{"b"}, []string{"a"}, []string{"a"})

	state := Sort(rows, 0, Lexical, Unsorted())

	assert.Equal(t, SortState{Column: 0, Direction: Ascending}, state)
	assert.Equal(t, []string{"a", "a", "b"}, firstCells(rows))
	if diff := cmp.Diff([]int64{2, 3, 1}, ids(rows)); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortDescendingIsStableToo(t *testing.T) {
	rows := rowsOf([]string{"a"}, []string{"b"}, []string{"a"}, []string{"b"})

	state := Sort(rows, 0, Lexical, SortState{Column: 0, Direction: Ascending})

	assert.Equal(t, Descending, state.Direction)
	if diff := cmp.Diff([]int64{2, 4, 1, 3}, ids(rows)); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortNumericComparesValues(t *testing.T) {
	rows := rowsOf([]string{"10"}, []string{"2"})

	Sort(rows, 0, Numeric, Unsorted())
	assert.Equal(t, []string{"2", "10"}, firstCells(rows))

	lex := rowsOf([]string{"10"}, []string{"2"})
	Sort(lex, 0, Lexical, Unsorted())
	assert.Equal(t, []string{"10", "2"}, firstCells(lex))
}

func TestSortNumericUnparsableIsZero(t *testing.T) {
	rows := rowsOf([]string{"5"}, []string{"abc"}, []string{"-3"})

	Sort(rows, 0, Numeric, Unsorted())

	assert.Equal(t, []string{"-3", "abc", "5"}, firstCells(rows))
}

func TestSortNumericAllUnparsableKeepsOrder(t *testing.T) {
	rows := rowsOf([]string{"x"}, []string{"—"}, []string{""})

	Sort(rows, 0, Numeric, Unsorted())

	assert.Equal(t, []int64{1, 2, 3}, ids(rows))
}

func TestSortTrimsCellText(t *testing.T) {
	rows := rowsOf([]string{"  b"}, []string{"a  "})

	Sort(rows, 0, Lexical, Unsorted())

	assert.Equal(t, []int64{2, 1}, ids(rows))
}

func TestSortLexicalIgnoresCaseAtPrimaryLevel(t *testing.T) {
	rows := rowsOf([]string{"Carla"}, []string{"ana"}, []string{"Bruno"})

	Sort(rows, 0, Lexical, Unsorted())

	assert.Equal(t, []string{"ana", "Bruno", "Carla"}, firstCells(rows))
}

func TestSortRaggedRowsCompareAsEmpty(t *testing.T) {
	rows := []*Row{
		{ID: 1, Cells: []string{"x", "b"}},
		{ID: 2, Cells: []string{"y"}},
		{ID: 3, Cells: []string{"z", "a"}},
	}

	require.NotPanics(t, func() { Sort(rows, 1, Lexical, Unsorted()) })

	assert.Equal(t, []int64{2, 3, 1}, ids(rows))
}

func TestSortOutOfRangeColumnIsNoop(t *testing.T) {
	rows := rowsOf([]string{"b"}, []string{"a"})

	var state SortState
	require.NotPanics(t, func() { state = Sort(rows, 7, Lexical, Unsorted()) })

	assert.Equal(t, []int64{1, 2}, ids(rows))
	assert.Equal(t, SortState{Column: 7, Direction: Ascending}, state)
}

func TestSortEmptyAndSingle(t *testing.T) {
	var empty []*Row
	state := Sort(empty, 0, Numeric, Unsorted())
	assert.Equal(t, Ascending, state.Direction)
	assert.Empty(t, empty)

	single := rowsOf([]string{"only"})
	Sort(single, 0, Lexical, Unsorted())
	assert.Equal(t, []int64{1}, ids(single))
}

func TestTableSortByTogglesDirection(t *testing.T) {
	tbl := New("alunos", []Column{{Key: "nome", Mode: Lexical}}, rowsOf(
		[]string{"b"}, []string{"c"}, []string{"a"},
	))

	assert.Equal(t, Ascending, tbl.SortBy(0).Direction)
	assert.Equal(t, []string{"a", "b", "c"}, firstCells(tbl.Rows()))

	assert.Equal(t, Descending, tbl.SortBy(0).Direction)
	assert.Equal(t, []string{"c", "b", "a"}, firstCells(tbl.Rows()))

	assert.Equal(t, Ascending, tbl.SortBy(0).Direction)
	assert.Equal(t, []string{"a", "b", "c"}, firstCells(tbl.Rows()))
}

func TestTableSwitchingColumnForgetsPreviousDirection(t *testing.T) {
	tbl := New("disciplinas", []Column{
		{Key: "nome", Mode: Lexical},
		{Key: "carga", Mode: Numeric},
	}, []*Row{
		{ID: 1, Cells: []string{"b", "40"}},
		{ID: 2, Cells: []string{"a", "80"}},
	})

	tbl.SortBy(0)
	tbl.SortBy(1)
	assert.Equal(t, Ascending, tbl.SortState().Direction)
	assert.Equal(t, None, tbl.Indicator(0))
	assert.Equal(t, Ascending, tbl.Indicator(1))

	// Column 0 was ascending before column 1 was sorted; it starts over.
	state := tbl.SortBy(0)
	assert.Equal(t, SortState{Column: 0, Direction: Ascending}, state)
	assert.Equal(t, Ascending, tbl.Indicator(0))
	assert.Equal(t, None, tbl.Indicator(1))
}

func TestTableSortUsesColumnMode(t *testing.T) {
	tbl := New("disciplinas", []Column{
		{Key: "nome", Mode: Lexical},
		{Key: "carga", Mode: Numeric},
	}, []*Row{
		{ID: 1, Cells: []string{"Matemática", "80h"}},
		{ID: 2, Cells: []string{"História", "40h"}},
		{ID: 3, Cells: []string{"Português", "60h"}},
	})

	tbl.SortBy(1)

	assert.Equal(t, []int64{2, 3, 1}, ids(tbl.Rows()))
}

func TestTableSortPreservesRowState(t *testing.T) {
	rows := rowsOf([]string{"b"}, []string{"a"}, []string{"c"})
	rows[0].Marked = true
	rows[2].Hidden = true
	tbl := New("alunos", []Column{{Key: "nome"}}, rows)

	tbl.SortBy(0)

	require.Equal(t, 3, tbl.Len())
	assert.True(t, tbl.Find(1).Marked)
	assert.True(t, tbl.Find(3).Hidden)
	assert.Same(t, rows[0], tbl.Find(1))
	assert.Equal(t, []int64{1}, ids(tbl.Marked()))
	assert.Equal(t, []int64{2, 1}, ids(tbl.Visible()))
}

func TestTableIndicatorBeforeAnySort(t *testing.T) {
	tbl := New("x", []Column{{Key: "a"}, {Key: "b"}}, nil)
	assert.False(t, tbl.SortState().Active())
	assert.Equal(t, None, tbl.Indicator(0))
	assert.Equal(t, None, tbl.Indicator(1))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"5", 5},
		{" 3.25 ", 3.25},
		{"80h", 80},
		{"-4", -4},
		{".5", 0.5},
		{"1e3", 1000},
		{"1,5", 1},
		{"abc", 0},
		{"", 0},
		{"-", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}

func TestTableReapplyRestoresSortAndQuery(t *testing.T) {
	cols := []Column{{Key: "nome"}}
	before := New("alunos", cols, rowsOf([]string{"Bruno"}, []string{"Ana"}, []string{"Carla"}))
	before.SortBy(0)
	before.SortBy(0)
	before.FilterBy("a")

	reloaded := New("alunos", cols, rowsOf([]string{"Bruno"}, []string{"Ana"}, []string{"Carla"}, []string{"Davi"}))
	reloaded.Reapply(before.SortState(), before.Query())

	assert.Equal(t, before.SortState(), reloaded.SortState())
	assert.Equal(t, "a", reloaded.Query())
	if diff := cmp.Diff([]string{"Davi", "Carla", "Ana"}, firstCells(reloaded.Visible())); diff != "" {
		t.Errorf("visible rows mismatch (-want +got):\n%s", diff)
	}
}

func TestTableReapplyUnsortedOnlyFilters(t *testing.T) {
	tbl := New("x", []Column{{Key: "a"}}, rowsOf([]string{"b"}, []string{"a"}))

	tbl.Reapply(Unsorted(), "")

	assert.False(t, tbl.SortState().Active())
	assert.Equal(t, []int64{1, 2}, ids(tbl.Visible()))
}

func TestSortUsesKeysOverDisplayText(t *testing.T) {
	rows := []*Row{
		{ID: 1, Cells: []string{"05/01/2025"}, Keys: []string{"2025-01-05T09:00:00"}},
		{ID: 2, Cells: []string{"20/12/2024"}, Keys: []string{"2024-12-20T09:00:00"}},
		{ID: 3, Cells: []string{"01/06/2024"}},
	}

	state := Sort(rows, 0, Lexical, Unsorted())

	require.Equal(t, Ascending, state.Direction)
	assert.Empty(t, cmp.Diff([]int64{3, 2, 1}, ids(rows)), "a row without a key sorts by its cell")
	assert.Equal(t, "05/01/2025", rows[2].Cell(0), "cells are left as displayed")
}
