// Package table holds the row records behind every list screen and the two
// operations that act on them: a stable column sort and a live text filter.
//
// A Table never creates or destroys rows. Sorting reorders the row pointers
// and filtering flips each row's Hidden flag, so state attached to a row
// (selection marks, the cursor's row ID) survives both.
package table

// Mode selects how a column's cells are compared when sorting.
type Mode int

const (
	Lexical Mode = iota
	Numeric
)

// Direction is the sort direction shown on a column header.
type Direction int

const (
	None Direction = iota
	Ascending
	Descending
)

// Arrow returns the header marker for the direction.
func (d Direction) Arrow() string {
	switch d {
	case Ascending:
		return "↑"
	case Descending:
		return "↓"
	default:
		return ""
	}
}

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// Column describes one column of a table.
type Column struct {
	Key    string
	Label  string
	Mode   Mode
	Width  int
	Hidden bool
}

// Row is a record with a stable identity. Cells are display text indexed
// by column and are never modified by Sort or Filter. Keys optionally holds
// a sort key per column for cells whose display text does not order
// correctly, such as dd/mm/yyyy dates; an empty key falls back to the cell.
type Row struct {
	ID     int64
	Cells  []string
	Keys   []string
	Hidden bool
	Marked bool
}

// Cell returns the text at column i, or "" when the row has no such cell.
func (r *Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return r.Cells[i]
}

// SortKey returns the text column i is sorted by.
func (r *Row) SortKey(i int) string {
	if i >= 0 && i < len(r.Keys) && r.Keys[i] != "" {
		return r.Keys[i]
	}
	return r.Cell(i)
}

// SortState is the active sort of a table. Column is -1 when unsorted.
type SortState struct {
	Column    int
	Direction Direction
}

// Unsorted is the state of a freshly loaded table.
func Unsorted() SortState {
	return SortState{Column: -1, Direction: None}
}

// Active reports whether a column is currently sorted.
func (s SortState) Active() bool {
	return s.Column >= 0 && s.Direction != None
}

// Table is the controller for one list: its columns, its rows in display
// order, the active sort and the bound search query.
type Table struct {
	Key     string
	Columns []Column

	rows   []*Row
	sort   SortState
	query  string
	sorter *Sorter
}

// New creates a table over rows. The slice is copied; the rows are not.
func New(key string, columns []Column, rows []*Row) *Table {
	return &Table{
		Key:     key,
		Columns: columns,
		rows:    append([]*Row(nil), rows...),
		sort:    Unsorted(),
		sorter:  NewSorter(),
	}
}

// Rows returns every row in display order, hidden ones included.
func (t *Table) Rows() []*Row {
	return t.rows
}

// Visible returns the rows not hidden by the filter, in display order.
func (t *Table) Visible() []*Row {
	visible := make([]*Row, 0, len(t.rows))
	for _, r := range t.rows {
		if !r.Hidden {
			visible = append(visible, r)
		}
	}
	return visible
}

// Len returns the number of rows, hidden ones included.
func (t *Table) Len() int {
	return len(t.rows)
}

// Find returns the row with the given ID, or nil.
func (t *Table) Find(id int64) *Row {
	for _, r := range t.rows {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// Marked returns the marked rows in display order.
func (t *Table) Marked() []*Row {
	var marked []*Row
	for _, r := range t.rows {
		if r.Marked {
			marked = append(marked, r)
		}
	}
	return marked
}

// SortState returns the active sort.
func (t *Table) SortState() SortState {
	return t.sort
}

// SortBy sorts on column using the column's configured mode. Repeating the
// call on an ascending column flips it to descending; anything else starts
// ascending.
func (t *Table) SortBy(column int) SortState {
	mode := Lexical
	if column >= 0 && column < len(t.Columns) {
		mode = t.Columns[column].Mode
	}
	t.sort = t.sorter.Sort(t.rows, column, mode, t.sort)
	return t.sort
}

// ClearSort forgets the active sort without reordering rows.
func (t *Table) ClearSort() {
	t.sort = Unsorted()
}

// Indicator returns the marker direction for a column header. Only the
// active sort column ever reports a direction.
func (t *Table) Indicator(column int) Direction {
	if t.sort.Active() && t.sort.Column == column {
		return t.sort.Direction
	}
	return None
}

// FilterBy binds query to the table and applies it to every row. Cells of
// hidden columns are not searched, so call it again after hiding or showing
// a column.
func (t *Table) FilterBy(query string) {
	t.query = query
	filter(t.rows, query, t.searchable)
}

func (t *Table) searchable(column int) bool {
	return column >= len(t.Columns) || !t.Columns[column].Hidden
}

// Query returns the bound search query.
func (t *Table) Query() string {
	return t.query
}

// Reapply brings freshly loaded rows back to a previous sort and query, as
// after reloading a list. Unlike SortBy it never flips the direction.
func (t *Table) Reapply(state SortState, query string) {
	if state.Active() {
		prev := Unsorted()
		if state.Direction == Descending {
			prev = SortState{Column: state.Column, Direction: Ascending}
		}
		t.sort = prev
		t.SortBy(state.Column)
	}
	t.FilterBy(query)
}
