package ui

import (
	"fmt"
	"strings"

	"escola/internal/table"
	"escola/internal/util"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultViewportHeight = 10
	markerWidth           = 2
)

// TableView is a scrollable list screen over a table.Table. It owns the
// cursor, the active column and the search input bound to the table.
type TableView struct {
	table *table.Table
	noun  string
	empty string

	cursor         int
	offset         int
	viewportHeight int
	activeColumn   int

	search    textinput.Model
	searching bool
}

// NewTableView creates a view over t. noun names the rows in the status
// bar ("alunos"); empty is shown when the table has no rows at all.
func NewTableView(t *table.Table, noun, empty string) *TableView {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "Pesquisar..."
	in.CharLimit = 100
	in.PromptStyle = HelpKeyStyle
	in.PlaceholderStyle = HelpDescStyle

	return &TableView{
		table:  t,
		noun:   noun,
		empty:  empty,
		search: in,
	}
}

// Table returns the table behind the view.
func (v *TableView) Table() *table.Table {
	return v.table
}

// TableKey returns the key that identifies the table's preferences.
func (v *TableView) TableKey() string {
	return v.table.Key
}

// Reload replaces the rows, keeping hidden columns, the active sort, the
// search query and, when it still exists, the selected row.
func (v *TableView) Reload(rows []*table.Row) {
	selected := v.selectedID()
	old := v.table
	t := table.New(old.Key, old.Columns, rows)
	t.Reapply(old.SortState(), old.Query())
	v.table = t
	v.restoreCursor(selected)
}

func (v *TableView) visible() []*table.Row {
	return v.table.Visible()
}

// Selected returns the row under the cursor, or nil.
func (v *TableView) Selected() *table.Row {
	rows := v.visible()
	if v.cursor < 0 || v.cursor >= len(rows) {
		return nil
	}
	return rows[v.cursor]
}

func (v *TableView) selectedID() int64 {
	if r := v.Selected(); r != nil {
		return r.ID
	}
	return -1
}

// restoreCursor puts the cursor back on the row with id, or clamps it when
// the row is gone or hidden.
func (v *TableView) restoreCursor(id int64) {
	rows := v.visible()
	for i, r := range rows {
		if r.ID == id {
			v.cursor = i
			v.scrollToCursor()
			return
		}
	}
	v.clampCursor()
}

func (v *TableView) clampCursor() {
	n := len(v.visible())
	if n == 0 {
		v.cursor = 0
		v.offset = 0
		return
	}
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.scrollToCursor()
}

func (v *TableView) vh() int {
	if v.viewportHeight <= 0 {
		return defaultViewportHeight
	}
	return v.viewportHeight
}

func (v *TableView) scrollToCursor() {
	vh := v.vh()
	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+vh {
		v.offset = v.cursor - vh + 1
	}
}

// MoveDown moves the cursor down.
func (v *TableView) MoveDown() {
	if v.cursor < len(v.visible())-1 {
		v.cursor++
		v.scrollToCursor()
	}
}

// MoveUp moves the cursor up.
func (v *TableView) MoveUp() {
	if v.cursor > 0 {
		v.cursor--
		v.scrollToCursor()
	}
}

// JumpToTop jumps to the first row.
func (v *TableView) JumpToTop() {
	v.cursor = 0
	v.offset = 0
}

// JumpToBottom jumps to the last row.
func (v *TableView) JumpToBottom() {
	if n := len(v.visible()); n > 0 {
		v.cursor = n - 1
		v.scrollToCursor()
	}
}

// HalfPageDown moves down half a page.
func (v *TableView) HalfPageDown() {
	v.cursor += max(1, v.vh()/2)
	v.clampCursor()
}

// HalfPageUp moves up half a page.
func (v *TableView) HalfPageUp() {
	v.cursor -= max(1, v.vh()/2)
	v.clampCursor()
}

// ShowBackToTop reports whether the cursor is more than a viewport below
// the first row.
func (v *TableView) ShowBackToTop() bool {
	return v.cursor > v.vh()
}

func (v *TableView) columns() []table.Column {
	return v.table.Columns
}

func (v *TableView) visibleColumnIndexes() []int {
	var idxs []int
	for i, c := range v.columns() {
		if !c.Hidden {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (v *TableView) ensureVisibleActiveColumn() {
	cols := v.columns()
	if len(cols) == 0 {
		return
	}
	if v.activeColumn >= len(cols) || v.activeColumn < 0 {
		v.activeColumn = 0
	}
	if !cols[v.activeColumn].Hidden {
		return
	}
	for i := range cols {
		if !cols[i].Hidden {
			v.activeColumn = i
			return
		}
	}
	cols[0].Hidden = false
	v.activeColumn = 0
}

// ActiveColumn returns the index of the active column.
func (v *TableView) ActiveColumn() int {
	return v.activeColumn
}

func (v *TableView) NextColumn() {
	cols := v.columns()
	start := v.activeColumn
	for {
		v.activeColumn = (v.activeColumn + 1) % len(cols)
		if !cols[v.activeColumn].Hidden || v.activeColumn == start {
			return
		}
	}
}

func (v *TableView) PrevColumn() {
	cols := v.columns()
	start := v.activeColumn
	for {
		v.activeColumn--
		if v.activeColumn < 0 {
			v.activeColumn = len(cols) - 1
		}
		if !cols[v.activeColumn].Hidden || v.activeColumn == start {
			return
		}
	}
}

func (v *TableView) HideActiveColumn() bool {
	if len(v.visibleColumnIndexes()) <= 1 {
		return false
	}
	v.columns()[v.activeColumn].Hidden = true
	v.ensureVisibleActiveColumn()
	v.refilter()
	return true
}

func (v *TableView) ShowAllColumns() {
	cols := v.columns()
	for i := range cols {
		cols[i].Hidden = false
	}
	v.refilter()
}

// refilter runs the bound query again after the searchable columns changed.
func (v *TableView) refilter() {
	if v.table.Query() == "" {
		return
	}
	id := v.selectedID()
	v.table.FilterBy(v.table.Query())
	v.restoreCursor(id)
}

// SortActiveColumn sorts on the active column, toggling the direction when
// it is already the ascending sort column. The cursor stays on its row.
func (v *TableView) SortActiveColumn() string {
	id := v.selectedID()
	state := v.table.SortBy(v.activeColumn)
	v.restoreCursor(id)

	dir := "crescente"
	if state.Direction == table.Descending {
		dir = "decrescente"
	}
	return fmt.Sprintf("Ordenado por %s (%s)", strings.ToUpper(v.columns()[v.activeColumn].Label), dir)
}

// ToggleMark marks or unmarks the row under the cursor.
func (v *TableView) ToggleMark() bool {
	r := v.Selected()
	if r == nil {
		return false
	}
	r.Marked = !r.Marked
	return true
}

// TargetIDs returns the IDs of the marked rows the filter shows, or of the
// row under the cursor when none of them is marked.
func (v *TableView) TargetIDs() []int64 {
	var ids []int64
	for _, r := range v.visible() {
		if r.Marked {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		if r := v.Selected(); r != nil {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Searching reports whether the search input has focus.
func (v *TableView) Searching() bool {
	return v.searching
}

// StartSearch focuses the search input, prefilled with the bound query.
func (v *TableView) StartSearch() tea.Cmd {
	v.searching = true
	v.search.SetValue(v.table.Query())
	v.search.CursorEnd()
	return v.search.Focus()
}

// UpdateSearch feeds a key to the search input and filters the table on
// every edit. enter keeps the query; esc clears it.
func (v *TableView) UpdateSearch(msg tea.KeyMsg) tea.Cmd {
	id := v.selectedID()
	switch msg.String() {
	case "enter":
		v.searching = false
		v.search.Blur()
		return nil
	case "esc":
		v.searching = false
		v.search.Blur()
		v.search.SetValue("")
		v.table.FilterBy("")
		v.restoreCursor(id)
		return nil
	}

	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	if v.search.Value() != v.table.Query() {
		v.table.FilterBy(v.search.Value())
		v.restoreCursor(id)
	}
	return cmd
}

// ApplyPrefs restores hidden columns and the active column.
func (v *TableView) ApplyPrefs(prefs TablePrefs) {
	hidden := make(map[string]bool, len(prefs.HiddenColumns))
	for _, c := range prefs.HiddenColumns {
		hidden[c] = true
	}
	cols := v.columns()
	for i := range cols {
		cols[i].Hidden = hidden[cols[i].Key]
	}
	if prefs.ActiveColumn != "" {
		for i, c := range cols {
			if c.Key == prefs.ActiveColumn {
				v.activeColumn = i
				break
			}
		}
	}
	v.ensureVisibleActiveColumn()
	v.refilter()
}

// Prefs returns the column layout to persist. The sort is not part of it.
func (v *TableView) Prefs() TablePrefs {
	var hidden []string
	for _, c := range v.columns() {
		if c.Hidden {
			hidden = append(hidden, c.Key)
		}
	}
	prefs := TablePrefs{HiddenColumns: hidden}
	if cols := v.columns(); len(cols) > 0 {
		prefs.ActiveColumn = cols[v.activeColumn].Key
	}
	return prefs
}

func (v *TableView) TableMeta() string {
	cols := v.columns()
	if len(cols) == 0 {
		return ""
	}
	parts := []string{fmt.Sprintf("col %s", strings.ToUpper(cols[v.activeColumn].Label))}
	if s := v.table.SortState(); s.Active() && s.Column < len(cols) {
		parts = append(parts, fmt.Sprintf("ordem %s %s", strings.ToUpper(cols[s.Column].Label), s.Direction.Arrow()))
	}
	if q := v.table.Query(); q != "" {
		parts = append(parts, fmt.Sprintf("busca %q", q))
	}
	if n := len(v.table.Marked()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d marcados", n))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders the table.
func (v *TableView) View(width, height int) string {
	if v.table.Len() == 0 {
		return EmptyStateStyle.Width(width).Height(height).Render(v.empty)
	}

	visibleCols := v.visibleColumnIndexes()
	widths := []int{markerWidth}
	headers := []string{""}
	totalFixed := markerWidth
	for _, idx := range visibleCols {
		col := v.columns()[idx]
		label := formatHeaderLabel(col.Label)
		if arrow := v.table.Indicator(idx).Arrow(); arrow != "" {
			label += " " + arrow
		}
		if idx == v.activeColumn {
			label = renderActiveHeaderLabel(label)
		}
		cellWidth := max(col.Width, lipgloss.Width(label)+1)
		totalFixed += cellWidth
		widths = append(widths, cellWidth)
		headers = append(headers, label)
	}
	sepTotal := (len(widths) - 1) * tableSeparatorWidth()
	if extra := width - totalFixed - sepTotal - 2; extra > 0 {
		widths[len(widths)-1] += extra
	}

	header := renderTableRow(headers, widths, TableHeaderStyle)
	divider := renderTableDivider(widths)

	var searchLine string
	if v.searching || v.table.Query() != "" {
		if v.searching {
			searchLine = v.search.View()
		} else {
			searchLine = HelpKeyStyle.Render("/ ") + NormalRowStyle.Render(v.table.Query())
		}
	}

	status := v.renderStatus(width)

	reserved := 2 + lipgloss.Height(status)
	if searchLine != "" {
		reserved++
	}
	v.viewportHeight = max(1, height-reserved)
	v.scrollToCursor()

	rows := v.visible()
	var lines []string
	for i := v.offset; i < len(rows) && i < v.offset+v.viewportHeight; i++ {
		row := rows[i]
		style := NormalRowStyle
		if row.Marked {
			style = MarkedRowStyle
		}
		if i == v.cursor {
			style = SelectedRowStyle
		}
		marker := ""
		if row.Marked {
			marker = "●"
		}
		cells := []string{marker}
		for _, idx := range visibleCols {
			cells = append(cells, row.Cell(idx))
		}
		lines = append(lines, renderTableRow(cells, widths, style))
	}
	if len(rows) == 0 {
		lines = append(lines, HelpDescStyle.Render("  Nenhum resultado para a busca."))
	}

	parts := []string{}
	if searchLine != "" {
		parts = append(parts, searchLine)
	}
	parts = append(parts, header, divider, strings.Join(lines, "\n"))
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	spacerHeight := max(0, height-lipgloss.Height(content)-lipgloss.Height(status))
	spacer := lipgloss.NewStyle().Height(spacerHeight).Render("")

	return lipgloss.JoinVertical(lipgloss.Left, content, spacer, status)
}

func (v *TableView) renderStatus(width int) string {
	shown := len(v.visible())
	count := fmt.Sprintf("%d %s", shown, v.noun)
	if shown != v.table.Len() {
		count = fmt.Sprintf("%d/%d %s", shown, v.table.Len(), v.noun)
	}
	rowPos := ""
	if shown > 0 {
		rowPos = fmt.Sprintf("  ·  linha %d/%d", v.cursor+1, shown)
	}
	meta := v.TableMeta()
	if meta != "" {
		meta = "  ·  " + meta
	}
	left := StatusBarStyle.Render(count + rowPos + meta)
	if !v.ShowBackToTop() {
		return left
	}
	hint := HintStyle.Render("gg ↑ topo")
	pad := max(1, width-lipgloss.Width(left)-lipgloss.Width(hint))
	return left + strings.Repeat(" ", pad) + hint
}

func formatHeaderLabel(label string) string {
	return strings.ToUpper(label)
}

func renderActiveHeaderLabel(label string) string {
	return lipgloss.NewStyle().Underline(true).Render(label)
}

func tableSeparatorWidth() int {
	return 1
}

// renderTableRow pads every cell to its width and joins them. Cells wider
// than their column are truncated.
func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if lipgloss.Width(cell) > w {
			cell = util.TruncateString(cell, w)
		}
		parts[i] = cell + strings.Repeat(" ", max(0, w-lipgloss.Width(cell)))
	}
	return style.Render(strings.Join(parts, strings.Repeat(" ", tableSeparatorWidth())))
}

func renderTableDivider(widths []int) string {
	total := 0
	for _, w := range widths {
		total += w
	}
	total += (len(widths) - 1) * tableSeparatorWidth()
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("─", max(0, total)))
}
