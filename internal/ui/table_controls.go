package ui

import tea "github.com/charmbracelet/bubbletea"

type tableController interface {
	MoveDown()
	MoveUp()
	JumpToTop()
	JumpToBottom()
	HalfPageDown()
	HalfPageUp()
	NextColumn()
	PrevColumn()
	SortActiveColumn() string
	HideActiveColumn() bool
	ShowAllColumns()
	ToggleMark() bool
	StartSearch() tea.Cmd
	UpdateSearch(msg tea.KeyMsg) tea.Cmd
	Searching() bool
	Prefs() TablePrefs
	TableKey() string
	TableMeta() string
}

var _ tableController = (*TableView)(nil)
