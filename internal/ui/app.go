package ui

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"escola/internal/db"
	"escola/internal/model"
	"escola/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Options holds the file locations the UI reads and writes.
type Options struct {
	UploadsDir string
	PrefsPath  string // empty disables persistence
}

// Model is the root Bubble Tea model.
type Model struct {
	db      *sql.DB
	logger  *zap.Logger
	opts    Options
	session *model.Session

	screen model.Screen
	mode   model.Mode
	gState GState

	width  int
	height int

	error       string
	info        string
	bannerSeq   int
	showingHelp bool
	confirm     *confirmPrompt

	// Screen models
	login       *LoginModel
	dashboard   *DashboardModel
	students    *TableView
	professors  *TableView
	subjects    *TableView
	news        *TableView
	newsDetail  *NewsDetailModel
	studentArea *StudentAreaModel
	studentForm *StudentFormModel
	newsForm    *NewsFormModel

	keys      KeyMap
	formKeys  FormKeyMap
	prefs     UIPreferences
	undoStack []undoAction
	redoStack []undoAction
}

// New creates a new root model showing the login screen.
func New(database *sql.DB, logger *zap.Logger, opts Options) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		db:       database,
		logger:   logger,
		opts:     opts,
		screen:   model.ScreenLogin,
		mode:     model.ModeNav,
		gState:   GStateIdle,
		login:    NewLoginModel(database),
		keys:     DefaultKeyMap(),
		formKeys: DefaultFormKeyMap(),
		prefs:    loadUIPreferences(opts.PrefsPath),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.screen == model.ScreenLogin {
			return m.updateLogin(msg)
		}

		switch m.mode {
		case model.ModeConfirm:
			return m.handleConfirmMode(msg)
		case model.ModeSearch:
			return m.handleSearchMode(msg)
		case model.ModeInsert:
			return m.handleInsertMode(msg)
		}

		if key.Matches(msg, m.keys.Help) {
			m.showingHelp = !m.showingHelp
			return m, nil
		}
		if m.showingHelp {
			if msg.String() == "esc" {
				m.showingHelp = false
			}
			return m, nil
		}
		return m.handleNavMode(msg)

	case bannerExpiredMsg:
		m.expireBanner(msg)
		return m, nil

	case model.ErrorMsg:
		return m, m.handleError(msg.Err)

	case model.LoginSucceededMsg:
		return m.startSession(msg.Session)

	case model.DashboardLoadedMsg:
		m.dashboard = NewDashboardModel(msg.Dashboard)
		return m, nil

	case model.StudentsLoadedMsg:
		m.students = m.refreshView(m.students, NewStudentsView(msg.Students))
		m.logger.Debug("students loaded", zap.Int("count", len(msg.Students)))
		return m, nil

	case model.ProfessorsLoadedMsg:
		m.professors = m.refreshView(m.professors, NewProfessorsView(msg.Professors))
		return m, nil

	case model.SubjectsLoadedMsg:
		m.subjects = m.refreshView(m.subjects, NewSubjectsView(msg.Subjects))
		return m, nil

	case model.NewsLoadedMsg:
		m.news = m.refreshView(m.news, NewNewsView(msg.News))
		return m, nil

	case model.NewsDetailLoadedMsg:
		m.newsDetail = NewNewsDetailModel(msg.News, msg.Image)
		m.screen = model.ScreenNewsDetail
		return m, nil

	case model.StudentAreaLoadedMsg:
		if m.studentArea == nil {
			m.studentArea = NewStudentAreaModel(msg.Area)
			m.studentArea.enrollments.ApplyPrefs(m.prefs.Tables[enrollmentsKey])
		} else {
			m.studentArea.Refresh(msg.Area)
		}
		return m, nil

	case studentEditLoadedMsg:
		m.studentForm = NewStudentFormModel(m.db, msg.student.ID)
		m.studentForm.LoadStudent(msg.student)
		m.mode = model.ModeInsert
		m.screen = model.ScreenStudentForm
		return m, textinput.Blink

	case model.StudentSavedMsg:
		if action := m.buildStudentSaveAction(msg); action != nil {
			m.pushUndoAction(*action)
		}
		m.mode = model.ModeNav
		m.screen = model.ScreenStudents
		m.studentForm = nil
		m.logger.Info("student saved", zap.Int64("id", msg.ID), zap.String("operation", msg.Operation), zap.String("by", m.sessionUsername()))
		text := "Aluno cadastrado com sucesso!"
		if msg.Operation == "update" {
			text = "Aluno atualizado com sucesso!"
		}
		return m, tea.Batch(m.notify(bannerInfo, text+" (u desfaz)"), loadStudentsCmd(m.db), loadDashboardCmd(m.db))

	case model.StudentsDeletedMsg:
		if len(msg.Deleted) == 0 {
			return m, m.notify(bannerInfo, "Nenhum aluno excluído")
		}
		m.pushUndoAction(m.buildDeleteStudentsAction(msg))
		ids := make([]int64, len(msg.Deleted))
		for i, d := range msg.Deleted {
			ids[i] = d.Record.ID
		}
		m.logger.Info("students deleted", zap.Int64s("ids", ids), zap.String("by", m.sessionUsername()))
		text := fmt.Sprintf("%d alunos excluídos (u desfaz)", len(ids))
		if len(ids) == 1 {
			text = "Aluno excluído com sucesso! (u desfaz)"
		}
		return m, tea.Batch(m.notify(bannerInfo, text), loadStudentsCmd(m.db), loadDashboardCmd(m.db))

	case model.NewsSavedMsg:
		m.pushUndoAction(m.buildNewsSaveAction(msg))
		m.mode = model.ModeNav
		m.screen = model.ScreenNews
		m.newsForm = nil
		m.logger.Info("news published", zap.Int64("id", msg.ID), zap.String("by", m.sessionUsername()))
		return m, tea.Batch(m.notify(bannerInfo, "Notícia publicada com sucesso! (u desfaz)"), loadNewsCmd(m.db), loadDashboardCmd(m.db))

	case model.NewsDeletedMsg:
		m.pushUndoAction(m.buildDeleteNewsAction(msg))
		m.screen = model.ScreenNews
		m.newsDetail = nil
		m.logger.Info("news deleted", zap.Int64("id", msg.Deleted.ID), zap.String("by", m.sessionUsername()))
		return m, tea.Batch(m.notify(bannerInfo, "Notícia excluída (u desfaz)"), loadNewsCmd(m.db), loadDashboardCmd(m.db))

	case model.FormCancelledMsg:
		m.mode = model.ModeNav
		switch m.screen {
		case model.ScreenStudentForm:
			m.screen = model.ScreenStudents
		case model.ScreenNewsForm:
			m.screen = model.ScreenNews
		}
		m.studentForm = nil
		m.newsForm = nil
		return m, nil

	case undoAppliedMsg:
		return m, m.applyUndoResult(msg)

	default:
		// Pass all other messages (spinner ticks, cursor blinks) to the
		// focused form
		if m.screen == model.ScreenLogin {
			return m.updateLogin(msg)
		}
		if m.mode == model.ModeInsert {
			return m.handleInsertMode(msg)
		}
	}

	return m, nil
}

func (m *Model) handleError(err error) tea.Cmd {
	if m.screen == model.ScreenLogin && m.login != nil {
		m.logger.Info("login failed", zap.String("username", strings.TrimSpace(m.login.username.Value())), zap.Error(err))
		m.login.Fail(err)
		return nil
	}
	if m.mode == model.ModeInsert {
		m.logger.Debug("form rejected", zap.Error(err))
		switch {
		case m.screen == model.ScreenStudentForm && m.studentForm != nil:
			m.studentForm.Fail(err)
			return nil
		case m.screen == model.ScreenNewsForm && m.newsForm != nil:
			m.newsForm.Fail(err)
			return nil
		}
	}
	m.logger.Error("operation failed", zap.Error(err))
	return m.notify(bannerError, err.Error())
}

func (m Model) startSession(s model.Session) (tea.Model, tea.Cmd) {
	m.session = &s
	m.login = nil
	m.mode = model.ModeNav
	m.undoStack = nil
	m.redoStack = nil
	if s.User.Role.IsStaff() {
		m.screen = model.ScreenDashboard
	} else {
		m.screen = model.ScreenStudentArea
	}
	m.logger.Info("login",
		zap.String("session", s.ID),
		zap.String("username", s.User.Username),
		zap.String("role", string(s.User.Role)),
	)
	return m, tea.Batch(
		m.notify(bannerInfo, "Bem-vindo, "+s.User.Name+"!"),
		m.reloadAllCmd(),
	)
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if m.session != nil {
		m.logger.Info("logout",
			zap.String("session", m.session.ID),
			zap.String("username", m.session.User.Username),
			zap.Duration("duration", time.Since(m.session.StartedAt)),
		)
	}
	m.session = nil
	m.screen = model.ScreenLogin
	m.mode = model.ModeNav
	m.login = NewLoginModel(m.db)
	m.dashboard = nil
	m.students = nil
	m.professors = nil
	m.subjects = nil
	m.news = nil
	m.newsDetail = nil
	m.studentArea = nil
	m.undoStack = nil
	m.redoStack = nil
	return m, m.notify(bannerInfo, "Você saiu do sistema.")
}

func (m *Model) sessionUsername() string {
	if m.session == nil {
		return ""
	}
	return m.session.User.Username
}

func (m *Model) isAdmin() bool {
	return m.session != nil && m.session.User.Role == model.RoleAdmin
}

func (m *Model) isStaff() bool {
	return m.session != nil && m.session.User.Role.IsStaff()
}

// refreshView returns fresh on the first load, with persisted column
// preferences applied. Later loads go through Reload so the sort, the search
// and the selection survive.
func (m *Model) refreshView(current, fresh *TableView) *TableView {
	if current == nil {
		fresh.ApplyPrefs(m.prefs.Tables[fresh.Table().Key])
		return fresh
	}
	current.Reload(fresh.Table().Rows())
	return current
}

func (m *Model) reloadAllCmd() tea.Cmd {
	if m.session == nil {
		return nil
	}
	cmds := []tea.Cmd{loadNewsCmd(m.db)}
	if m.isStaff() {
		cmds = append(cmds,
			loadDashboardCmd(m.db),
			loadStudentsCmd(m.db),
			loadSubjectsCmd(m.db),
		)
		if m.isAdmin() {
			cmds = append(cmds, loadProfessorsCmd(m.db))
		}
	} else {
		cmds = append(cmds, loadStudentAreaCmd(m.db, m.session.User.ID))
	}
	return tea.Batch(cmds...)
}

type tab struct {
	name   string
	screen model.Screen
}

func (m *Model) tabs() []tab {
	if m.session == nil {
		return nil
	}
	if !m.isStaff() {
		return []tab{
			{"Minha área", model.ScreenStudentArea},
			{"Notícias", model.ScreenNews},
		}
	}
	tabs := []tab{
		{"Painel", model.ScreenDashboard},
		{"Alunos", model.ScreenStudents},
	}
	if m.isAdmin() {
		tabs = append(tabs, tab{"Professores", model.ScreenProfessors})
	}
	return append(tabs,
		tab{"Disciplinas", model.ScreenSubjects},
		tab{"Notícias", model.ScreenNews},
	)
}

func (m *Model) tabIndex() int {
	for i, t := range m.tabs() {
		if t.screen == m.screen {
			return i
		}
	}
	return -1
}

func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	tabs := m.tabs()
	i := m.tabIndex()
	if i < 0 || len(tabs) == 0 {
		return m, nil
	}
	m.screen = tabs[(i+delta+len(tabs))%len(tabs)].screen
	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	var banners []string
	if m.error != "" {
		banners = append(banners, ErrorStyle.Width(m.width).Render("Erro: "+m.error))
	}
	if m.info != "" {
		banners = append(banners, SuccessStyle.Width(m.width).Render(m.info))
	}
	if m.mode == model.ModeConfirm && m.confirm != nil {
		banners = append(banners, m.confirm.View(m.width))
	}

	showTabs := m.tabIndex() >= 0

	// Header and footer take one line each, plus padding
	contentHeight := m.height - 4
	if showTabs {
		contentHeight -= 2
	}
	for _, b := range banners {
		contentHeight -= lipgloss.Height(b)
	}
	contentHeight = max(3, contentHeight)

	var content string
	var breadcrumbParts []string

	switch m.screen {
	case model.ScreenLogin:
		breadcrumbParts = []string{"Entrar"}
		if m.login != nil {
			content = m.login.View(m.width, contentHeight)
		}
	case model.ScreenDashboard:
		breadcrumbParts = []string{"Painel"}
		if m.dashboard != nil {
			content = m.dashboard.View(m.width, contentHeight)
		}
	case model.ScreenStudents:
		breadcrumbParts = []string{"Alunos"}
		if m.students != nil {
			content = m.students.View(m.width, contentHeight)
		}
	case model.ScreenProfessors:
		breadcrumbParts = []string{"Professores"}
		if m.professors != nil {
			content = m.professors.View(m.width, contentHeight)
		}
	case model.ScreenSubjects:
		breadcrumbParts = []string{"Disciplinas"}
		if m.subjects != nil {
			content = m.subjects.View(m.width, contentHeight)
		}
	case model.ScreenNews:
		breadcrumbParts = []string{"Notícias"}
		if m.news != nil {
			content = m.news.View(m.width, contentHeight)
		}
	case model.ScreenNewsDetail:
		breadcrumbParts = []string{"Notícias", "Detalhe"}
		if m.newsDetail != nil {
			breadcrumbParts = []string{"Notícias", util.TruncateString(m.newsDetail.news.Title, 40)}
			content = m.newsDetail.View(m.width, contentHeight)
		}
	case model.ScreenStudentArea:
		breadcrumbParts = []string{"Minha área"}
		if m.studentArea != nil {
			content = m.studentArea.View(m.width, contentHeight)
		}
	case model.ScreenStudentForm:
		breadcrumbParts = []string{"Alunos", "Cadastrar"}
		if m.studentForm != nil {
			if m.studentForm.editing() {
				breadcrumbParts = []string{"Alunos", "Editar"}
			}
			content = m.studentForm.View(m.width, contentHeight)
		}
	case model.ScreenNewsForm:
		breadcrumbParts = []string{"Notícias", "Publicar"}
		if m.newsForm != nil {
			content = m.newsForm.View(m.width, contentHeight)
		}
	}

	header := renderHeader(breadcrumbParts, m.sessionLabel(), m.width)
	footer := RenderHelp(m.screen, m.mode, m.width)

	// Ensure content fills the available height to anchor footer at bottom
	contentStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight)
	content = contentStyle.Render(content)

	parts := []string{header}
	if showTabs {
		parts = append(parts, renderTabs(m.tabs(), m.screen, m.width))
	}
	parts = append(parts, banners...)
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) sessionLabel() string {
	if m.session == nil {
		return ""
	}
	return m.session.User.Name + " (" + m.session.User.Role.Label() + ")"
}

func renderTabs(tabs []tab, screen model.Screen, width int) string {
	var tabStrings []string
	for _, t := range tabs {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if screen == t.screen {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		tabStrings = append(tabStrings, tabStyle.Render(t.name))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, user string, width int) string {
	// Left side: app name + breadcrumb
	title := HeaderStyle.Render("escola")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	// Right side: logged-in user and current date
	right := BreadcrumbStyle.Render(util.FormatDay(time.Now())) + "  "
	if user != "" {
		right = BreadcrumbActiveStyle.Render(user) + BreadcrumbStyle.Render("  ·  ") + right
	}

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))

	headerContent := left + strings.Repeat(" ", padding) + right
	return TitleStyle.Width(width).Render(headerContent)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle "gg" state machine
	if msg.String() == "g" {
		if m.gState == GStateFirstG {
			m.gState = GStateIdle
			if t := m.currentTable(); t != nil {
				t.JumpToTop()
			}
			return m, nil
		}
		m.gState = GStateFirstG
		return m, nil
	}
	m.gState = GStateIdle

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(-1)
	case key.Matches(msg, m.keys.Reload):
		return m, m.reloadAllCmd()
	case key.Matches(msg, m.keys.Undo):
		if len(m.undoStack) == 0 {
			return m, m.notify(bannerInfo, "Nada para desfazer")
		}
		return m, m.undoCmd()
	case key.Matches(msg, m.keys.Redo):
		if len(m.redoStack) == 0 {
			return m, m.notify(bannerInfo, "Nada para refazer")
		}
		return m, m.redoCmd()
	}

	if t := m.currentTable(); t != nil {
		if handled, cmd := m.handleTableKey(t, msg); handled {
			return m, cmd
		}
	}

	switch m.screen {
	case model.ScreenStudents:
		return m.handleStudentsNav(msg)
	case model.ScreenNews:
		return m.handleNewsNav(msg)
	case model.ScreenNewsDetail:
		return m.handleNewsDetailNav(msg)
	}

	return m, nil
}

func (m *Model) currentTable() *TableView {
	switch m.screen {
	case model.ScreenStudents:
		return m.students
	case model.ScreenProfessors:
		return m.professors
	case model.ScreenSubjects:
		return m.subjects
	case model.ScreenNews:
		return m.news
	case model.ScreenStudentArea:
		if m.studentArea != nil {
			return m.studentArea.enrollments
		}
	}
	return nil
}

// handleTableKey applies the keys every table screen shares.
func (m *Model) handleTableKey(t tableController, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		t.MoveDown()
	case key.Matches(msg, m.keys.Up):
		t.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		t.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		t.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		t.HalfPageUp()
	case key.Matches(msg, m.keys.NextColumn):
		t.NextColumn()
		m.persistTablePrefs(t)
	case key.Matches(msg, m.keys.PrevColumn):
		t.PrevColumn()
		m.persistTablePrefs(t)
	case key.Matches(msg, m.keys.Sort):
		text := t.SortActiveColumn()
		m.logger.Debug("table sorted", zap.String("table", t.TableKey()), zap.String("state", t.TableMeta()))
		return true, m.notify(bannerInfo, text)
	case key.Matches(msg, m.keys.HideColumn):
		if !t.HideActiveColumn() {
			return true, m.notify(bannerInfo, "Não é possível ocultar a última coluna visível")
		}
		m.persistTablePrefs(t)
	case key.Matches(msg, m.keys.ShowColumns):
		t.ShowAllColumns()
		m.persistTablePrefs(t)
	case key.Matches(msg, m.keys.Mark):
		t.ToggleMark()
	case key.Matches(msg, m.keys.Search):
		m.mode = model.ModeSearch
		return true, t.StartSearch()
	default:
		return false, nil
	}
	return true, nil
}

func (m *Model) persistTablePrefs(t tableController) {
	if m.prefs.Tables == nil {
		m.prefs.Tables = map[string]TablePrefs{}
	}
	m.prefs.Tables[t.TableKey()] = t.Prefs()
	if err := saveUIPreferences(m.opts.PrefsPath, m.prefs); err != nil {
		m.logger.Warn("failed to save ui preferences", zap.Error(err))
	}
}

// handleSearchMode feeds keys to the search input of the current table.
func (m Model) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := m.currentTable()
	if t == nil {
		m.mode = model.ModeNav
		return m, nil
	}
	cmd := t.UpdateSearch(msg)
	if !t.Searching() {
		m.mode = model.ModeNav
		m.logger.Debug("table filtered",
			zap.String("table", t.TableKey()),
			zap.String("query", t.Table().Query()),
			zap.Int("visible", len(t.Table().Visible())),
		)
	}
	return m, cmd
}

// handleInsertMode handles insert/edit mode input.
func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case model.ScreenStudentForm:
		if m.studentForm != nil {
			newForm, cmd := m.studentForm.Update(msg)
			m.studentForm = &newForm
			return m, cmd
		}
	case model.ScreenNewsForm:
		if m.newsForm != nil {
			newForm, cmd := m.newsForm.Update(msg)
			m.newsForm = &newForm
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.login == nil {
		m.login = NewLoginModel(m.db)
	}
	newLogin, cmd := m.login.Update(msg)
	m.login = &newLogin
	return m, cmd
}

func (m Model) handleStudentsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.students == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Add):
		m.mode = model.ModeInsert
		m.screen = model.ScreenStudentForm
		m.studentForm = NewStudentFormModel(m.db, 0)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Select):
		if r := m.students.Selected(); r != nil {
			return m, loadStudentForEditCmd(m.db, r.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if !m.isAdmin() {
			return m, m.notify(bannerError, "Apenas administradores podem excluir alunos.")
		}
		ids := m.students.TargetIDs()
		if len(ids) == 0 {
			return m, nil
		}
		detail := fmt.Sprintf("%d alunos marcados", len(ids))
		if len(ids) == 1 {
			if r := m.students.Table().Find(ids[0]); r != nil {
				detail = "Aluno: " + r.Cell(0)
			}
		}
		m.askConfirm(detail, deleteStudentsCmd(m.db, ids))
		return m, nil
	}
	return m, nil
}

func (m Model) handleNewsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.news == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Add):
		if !m.isStaff() {
			return m, nil
		}
		m.mode = model.ModeInsert
		m.screen = model.ScreenNewsForm
		m.newsForm = NewNewsFormModel(m.db, m.opts.UploadsDir, m.session.User.ID)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Select):
		if r := m.news.Selected(); r != nil {
			return m, loadNewsDetailCmd(m.db, m.logger, m.opts.UploadsDir, r.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if !m.isAdmin() {
			return m, m.notify(bannerError, "Apenas administradores podem excluir notícias.")
		}
		if r := m.news.Selected(); r != nil {
			m.askConfirm("Notícia: "+r.Cell(0), deleteNewsCmd(m.db, r.ID))
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleNewsDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = model.ScreenNews
		m.newsDetail = nil
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if m.newsDetail == nil {
			return m, nil
		}
		if !m.isAdmin() {
			return m, m.notify(bannerError, "Apenas administradores podem excluir notícias.")
		}
		n := m.newsDetail.news
		m.askConfirm("Notícia: "+n.Title, deleteNewsCmd(m.db, n.ID))
		return m, nil
	}
	return m, nil
}

// Commands

func loadDashboardCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		d, err := db.GetDashboard(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.DashboardLoadedMsg{Dashboard: d}
	}
}

func loadStudentsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		students, err := db.ListUsers(database, model.RoleStudent)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.StudentsLoadedMsg{Students: students}
	}
}

func loadProfessorsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		professors, err := db.ListUsers(database, model.RoleProfessor)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ProfessorsLoadedMsg{Professors: professors}
	}
}

func loadSubjectsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		subjects, err := db.ListSubjects(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.SubjectsLoadedMsg{Subjects: subjects}
	}
}

func loadNewsCmd(database *sql.DB) tea.Cmd {
	return func() tea.Msg {
		news, err := db.ListNews(database)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.NewsLoadedMsg{News: news}
	}
}

func loadStudentAreaCmd(database *sql.DB, studentID int64) tea.Cmd {
	return func() tea.Msg {
		area, err := db.GetStudentArea(database, studentID)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.StudentAreaLoadedMsg{Area: area}
	}
}

// loadNewsDetailCmd loads a news item. A missing or broken image only drops
// the preview.
func loadNewsDetailCmd(database *sql.DB, logger *zap.Logger, uploadsDir string, newsID int64) tea.Cmd {
	return func() tea.Msg {
		n, err := db.GetNews(database, newsID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load news: %w", err)}
		}
		img, err := loadNewsImage(uploadsDir, n.Image)
		if err != nil {
			logger.Warn("news image unavailable", zap.Int64("id", n.ID), zap.String("image", n.Image), zap.Error(err))
			img = nil
		}
		return model.NewsDetailLoadedMsg{News: n, Image: img}
	}
}

type studentEditLoadedMsg struct {
	student model.User
}

func loadStudentForEditCmd(database *sql.DB, studentID int64) tea.Cmd {
	return func() tea.Msg {
		u, err := db.GetUser(database, studentID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load student: %w", err)}
		}
		return studentEditLoadedMsg{student: u}
	}
}

// deleteStudentsCmd snapshots every student with its enrollments and then
// deletes them. Non-students among ids are skipped.
func deleteStudentsCmd(database *sql.DB, ids []int64) tea.Cmd {
	return func() tea.Msg {
		var pending []model.DeletedStudent
		for _, id := range ids {
			rec, err := db.GetUserRecord(database, id)
			if errors.Is(err, db.ErrNotFound) {
				continue
			}
			if err != nil {
				return model.ErrorMsg{Err: fmt.Errorf("failed to load student before delete: %w", err)}
			}
			if rec.Role != model.RoleStudent {
				continue
			}
			enrollments, err := db.GetEnrollmentsByStudent(database, id)
			if err != nil {
				return model.ErrorMsg{Err: fmt.Errorf("failed to load enrollments before delete: %w", err)}
			}
			pending = append(pending, model.DeletedStudent{Record: rec, Enrollments: enrollments})
		}

		deleted := make([]model.DeletedStudent, 0, len(pending))
		for _, d := range pending {
			if err := db.DeleteStudent(database, d.Record.ID); err != nil {
				if len(deleted) == 0 {
					return model.ErrorMsg{Err: fmt.Errorf("failed to delete student: %w", err)}
				}
				// keep what was deleted undoable
				break
			}
			deleted = append(deleted, d)
		}
		return model.StudentsDeletedMsg{Deleted: deleted}
	}
}

func deleteNewsCmd(database *sql.DB, newsID int64) tea.Cmd {
	return func() tea.Msg {
		n, err := db.GetNews(database, newsID)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to load news before delete: %w", err)}
		}
		if err := db.DeleteNews(database, newsID); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to delete news: %w", err)}
		}
		return model.NewsDeletedMsg{Deleted: n}
	}
}
