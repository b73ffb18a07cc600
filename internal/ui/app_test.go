package ui

import (
	"database/sql"
	"path/filepath"
	"testing"

	"escola/internal/db"
	"escola/internal/model"
	"escola/internal/table"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openSeededDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "escola.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	inserted, err := db.Seed(database, "", zap.NewNop())
	require.NoError(t, err)
	require.True(t, inserted)
	return database
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, k)
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = update(t, m, runes(string(r)))
	}
	return m
}

// drain runs cmd and every command of a batch it yields. Only use it on
// commands that contain no timers.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %v", zero, msgs)
	return zero
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	right = tea.KeyMsg{Type: tea.KeyRight}
	ctrlP = tea.KeyMsg{Type: tea.KeyCtrlP}
	ctrlS = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func submitLogin(t *testing.T, m Model, username, password string) (Model, tea.Cmd) {
	t.Helper()
	m = typeText(t, m, username)
	m = press(t, m, enter)
	m = typeText(t, m, password)
	return update(t, m, enter)
}

// loggedIn logs in through the login screen and loads the screens the
// user's role can reach.
func loggedIn(t *testing.T, username, password string) (Model, *sql.DB) {
	t.Helper()
	database := openSeededDB(t)
	m := New(database, zap.NewNop(), Options{UploadsDir: t.TempDir()})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	m, cmd := submitLogin(t, m, username, password)
	require.NotNil(t, cmd)
	success := findMsg[model.LoginSucceededMsg](t, drain(cmd))
	m, _ = update(t, m, success)

	m, _ = update(t, m, loadNewsCmd(database)())
	if success.Session.User.Role.IsStaff() {
		m, _ = update(t, m, loadDashboardCmd(database)())
		m, _ = update(t, m, loadStudentsCmd(database)())
		m, _ = update(t, m, loadSubjectsCmd(database)())
	} else {
		m, _ = update(t, m, loadStudentAreaCmd(database, success.Session.User.ID)())
	}
	return m, database
}

func tabNames(m Model) []string {
	var names []string
	for _, tb := range m.tabs() {
		names = append(names, tb.name)
	}
	return names
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	database := openSeededDB(t)
	m := New(database, zap.NewNop(), Options{})

	m, cmd := submitLogin(t, m, "admin", "errada")
	require.True(t, m.login.guard.submitting)

	failure := findMsg[model.ErrorMsg](t, drain(cmd))
	m, _ = update(t, m, failure)

	assert.Equal(t, model.ScreenLogin, m.screen)
	assert.Equal(t, "Usuário ou senha inválidos.", m.login.error)
	assert.Empty(t, m.login.password.Value())
	assert.False(t, m.login.guard.submitting)
	assert.Nil(t, m.session)
}

func TestLoginIgnoresRepeatedSubmit(t *testing.T) {
	m := New(openSeededDB(t), zap.NewNop(), Options{})

	m, cmd := submitLogin(t, m, "admin", "admin123")
	require.NotNil(t, cmd)

	_, again := update(t, m, enter)
	assert.Nil(t, again, "a second enter while submitting does nothing")
}

func TestLoginTogglesPasswordEcho(t *testing.T) {
	m := New(openSeededDB(t), zap.NewNop(), Options{})
	require.Equal(t, textinput.EchoPassword, m.login.password.EchoMode)

	m = press(t, m, ctrlP)
	assert.Equal(t, textinput.EchoNormal, m.login.password.EchoMode)

	m = press(t, m, ctrlP)
	assert.Equal(t, textinput.EchoPassword, m.login.password.EchoMode)
}

func TestAdminSession(t *testing.T) {
	m, _ := loggedIn(t, "admin", "admin123")

	assert.Equal(t, model.ScreenDashboard, m.screen)
	assert.Equal(t, model.RoleAdmin, m.session.User.Role)
	assert.NotEmpty(t, m.session.ID)
	assert.Equal(t, "Bem-vindo, Administrador Escola Colaço!", m.info)
	assert.Equal(t, []string{"Painel", "Alunos", "Professores", "Disciplinas", "Notícias"}, tabNames(m))

	m = press(t, m, right)
	assert.Equal(t, model.ScreenStudents, m.screen)
	assert.Contains(t, m.View(), "Carla Rodrigues")
}

func TestProfessorCannotDeleteStudents(t *testing.T) {
	m, _ := loggedIn(t, "profjoao", "prof123")

	assert.Equal(t, []string{"Painel", "Alunos", "Disciplinas", "Notícias"}, tabNames(m))

	m = press(t, m, right, runes("d"))
	assert.Equal(t, model.ScreenStudents, m.screen)
	assert.Equal(t, model.ModeNav, m.mode)
	assert.Nil(t, m.confirm)
	assert.Equal(t, "Apenas administradores podem excluir alunos.", m.error)
}

func TestStudentSession(t *testing.T) {
	m, _ := loggedIn(t, "ana2024", "aluno123")

	assert.Equal(t, model.ScreenStudentArea, m.screen)
	assert.Equal(t, []string{"Minha área", "Notícias"}, tabNames(m))
	require.NotNil(t, m.studentArea)
	assert.Len(t, m.studentArea.enrollments.Table().Rows(), 2)

	m = press(t, m, right, runes("a"))
	assert.Equal(t, model.ScreenNews, m.screen)
	assert.Nil(t, m.newsForm, "students cannot publish news")
	assert.Equal(t, model.ModeNav, m.mode)
}

func TestSortKeyOrdersStudents(t *testing.T) {
	m, _ := loggedIn(t, "admin", "admin123")
	m = press(t, m, right)

	m, cmd := update(t, m, runes("s"))
	assert.NotNil(t, cmd)
	assert.Equal(t, "Ordenado por NOME (crescente)", m.info)

	var names []string
	for _, r := range m.students.Table().Visible() {
		names = append(names, r.Cells[0])
	}
	assert.Equal(t, []string{"Ana Carolina Oliveira", "Bruno Mendes", "Carla Rodrigues"}, names)

	m, _ = update(t, m, runes("s"))
	assert.Equal(t, "Ordenado por NOME (decrescente)", m.info)
}

func TestSearchModeCapturesKeys(t *testing.T) {
	m, _ := loggedIn(t, "admin", "admin123")
	m = press(t, m, right, runes("/"))
	require.Equal(t, model.ModeSearch, m.mode)

	m = typeText(t, m, "bru")
	assert.Equal(t, model.ScreenStudents, m.screen)
	assert.Len(t, m.students.Table().Visible(), 1)

	m = press(t, m, enter)
	assert.Equal(t, model.ModeNav, m.mode)
	assert.Equal(t, "bru", m.students.Table().Query())

	m = press(t, m, runes("/"), esc)
	assert.Equal(t, model.ModeNav, m.mode)
	assert.Len(t, m.students.Table().Visible(), 3)
}

func TestDoubleGJumpsToTop(t *testing.T) {
	m, _ := loggedIn(t, "admin", "admin123")
	m = press(t, m, right, runes("G"))
	first := m.students.Table().Visible()[0].ID
	require.NotEqual(t, first, m.students.Selected().ID)

	m = press(t, m, runes("g"), runes("j"), runes("g"))
	assert.NotEqual(t, first, m.students.Selected().ID, "a key between the two g's resets")
	assert.Equal(t, GStateFirstG, m.gState)

	m = press(t, m, runes("g"))
	assert.Equal(t, first, m.students.Selected().ID)
	assert.Equal(t, GStateIdle, m.gState)
}

func TestConfirmDeleteAndUndo(t *testing.T) {
	m, database := loggedIn(t, "admin", "admin123")
	m = press(t, m, right)
	target := m.students.Selected()
	require.NotNil(t, target)

	m = press(t, m, runes("d"))
	require.Equal(t, model.ModeConfirm, m.mode)
	assert.Equal(t, "Aluno: "+target.Cells[0], m.confirm.detail)

	m, cmd := update(t, m, runes("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, model.ModeNav, m.mode)
	assert.Nil(t, m.confirm)

	m = press(t, m, runes("d"))
	m, cmd = update(t, m, runes("y"))
	require.NotNil(t, cmd)
	deleted, ok := cmd().(model.StudentsDeletedMsg)
	require.True(t, ok)
	require.Len(t, deleted.Deleted, 1)

	m, _ = update(t, m, deleted)
	assert.Equal(t, "Aluno excluído com sucesso! (u desfaz)", m.info)
	students, err := db.ListUsers(database, model.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, students, 2)

	m, cmd = update(t, m, runes("u"))
	require.NotNil(t, cmd)
	applied, ok := cmd().(undoAppliedMsg)
	require.True(t, ok)
	require.NoError(t, applied.err)

	m, _ = update(t, m, applied)
	assert.Equal(t, "Desfeito: exclusão de "+deleted.Deleted[0].Record.Name, m.info)
	assert.Len(t, m.redoStack, 1)
	assert.Empty(t, m.undoStack)

	restored, err := db.GetEnrollmentsByStudent(database, target.ID)
	require.NoError(t, err)
	assert.Len(t, restored, len(deleted.Deleted[0].Enrollments))
	students, err = db.ListUsers(database, model.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, students, 3)
}

func TestUndoWithEmptyStack(t *testing.T) {
	m, _ := loggedIn(t, "admin", "admin123")

	m, _ = update(t, m, runes("u"))
	assert.Equal(t, "Nada para desfazer", m.info)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, "Nada para refazer", m.info)
}

func TestBannerExpiresOnlyForLatestNotice(t *testing.T) {
	m := New(nil, zap.NewNop(), Options{})

	m.notify(bannerInfo, "primeiro")
	stale := m.bannerSeq
	m.notify(bannerError, "segundo")

	m, _ = update(t, m, bannerExpiredMsg{seq: stale})
	assert.Equal(t, "segundo", m.error, "an older timer leaves the newer banner alone")
	assert.Empty(t, m.info)

	m, _ = update(t, m, bannerExpiredMsg{seq: m.bannerSeq})
	assert.Empty(t, m.error)
	assert.Empty(t, m.info)
}

func TestStudentFormGuardsSaveAndMasksPhone(t *testing.T) {
	m, database := loggedIn(t, "admin", "admin123")
	m = press(t, m, right, runes("a"))
	require.Equal(t, model.ScreenStudentForm, m.screen)
	require.Equal(t, model.ModeInsert, m.mode)

	m, cmd := update(t, m, ctrlS)
	require.NotNil(t, cmd)
	failure := findMsg[model.ErrorMsg](t, drain(cmd))
	m, _ = update(t, m, failure)
	assert.Equal(t, "Preencha todos os campos obrigatórios.", m.studentForm.error)
	assert.Equal(t, model.ScreenStudentForm, m.screen, "validation errors stay on the form")

	m = typeText(t, m, "Daniel Souza")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "daniel2024")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "Senha123!")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	m = typeText(t, m, "11987654321")
	assert.Equal(t, "(11) 98765-4321", m.studentForm.inputs[fieldPhone].Value())

	m, cmd = update(t, m, ctrlS)
	require.NotNil(t, cmd)
	_, again := update(t, m, ctrlS)
	assert.Nil(t, again, "save is not repeated while one is running")

	saved := findMsg[model.StudentSavedMsg](t, drain(cmd))
	assert.Equal(t, "insert", saved.Operation)
	assert.Equal(t, "(11) 98765-4321", saved.After.Phone)

	m, _ = update(t, m, saved)
	assert.Equal(t, model.ScreenStudents, m.screen)
	assert.Equal(t, model.ModeNav, m.mode)
	assert.Nil(t, m.studentForm)
	assert.Len(t, m.undoStack, 1)

	_, err := db.Authenticate(database, "daniel2024", "Senha123!")
	assert.NoError(t, err)
}

func TestDeletePromptToleratesRowWithoutCells(t *testing.T) {
	m := New(nil, zap.NewNop(), Options{})
	m.session = &model.Session{User: model.User{Role: model.RoleAdmin}}
	m.screen = model.ScreenNews
	m.news = NewTableView(table.New(newsKey, []table.Column{{Key: "titulo", Label: "título"}}, []*table.Row{{ID: 7}}), "notícias", "")

	m = press(t, m, runes("d"))
	require.Equal(t, model.ModeConfirm, m.mode)
	assert.Equal(t, "Notícia: ", m.confirm.detail)

	m.screen = model.ScreenStudents
	m.mode = model.ModeNav
	m.students = NewTableView(table.New(studentsKey, []table.Column{{Key: "nome", Label: "nome"}}, []*table.Row{{ID: 8}}), "alunos", "")

	m = press(t, m, runes("d"))
	require.Equal(t, model.ModeConfirm, m.mode)
	assert.Equal(t, "Aluno: ", m.confirm.detail)
}
