package ui

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"escola/internal/db"
	"escola/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

var errLoginFailed = errors.New("Usuário ou senha inválidos.")

// LoginModel is the login screen.
type LoginModel struct {
	db       *sql.DB
	username textinput.Model
	password textinput.Model
	focused  int
	error    string
	guard    submitGuard
	keys     FormKeyMap
}

// NewLoginModel creates the login screen.
func NewLoginModel(database *sql.DB) *LoginModel {
	username := newInput("usuário", 50)
	username.Focus()
	password := newInput("senha", 72)
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &LoginModel{
		db:       database,
		username: username,
		password: password,
		guard:    newSubmitGuard(),
		keys:     DefaultFormKeyMap(),
	}
}

// Fail shows a login error and re-enables the form.
func (m *LoginModel) Fail(err error) {
	m.guard.done()
	m.error = err.Error()
	m.password.SetValue("")
}

func (m *LoginModel) focus(i int) {
	m.focused = i
	if i == 0 {
		m.password.Blur()
		m.username.Focus()
	} else {
		m.username.Blur()
		m.password.Focus()
	}
}

// Update handles input.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		return m, m.guard.update(msg)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
			m.focus(1 - m.focused)
			return m, nil
		case key.Matches(msg, m.keys.TogglePassword):
			togglePasswordEcho(&m.password)
			return m, nil
		case msg.String() == "enter":
			if m.focused == 0 {
				m.focus(1)
				return m, nil
			}
			m.error = ""
			return m, m.guard.begin(m.submit())
		}

		var cmd tea.Cmd
		if m.focused == 0 {
			m.username, cmd = m.username.Update(msg)
		} else {
			m.password, cmd = m.password.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *LoginModel) submit() tea.Cmd {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	database := m.db

	return func() tea.Msg {
		if username == "" || password == "" {
			return model.ErrorMsg{Err: errLoginFailed}
		}
		user, err := db.Authenticate(database, username, password)
		if errors.Is(err, db.ErrInvalidCredentials) {
			return model.ErrorMsg{Err: errLoginFailed}
		}
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.LoginSucceededMsg{Session: model.Session{
			ID:        uuid.NewString(),
			User:      user,
			StartedAt: time.Now(),
		}}
	}
}

// View renders the login screen.
func (m *LoginModel) View(width, height int) string {
	var fields []string
	fields = append(fields, TitleStyle.Render("Escola Colaço"))
	fields = append(fields, HelpDescStyle.Render("Entre com seu usuário e senha"))
	fields = append(fields, renderFormField("Usuário", m.username, m.focused == 0))
	password := renderFormField("Senha  (ctrl+p mostra)", m.password, m.focused == 1)
	fields = append(fields, password)

	if m.error != "" {
		fields = append(fields, ErrorStyle.Render(m.error))
	}
	if g := m.guard.View(); g != "" {
		fields = append(fields, g)
	}

	panel := PanelStyle.Width(min(50, width-4)).Render(strings.Join(fields, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
