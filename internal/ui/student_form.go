package ui

import (
	"database/sql"
	"errors"
	"strings"

	"escola/internal/db"
	"escola/internal/model"
	"escola/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldName = iota
	fieldUsername
	fieldPassword
	fieldEmail
	fieldPhone
	fieldAddress
	fieldBirthDate
	studentInputCount
)

// StudentFormModel represents the add/edit student form.
type StudentFormModel struct {
	db           *sql.DB
	studentID    int64
	focusedField int
	inputs       []textinput.Model
	active       bool
	error        string
	guard        submitGuard
	keys         FormKeyMap
}

// NewStudentFormModel creates a new student form. studentID 0 adds a
// student.
func NewStudentFormModel(database *sql.DB, studentID int64) *StudentFormModel {
	inputs := make([]textinput.Model, studentInputCount)
	inputs[fieldName] = newInput("Nome completo", 100)
	inputs[fieldUsername] = newInput("Nome de usuário", 50)
	inputs[fieldPassword] = newInput("Senha", 72)
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'
	inputs[fieldEmail] = newInput("email@exemplo.com", 120)
	inputs[fieldPhone] = newInput("(11) 98765-4321", 15)
	inputs[fieldAddress] = newInput("Rua, número, bairro", 200)
	inputs[fieldBirthDate] = newInput("dd/mm/aaaa", 10)
	inputs[fieldName].Focus()

	return &StudentFormModel{
		db:        database,
		studentID: studentID,
		inputs:    inputs,
		active:    true,
		guard:     newSubmitGuard(),
		keys:      DefaultFormKeyMap(),
	}
}

// LoadStudent loads an existing student for editing.
func (m *StudentFormModel) LoadStudent(u model.User) {
	m.studentID = u.ID
	m.inputs[fieldName].SetValue(u.Name)
	m.inputs[fieldUsername].SetValue(u.Username)
	m.inputs[fieldPassword].Placeholder = "Deixe em branco para manter a atual"
	m.inputs[fieldEmail].SetValue(u.Email)
	m.inputs[fieldPhone].SetValue(util.MaskPhone(u.Phone))
	m.inputs[fieldAddress].SetValue(u.Address)
	if u.BirthDate != "" {
		m.inputs[fieldBirthDate].SetValue(util.FormatDate(u.BirthDate))
	}
	m.active = u.Active
}

func (m *StudentFormModel) editing() bool {
	return m.studentID > 0
}

func (m *StudentFormModel) fieldCount() int {
	if m.editing() {
		return studentInputCount + 1 // active toggle
	}
	return studentInputCount
}

// Fail re-enables the form after a failed save.
func (m *StudentFormModel) Fail(err error) {
	m.guard.done()
	m.error = err.Error()
}

// Update handles input.
func (m StudentFormModel) Update(msg tea.Msg) (StudentFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		return m, m.guard.update(msg)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m, func() tea.Msg { return model.FormCancelledMsg{} }
		case key.Matches(msg, m.keys.Save):
			return m, m.guard.begin(m.save())
		case key.Matches(msg, m.keys.NextField):
			m.focus((m.focusedField + 1) % m.fieldCount())
			return m, nil
		case key.Matches(msg, m.keys.PrevField):
			m.focus((m.focusedField - 1 + m.fieldCount()) % m.fieldCount())
			return m, nil
		case key.Matches(msg, m.keys.TogglePassword):
			togglePasswordEcho(&m.inputs[fieldPassword])
			return m, nil
		}

		if m.focusedField >= studentInputCount {
			if key.Matches(msg, m.keys.Toggle) {
				m.active = !m.active
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.inputs[m.focusedField], cmd = m.inputs[m.focusedField].Update(msg)
		if m.focusedField == fieldPhone {
			m.inputs[fieldPhone].SetValue(util.MaskPhone(m.inputs[fieldPhone].Value()))
			m.inputs[fieldPhone].CursorEnd()
		}
		return m, cmd
	}
	return m, nil
}

func (m *StudentFormModel) focus(i int) {
	if m.focusedField < studentInputCount {
		m.inputs[m.focusedField].Blur()
	}
	m.focusedField = i
	if i < studentInputCount {
		m.inputs[i].Focus()
	}
}

// View renders the form.
func (m *StudentFormModel) View(width, height int) string {
	passwordLabel := "Senha *"
	if m.editing() {
		passwordLabel = "Nova senha"
	}

	var fields []string
	fields = append(fields, renderFormField("Nome *", m.inputs[fieldName], m.focusedField == fieldName))
	fields = append(fields, renderFormField("Usuário *", m.inputs[fieldUsername], m.focusedField == fieldUsername))
	password := renderFormField(passwordLabel+"  (ctrl+p mostra)", m.inputs[fieldPassword], m.focusedField == fieldPassword)
	if strength := renderStrength(m.inputs[fieldPassword].Value()); strength != "" {
		password += "\n" + strength
	}
	fields = append(fields, password)
	fields = append(fields, renderFormField("Email", m.inputs[fieldEmail], m.focusedField == fieldEmail))
	fields = append(fields, renderFormField("Telefone", m.inputs[fieldPhone], m.focusedField == fieldPhone))
	fields = append(fields, renderFormField("Endereço", m.inputs[fieldAddress], m.focusedField == fieldAddress))
	fields = append(fields, renderFormField("Data de nascimento", m.inputs[fieldBirthDate], m.focusedField == fieldBirthDate))
	if m.editing() {
		fields = append(fields, renderCheckbox("Ativo", m.active, m.focusedField == studentInputCount))
	}

	if m.error != "" {
		fields = append(fields, ErrorStyle.Render(m.error))
	}
	if g := m.guard.View(); g != "" {
		fields = append(fields, g)
	}

	return PanelStyle.
		Width(width - 4).
		Render(strings.Join(fields, "\n"))
}

func (m *StudentFormModel) save() tea.Cmd {
	studentID := m.studentID
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	phone := strings.TrimSpace(m.inputs[fieldPhone].Value())
	address := strings.TrimSpace(m.inputs[fieldAddress].Value())
	birth := m.inputs[fieldBirthDate].Value()
	active := m.active
	database := m.db

	return func() tea.Msg {
		if studentID == 0 && (name == "" || username == "" || password == "") {
			return model.ErrorMsg{Err: errors.New("Preencha todos os campos obrigatórios.")}
		}
		if studentID > 0 && (name == "" || username == "") {
			return model.ErrorMsg{Err: errors.New("Nome e usuário são obrigatórios.")}
		}
		birthDate, err := util.ParseDateInput(birth)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}

		if studentID > 0 {
			before, err := db.GetUserRecord(database, studentID)
			if err != nil {
				return model.ErrorMsg{Err: err}
			}
			err = db.UpdateUser(database, model.UpdateUser{
				ID:        studentID,
				Name:      name,
				Username:  username,
				Password:  password,
				Email:     email,
				Phone:     phone,
				Address:   address,
				BirthDate: birthDate,
				Active:    active,
			})
			if errors.Is(err, db.ErrDuplicateUsername) {
				return model.ErrorMsg{Err: errors.New("Username já usado por outro usuário.")}
			}
			if err != nil {
				return model.ErrorMsg{Err: err}
			}
			after, err := db.GetUserRecord(database, studentID)
			if err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.StudentSavedMsg{ID: studentID, Operation: "update", Before: &before, After: after}
		}

		id, err := db.InsertUser(database, model.NewUser{
			Name:      name,
			Username:  username,
			Password:  password,
			Role:      model.RoleStudent,
			Email:     email,
			Phone:     phone,
			Address:   address,
			BirthDate: birthDate,
		})
		if errors.Is(err, db.ErrDuplicateUsername) {
			return model.ErrorMsg{Err: errors.New("Username já existe.")}
		}
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		after, err := db.GetUserRecord(database, id)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.StudentSavedMsg{ID: id, Operation: "insert", After: after}
	}
}
