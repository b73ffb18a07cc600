package ui

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"escola/internal/db"
	"escola/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	newsFieldTitle = iota
	newsFieldContent
	newsFieldImage
	newsFieldFeatured
	newsFieldCount
)

// NewsFormModel is the publish news form.
type NewsFormModel struct {
	db           *sql.DB
	uploadsDir   string
	authorID     int64
	focusedField int
	title        textinput.Model
	content      textarea.Model
	image        textinput.Model
	featured     bool
	error        string
	guard        submitGuard
	keys         FormKeyMap
}

// NewNewsFormModel creates a new news form authored by authorID.
func NewNewsFormModel(database *sql.DB, uploadsDir string, authorID int64) *NewsFormModel {
	title := newInput("Título da notícia", 200)
	title.Focus()

	content := textarea.New()
	content.Placeholder = "Conteúdo"
	content.ShowLineNumbers = false
	content.CharLimit = 5000
	content.SetHeight(6)

	image := newInput("arquivo em "+uploadsDir+" (opcional)", 255)

	return &NewsFormModel{
		db:         database,
		uploadsDir: uploadsDir,
		authorID:   authorID,
		title:      title,
		content:    content,
		image:      image,
		guard:      newSubmitGuard(),
		keys:       DefaultFormKeyMap(),
	}
}

// Fail re-enables the form after a failed save.
func (m *NewsFormModel) Fail(err error) {
	m.guard.done()
	m.error = err.Error()
}

func (m *NewsFormModel) focus(i int) {
	m.title.Blur()
	m.content.Blur()
	m.image.Blur()
	m.focusedField = i
	switch i {
	case newsFieldTitle:
		m.title.Focus()
	case newsFieldContent:
		m.content.Focus()
	case newsFieldImage:
		m.image.Focus()
	}
}

// Update handles input.
func (m NewsFormModel) Update(msg tea.Msg) (NewsFormModel, tea.Cmd) {
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
			m.focus((m.focusedField + 1) % newsFieldCount)
			return m, nil
		case key.Matches(msg, m.keys.PrevField):
			m.focus((m.focusedField - 1 + newsFieldCount) % newsFieldCount)
			return m, nil
		}

		var cmd tea.Cmd
		switch m.focusedField {
		case newsFieldTitle:
			m.title, cmd = m.title.Update(msg)
		case newsFieldContent:
			m.content, cmd = m.content.Update(msg)
		case newsFieldImage:
			m.image, cmd = m.image.Update(msg)
		case newsFieldFeatured:
			if key.Matches(msg, m.keys.Toggle) {
				m.featured = !m.featured
			}
		}
		return m, cmd
	}
	return m, nil
}

// View renders the form.
func (m *NewsFormModel) View(width, height int) string {
	m.content.SetWidth(max(20, width-10))

	var fields []string
	fields = append(fields, renderFormField("Título *", m.title, m.focusedField == newsFieldTitle))
	fields = append(fields, renderFormBox("Conteúdo *", m.content.View(), m.focusedField == newsFieldContent))
	fields = append(fields, renderFormField("Imagem", m.image, m.focusedField == newsFieldImage))
	fields = append(fields, renderCheckbox("Destaque", m.featured, m.focusedField == newsFieldFeatured))

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

func (m *NewsFormModel) save() tea.Cmd {
	title := strings.TrimSpace(m.title.Value())
	content := strings.TrimSpace(m.content.Value())
	image := strings.TrimSpace(m.image.Value())
	featured := m.featured
	authorID := m.authorID
	uploadsDir := m.uploadsDir
	database := m.db

	return func() tea.Msg {
		if title == "" || content == "" {
			return model.ErrorMsg{Err: errors.New("Título e conteúdo são obrigatórios.")}
		}
		if image != "" {
			image = filepath.Base(image)
			if _, err := os.Stat(filepath.Join(uploadsDir, image)); err != nil {
				return model.ErrorMsg{Err: fmt.Errorf("Imagem não encontrada em %s: %s", uploadsDir, image)}
			}
		}

		id, err := db.InsertNews(database, model.NewNews{
			Title:    title,
			Content:  content,
			Image:    image,
			AuthorID: authorID,
			Featured: featured,
		})
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		after, err := db.GetNews(database, id)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.NewsSavedMsg{ID: id, After: after}
	}
}
