package ui

import (
	"testing"

	"escola/internal/db"
	"escola/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishNewsAndUndo(t *testing.T) {
	m, database := loggedIn(t, "profjoao", "prof123")
	tab := tea.KeyMsg{Type: tea.KeyTab}

	for m.screen != model.ScreenNews {
		m = press(t, m, right)
	}
	m = press(t, m, runes("a"))
	require.Equal(t, model.ScreenNewsForm, m.screen)

	m = typeText(t, m, "Feira de Ciências")
	m = press(t, m, tab)
	m = typeText(t, m, "Sábado no pátio.")
	m = press(t, m, tab)
	m = typeText(t, m, "feira.png")
	m = press(t, m, tab, runes(" "))
	assert.True(t, m.newsForm.featured)

	m, cmd := update(t, m, ctrlS)
	failure := findMsg[model.ErrorMsg](t, drain(cmd))
	m, _ = update(t, m, failure)
	assert.Contains(t, m.newsForm.error, "Imagem não encontrada")
	assert.Equal(t, model.ScreenNewsForm, m.screen)

	m = press(t, m, tab, tab, tab)
	require.Equal(t, newsFieldImage, m.newsForm.focusedField)
	for range "feira.png" {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}

	m, cmd = update(t, m, ctrlS)
	saved := findMsg[model.NewsSavedMsg](t, drain(cmd))
	assert.Equal(t, "Feira de Ciências", saved.After.Title)
	assert.Equal(t, "Professor João Silva", saved.After.AuthorName)
	assert.True(t, saved.After.Featured)

	m, _ = update(t, m, saved)
	assert.Equal(t, model.ScreenNews, m.screen)
	require.Len(t, m.undoStack, 1)

	m, cmd = update(t, m, runes("u"))
	applied, ok := cmd().(undoAppliedMsg)
	require.True(t, ok)
	require.NoError(t, applied.err)

	_, err := db.GetNews(database, saved.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestNewsFormRequiresTitleAndContent(t *testing.T) {
	form := NewNewsFormModel(nil, t.TempDir(), 1)
	_, cmd := form.Update(ctrlS)
	failure := findMsg[model.ErrorMsg](t, drain(cmd))
	assert.EqualError(t, failure.Err, "Título e conteúdo são obrigatórios.")
}
