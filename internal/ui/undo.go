package ui

import (
	"fmt"

	"escola/internal/db"
	"escola/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type undoAction struct {
	label string
	undo  func() error
	redo  func() error
}

type undoAppliedMsg struct {
	err       error
	action    undoAction
	direction string // undo, redo
}

func (m *Model) pushUndoAction(action undoAction) {
	m.undoStack = append(m.undoStack, action)
	m.redoStack = nil
}

func (m *Model) undoCmd() tea.Cmd {
	if len(m.undoStack) == 0 {
		return nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	return func() tea.Msg {
		err := action.undo()
		return undoAppliedMsg{err: err, action: action, direction: "undo"}
	}
}

func (m *Model) redoCmd() tea.Cmd {
	if len(m.redoStack) == 0 {
		return nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	return func() tea.Msg {
		err := action.redo()
		return undoAppliedMsg{err: err, action: action, direction: "redo"}
	}
}

func (m *Model) buildStudentSaveAction(msg model.StudentSavedMsg) *undoAction {
	database := m.db
	switch msg.Operation {
	case "insert":
		after := msg.After
		return &undoAction{
			label: "cadastro de " + after.Name,
			undo: func() error {
				return db.DeleteStudent(database, after.ID)
			},
			redo: func() error {
				return db.RestoreUser(database, after, nil)
			},
		}
	case "update":
		if msg.Before == nil {
			return nil
		}
		before := *msg.Before
		after := msg.After
		return &undoAction{
			label: "edição de " + after.Name,
			undo: func() error {
				return db.OverwriteUser(database, before)
			},
			redo: func() error {
				return db.OverwriteUser(database, after)
			},
		}
	default:
		return nil
	}
}

func (m *Model) buildDeleteStudentsAction(msg model.StudentsDeletedMsg) undoAction {
	database := m.db
	deleted := append([]model.DeletedStudent(nil), msg.Deleted...)
	label := fmt.Sprintf("exclusão de %d aluno(s)", len(deleted))
	if len(deleted) == 1 {
		label = "exclusão de " + deleted[0].Record.Name
	}
	return undoAction{
		label: label,
		undo: func() error {
			for _, d := range deleted {
				if err := db.RestoreUser(database, d.Record, d.Enrollments); err != nil {
					return err
				}
			}
			return nil
		},
		redo: func() error {
			for _, d := range deleted {
				if err := db.DeleteStudent(database, d.Record.ID); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (m *Model) buildNewsSaveAction(msg model.NewsSavedMsg) undoAction {
	database := m.db
	after := msg.After
	return undoAction{
		label: "publicação de " + after.Title,
		undo: func() error {
			return db.DeleteNews(database, after.ID)
		},
		redo: func() error {
			return db.RestoreNews(database, after)
		},
	}
}

func (m *Model) buildDeleteNewsAction(msg model.NewsDeletedMsg) undoAction {
	database := m.db
	deleted := msg.Deleted
	return undoAction{
		label: "exclusão de " + deleted.Title,
		undo: func() error {
			return db.RestoreNews(database, deleted)
		},
		redo: func() error {
			return db.DeleteNews(database, deleted.ID)
		},
	}
}

func (m *Model) applyUndoResult(msg undoAppliedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("undo failed", zap.String("direction", msg.direction), zap.String("action", msg.action.label), zap.Error(msg.err))
		return m.notify(bannerError, fmt.Sprintf("falha ao %s: %v", directionVerb(msg.direction), msg.err))
	}

	var text string
	if msg.direction == "undo" {
		m.redoStack = append(m.redoStack, msg.action)
		text = "Desfeito: " + msg.action.label
	} else {
		m.undoStack = append(m.undoStack, msg.action)
		text = "Refeito: " + msg.action.label
	}
	m.logger.Info("undo applied", zap.String("direction", msg.direction), zap.String("action", msg.action.label))
	return tea.Batch(m.notify(bannerInfo, text), m.reloadAllCmd())
}

func directionVerb(direction string) string {
	if direction == "undo" {
		return "desfazer"
	}
	return "refazer"
}
