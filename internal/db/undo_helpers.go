package db

import (
	"database/sql"
	"fmt"
	"time"

	"escola/internal/model"
)

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}

// RestoreUser re-inserts a deleted user with its original ID, password hash
// and enrollments.
func RestoreUser(db *sql.DB, rec model.UserRecord, enrollments []model.Enrollment) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	u := rec.User
	_, err = tx.Exec(`
		INSERT INTO users (id, nome, username, password, tipo, email, telefone, endereco, data_nascimento, created_at, ativo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Username, rec.PasswordHash, string(u.Role), nullIfEmpty(u.Email), nullIfEmpty(u.Phone),
		nullIfEmpty(u.Address), nullIfEmpty(u.BirthDate), formatTimestamp(u.CreatedAt), boolToInt(u.Active))
	if isUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("failed to restore user: %w", err)
	}

	for _, e := range enrollments {
		if _, err := tx.Exec(`
			INSERT INTO matriculas (id, aluno_id, disciplina_id, data_matricula, status)
			VALUES (?, ?, ?, ?, ?)
		`, e.ID, e.StudentID, e.SubjectID, formatTimestamp(e.EnrolledAt), e.Status); err != nil {
			return fmt.Errorf("failed to restore enrollment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// OverwriteUser writes every field of rec back onto the existing user,
// including the password hash.
func OverwriteUser(db *sql.DB, rec model.UserRecord) error {
	u := rec.User
	_, err := db.Exec(`
		UPDATE users
		SET nome = ?, username = ?, password = ?, email = ?, telefone = ?, endereco = ?, data_nascimento = ?, ativo = ?
		WHERE id = ?
	`, u.Name, u.Username, rec.PasswordHash, nullIfEmpty(u.Email), nullIfEmpty(u.Phone), nullIfEmpty(u.Address),
		nullIfEmpty(u.BirthDate), boolToInt(u.Active), u.ID)
	if isUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("failed to overwrite user: %w", err)
	}
	return nil
}

// RestoreNews re-inserts a deleted news item with its original ID.
func RestoreNews(db *sql.DB, n model.News) error {
	var authorID interface{}
	if n.AuthorID != nil {
		authorID = *n.AuthorID
	}
	if _, err := db.Exec(`
		INSERT INTO noticias (id, titulo, conteudo, imagem, data_publicacao, autor_id, destaque)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Title, n.Content, nullIfEmpty(n.Image), formatTimestamp(n.PublishedAt), authorID, boolToInt(n.Featured)); err != nil {
		return fmt.Errorf("failed to restore news: %w", err)
	}
	return nil
}
