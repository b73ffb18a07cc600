package db

import (
	"database/sql"
	"fmt"
	"time"

	"escola/internal/model"
)

// ListSubjects retrieves all subjects with professor name and the number of
// active enrollments.
func ListSubjects(db *sql.DB) ([]model.SubjectRow, error) {
	query := `
		SELECT d.id, d.nome, COALESCE(d.descricao, ''), COALESCE(u.nome, ''), d.carga_horaria,
		       (SELECT COUNT(*) FROM matriculas m WHERE m.disciplina_id = d.id AND m.status = 'ativo')
		FROM disciplinas d
		LEFT JOIN users u ON d.professor_id = u.id
		ORDER BY d.nome
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var results []model.SubjectRow
	for rows.Next() {
		var s model.SubjectRow
		var workload sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.ProfessorName, &workload, &s.Enrolled); err != nil {
			return nil, fmt.Errorf("failed to scan subject row: %w", err)
		}
		if workload.Valid {
			w := int(workload.Int64)
			s.Workload = &w
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subject rows: %w", err)
	}
	return results, nil
}

// InsertSubject creates a subject taught by the given professor username.
// An unknown username leaves the subject without a professor.
func InsertSubject(db *sql.DB, name, description, professorUsername string, workload int) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO disciplinas (nome, descricao, professor_id, carga_horaria)
		VALUES (?, ?, (SELECT id FROM users WHERE username = ? AND tipo = 'professor'), ?)
	`, name, nullIfEmpty(description), professorUsername, workload)
	if err != nil {
		return 0, fmt.Errorf("failed to insert subject: %w", err)
	}
	return result.LastInsertId()
}

// Enroll enrolls a student in a subject. Enrolling twice is a no-op.
func Enroll(db *sql.DB, studentID, subjectID int64) error {
	if _, err := db.Exec(`
		INSERT OR IGNORE INTO matriculas (aluno_id, disciplina_id)
		VALUES (?, ?)
	`, studentID, subjectID); err != nil {
		return fmt.Errorf("failed to enroll student: %w", err)
	}
	return nil
}

// ListEnrollmentsForStudent retrieves a student's active enrollments with
// subject data.
func ListEnrollmentsForStudent(db *sql.DB, studentID int64) ([]model.EnrollmentRow, error) {
	query := `
		SELECT d.id, d.nome, COALESCE(d.descricao, ''), COALESCE(u.nome, ''), m.data_matricula
		FROM matriculas m
		JOIN disciplinas d ON m.disciplina_id = d.id
		LEFT JOIN users u ON d.professor_id = u.id
		WHERE m.aluno_id = ? AND m.status = 'ativo'
		ORDER BY d.nome
	`

	rows, err := db.Query(query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	var results []model.EnrollmentRow
	for rows.Next() {
		var e model.EnrollmentRow
		var enrolledAt string
		if err := rows.Scan(&e.SubjectID, &e.SubjectName, &e.Description, &e.ProfessorName, &enrolledAt); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, enrolledAt); err == nil {
			e.EnrolledAt = t
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}
	return results, nil
}

// GetEnrollmentsByStudent retrieves the raw enrollment records of a student,
// regardless of status.
func GetEnrollmentsByStudent(db *sql.DB, studentID int64) ([]model.Enrollment, error) {
	rows, err := db.Query(`
		SELECT id, aluno_id, disciplina_id, data_matricula, status
		FROM matriculas
		WHERE aluno_id = ?
		ORDER BY id
	`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments: %w", err)
	}
	defer rows.Close()

	var results []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		var enrolledAt string
		if err := rows.Scan(&e.ID, &e.StudentID, &e.SubjectID, &enrolledAt, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, enrolledAt); err == nil {
			e.EnrolledAt = t
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollments: %w", err)
	}
	return results, nil
}

// CountSubjects counts all subjects.
func CountSubjects(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM disciplinas`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count subjects: %w", err)
	}
	return n, nil
}
