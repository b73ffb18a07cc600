package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"escola/internal/model"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt cost for new password hashes.
var passwordCost = bcrypt.DefaultCost

const userColumns = `id, nome, username, tipo, COALESCE(email, ''), COALESCE(telefone, ''),
	COALESCE(endereco, ''), COALESCE(data_nascimento, ''), created_at, ativo`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(s rowScanner, extra ...any) (model.User, error) {
	var u model.User
	var role, createdAt string
	var active int
	dest := []any{&u.ID, &u.Name, &u.Username, &role, &u.Email, &u.Phone, &u.Address, &u.BirthDate, &createdAt, &active}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	u.Active = active == 1
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		u.CreatedAt = t
	}
	return u, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// ListUsers retrieves all users of a role ordered by name.
func ListUsers(db *sql.DB, role model.Role) ([]model.User, error) {
	rows, err := db.Query(`SELECT `+userColumns+` FROM users WHERE tipo = ? ORDER BY nome`, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// LatestUsers retrieves the most recently created users of a role.
func LatestUsers(db *sql.DB, role model.Role, limit int) ([]model.User, error) {
	rows, err := db.Query(`SELECT `+userColumns+` FROM users WHERE tipo = ? ORDER BY created_at DESC, id DESC LIMIT ?`, string(role), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser retrieves a single user by ID.
func GetUser(db *sql.DB, id int64) (model.User, error) {
	u, err := scanUser(db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("failed to get user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserRecord retrieves a user together with its password hash.
func GetUserRecord(db *sql.DB, id int64) (model.UserRecord, error) {
	var rec model.UserRecord
	u, err := scanUser(db.QueryRow(`SELECT `+userColumns+`, password FROM users WHERE id = ?`, id), &rec.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserRecord{}, fmt.Errorf("failed to get user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.UserRecord{}, fmt.Errorf("failed to get user: %w", err)
	}
	rec.User = u
	return rec, nil
}

// Authenticate checks a username and password against active users.
func Authenticate(db *sql.DB, username, password string) (model.User, error) {
	var hash string
	u, err := scanUser(db.QueryRow(`SELECT `+userColumns+`, password FROM users WHERE username = ? AND ativo = 1`, username), &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to load user for login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// InsertUser creates a new user.
func InsertUser(db *sql.DB, u model.NewUser) (int64, error) {
	hash, err := hashPassword(u.Password)
	if err != nil {
		return 0, err
	}

	result, err := db.Exec(`
		INSERT INTO users (nome, username, password, tipo, email, telefone, endereco, data_nascimento)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.Name, u.Username, hash, string(u.Role), nullIfEmpty(u.Email), nullIfEmpty(u.Phone), nullIfEmpty(u.Address), nullIfEmpty(u.BirthDate))
	if isUniqueViolation(err) {
		return 0, ErrDuplicateUsername
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// UpdateUser updates an existing user.
func UpdateUser(db *sql.DB, u model.UpdateUser) error {
	var err error
	if u.Password != "" {
		var hash string
		hash, err = hashPassword(u.Password)
		if err != nil {
			return err
		}
		_, err = db.Exec(`
			UPDATE users
			SET nome = ?, username = ?, password = ?, email = ?, telefone = ?, endereco = ?, data_nascimento = ?, ativo = ?
			WHERE id = ?
		`, u.Name, u.Username, hash, nullIfEmpty(u.Email), nullIfEmpty(u.Phone), nullIfEmpty(u.Address), nullIfEmpty(u.BirthDate), boolToInt(u.Active), u.ID)
	} else {
		_, err = db.Exec(`
			UPDATE users
			SET nome = ?, username = ?, email = ?, telefone = ?, endereco = ?, data_nascimento = ?, ativo = ?
			WHERE id = ?
		`, u.Name, u.Username, nullIfEmpty(u.Email), nullIfEmpty(u.Phone), nullIfEmpty(u.Address), nullIfEmpty(u.BirthDate), boolToInt(u.Active), u.ID)
	}
	if isUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// DeleteStudent deletes a student and its enrollments. Users of other
// roles are left alone.
func DeleteStudent(db *sql.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM matriculas WHERE aluno_id = ? AND aluno_id IN (SELECT id FROM users WHERE tipo = 'aluno')`, id); err != nil {
		return fmt.Errorf("failed to delete enrollments: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM users WHERE id = ? AND tipo = 'aluno'`, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CountActiveUsers counts active users of a role.
func CountActiveUsers(db *sql.DB, role model.Role) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE tipo = ? AND ativo = 1`, string(role)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
