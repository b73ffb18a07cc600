package db

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    nome            TEXT NOT NULL,
    username        TEXT UNIQUE NOT NULL,
    password        TEXT NOT NULL,
    tipo            TEXT NOT NULL CHECK(tipo IN ('admin', 'professor', 'aluno')),
    email           TEXT,
    telefone        TEXT,
    endereco        TEXT,
    data_nascimento TEXT,
    created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
    ativo           INTEGER NOT NULL DEFAULT 1 CHECK(ativo IN (0,1))
);

CREATE TABLE IF NOT EXISTS noticias (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    titulo          TEXT NOT NULL,
    conteudo        TEXT NOT NULL,
    imagem          TEXT,
    data_publicacao TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
    autor_id        INTEGER REFERENCES users(id),
    destaque        INTEGER NOT NULL DEFAULT 0 CHECK(destaque IN (0,1))
);

CREATE TABLE IF NOT EXISTS disciplinas (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    nome          TEXT NOT NULL,
    descricao     TEXT,
    professor_id  INTEGER REFERENCES users(id),
    carga_horaria INTEGER
);

CREATE TABLE IF NOT EXISTS matriculas (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    aluno_id       INTEGER REFERENCES users(id),
    disciplina_id  INTEGER REFERENCES disciplinas(id),
    data_matricula TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
    status         TEXT NOT NULL DEFAULT 'ativo',
    UNIQUE(aluno_id, disciplina_id)
);

CREATE INDEX IF NOT EXISTS idx_users_tipo ON users(tipo);
CREATE INDEX IF NOT EXISTS idx_noticias_data ON noticias(data_publicacao DESC);
CREATE INDEX IF NOT EXISTS idx_matriculas_aluno ON matriculas(aluno_id);
`

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidCredentials is returned by Authenticate for a bad login.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Open opens or creates the SQLite database and initializes the schema.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
