package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"escola/internal/model"
)

const newsQuery = `
	SELECT n.id, n.titulo, n.conteudo, COALESCE(n.imagem, ''), n.data_publicacao,
	       n.autor_id, COALESCE(u.nome, ''), n.destaque
	FROM noticias n
	LEFT JOIN users u ON n.autor_id = u.id
`

func scanNews(s rowScanner) (model.News, error) {
	var n model.News
	var publishedAt string
	var authorID sql.NullInt64
	var featured int
	if err := s.Scan(&n.ID, &n.Title, &n.Content, &n.Image, &publishedAt, &authorID, &n.AuthorName, &featured); err != nil {
		return model.News{}, err
	}
	if authorID.Valid {
		id := authorID.Int64
		n.AuthorID = &id
	}
	n.Featured = featured == 1
	if t, err := time.Parse(time.RFC3339, publishedAt); err == nil {
		n.PublishedAt = t
	}
	return n, nil
}

func queryNews(db *sql.DB, query string, args ...any) ([]model.News, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	var results []model.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan news row: %w", err)
		}
		results = append(results, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating news rows: %w", err)
	}
	return results, nil
}

// ListNews retrieves all news, newest first.
func ListNews(db *sql.DB) ([]model.News, error) {
	return queryNews(db, newsQuery+` ORDER BY n.data_publicacao DESC, n.id DESC`)
}

// RecentNews retrieves the newest news items.
func RecentNews(db *sql.DB, limit int) ([]model.News, error) {
	return queryNews(db, newsQuery+` ORDER BY n.data_publicacao DESC, n.id DESC LIMIT ?`, limit)
}

// FeaturedNews retrieves the newest featured news items.
func FeaturedNews(db *sql.DB, limit int) ([]model.News, error) {
	return queryNews(db, newsQuery+` WHERE n.destaque = 1 ORDER BY n.data_publicacao DESC, n.id DESC LIMIT ?`, limit)
}

// GetNews retrieves a single news item by ID.
func GetNews(db *sql.DB, id int64) (model.News, error) {
	n, err := scanNews(db.QueryRow(newsQuery+` WHERE n.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.News{}, fmt.Errorf("failed to get news %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.News{}, fmt.Errorf("failed to get news: %w", err)
	}
	return n, nil
}

// InsertNews publishes a news item.
func InsertNews(db *sql.DB, n model.NewNews) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO noticias (titulo, conteudo, imagem, autor_id, destaque)
		VALUES (?, ?, ?, ?, ?)
	`, n.Title, n.Content, nullIfEmpty(n.Image), n.AuthorID, boolToInt(n.Featured))
	if err != nil {
		return 0, fmt.Errorf("failed to insert news: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// DeleteNews deletes a news item.
func DeleteNews(db *sql.DB, id int64) error {
	if _, err := db.Exec(`DELETE FROM noticias WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete news: %w", err)
	}
	return nil
}

// CountNews counts all news items.
func CountNews(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM noticias`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count news: %w", err)
	}
	return n, nil
}
