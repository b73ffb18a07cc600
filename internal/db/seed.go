package db

import (
	"database/sql"
	"fmt"

	"escola/internal/model"

	"go.uber.org/zap"
)

type seedSubject struct {
	name, description, professor string
	workload                     int
}

type seedNews struct {
	title, content, author string
	featured               bool
}

var (
	seedStaff = []model.NewUser{
		{Name: "Administrador Escola Colaço", Username: "admin", Password: "admin123", Role: model.RoleAdmin, Email: "admin@escolacolaco.com"},
		{Name: "Professor João Silva", Username: "profjoao", Password: "prof123", Role: model.RoleProfessor, Email: "joao.silva@escolacolaco.com"},
		{Name: "Professora Maria Santos", Username: "promaria", Password: "prof123", Role: model.RoleProfessor, Email: "maria.santos@escolacolaco.com"},
	}

	seedStudents = []model.NewUser{
		{Name: "Ana Carolina Oliveira", Username: "ana2024", Password: "aluno123", Role: model.RoleStudent, Email: "ana.oliveira@email.com"},
		{Name: "Bruno Mendes", Username: "bruno2024", Password: "aluno123", Role: model.RoleStudent, Email: "bruno.mendes@email.com"},
		{Name: "Carla Rodrigues", Username: "carla2024", Password: "aluno123", Role: model.RoleStudent, Email: "carla.rodrigues@email.com"},
	}

	seedSubjects = []seedSubject{
		{"Matemática", "Matemática Básica e Avançada", "profjoao", 80},
		{"Português", "Língua Portuguesa e Literatura", "promaria", 60},
		{"História", "História do Brasil e Geral", "profjoao", 40},
		{"Ciências", "Ciências Naturais", "promaria", 60},
	}

	seedNewsItems = []seedNews{
		{"Início do Ano Letivo 2024", "Com grande alegria informamos o início do ano letivo de 2024 na Escola Colaço. Sejam todos bem-vindos!", "admin", true},
		{"Olimpíada de Matemática", "Inscrições abertas para a Olimpíada de Matemática. Participe!", "profjoao", false},
		{"Reunião de Pais", "Convocamos todos os pais para reunião importante no próximo sábado.", "admin", false},
	}

	// student username -> subject names
	seedEnrollments = map[string][]string{
		"ana2024":   {"Matemática", "Português"},
		"bruno2024": {"Matemática", "História"},
		"carla2024": {"Ciências"},
	}
)

// Seed inserts the demo school data when the database has no users yet.
// A non-empty adminPassword replaces the default admin password. It reports
// whether anything was inserted.
func Seed(db *sql.DB, adminPassword string, logger *zap.Logger) (bool, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		logger.Debug("Database already has users, skipping seed", zap.Int("users", count))
		return false, nil
	}

	ids := make(map[string]int64)
	for _, u := range append(append([]model.NewUser{}, seedStaff...), seedStudents...) {
		if u.Role == model.RoleAdmin && adminPassword != "" {
			u.Password = adminPassword
		}
		id, err := InsertUser(db, u)
		if err != nil {
			return false, fmt.Errorf("failed to seed user %s: %w", u.Username, err)
		}
		ids[u.Username] = id
	}

	subjects := make(map[string]int64)
	for _, s := range seedSubjects {
		id, err := InsertSubject(db, s.name, s.description, s.professor, s.workload)
		if err != nil {
			return false, fmt.Errorf("failed to seed subject %s: %w", s.name, err)
		}
		subjects[s.name] = id
	}

	for _, n := range seedNewsItems {
		if _, err := InsertNews(db, model.NewNews{Title: n.title, Content: n.content, AuthorID: ids[n.author], Featured: n.featured}); err != nil {
			return false, fmt.Errorf("failed to seed news %q: %w", n.title, err)
		}
	}

	for username, names := range seedEnrollments {
		for _, name := range names {
			if err := Enroll(db, ids[username], subjects[name]); err != nil {
				return false, err
			}
		}
	}

	logger.Info("Seeded demo data",
		zap.Int("users", len(ids)),
		zap.Int("subjects", len(subjects)),
		zap.Int("news", len(seedNewsItems)))
	return true, nil
}

// SeedAdmin creates only the administrator account when the database has no
// users yet, so a school can start without demo data.
func SeedAdmin(db *sql.DB, password string, logger *zap.Logger) (bool, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	admin := seedStaff[0]
	if password != "" {
		admin.Password = password
	}
	if _, err := InsertUser(db, admin); err != nil {
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}
	logger.Info("Created admin account", zap.String("username", admin.Username))
	return true, nil
}
