package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"escola/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	passwordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "escola.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	db := openTestDB(t)
	inserted, err := Seed(db, "", zap.NewNop())
	require.NoError(t, err)
	require.True(t, inserted)
	return db
}

func userID(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()
	var id int64
	require.NoError(t, db.QueryRow(`SELECT id FROM users WHERE username = ?`, username).Scan(&id))
	return id
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "escola.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}

func TestSeedOnlyOnce(t *testing.T) {
	db := seededDB(t)

	inserted, err := Seed(db, "", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, inserted)

	stats, err := GetStats(db)
	require.NoError(t, err)
	assert.Equal(t, model.Stats{Students: 3, Professors: 2, Subjects: 4, News: 3}, stats)
}

func TestSeedCustomAdminPassword(t *testing.T) {
	db := openTestDB(t)
	_, err := Seed(db, "N0va$enha", zap.NewNop())
	require.NoError(t, err)

	_, err = Authenticate(db, "admin", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := Authenticate(db, "admin", "N0va$enha")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
}

func TestAuthenticate(t *testing.T) {
	db := seededDB(t)

	u, err := Authenticate(db, "ana2024", "aluno123")
	require.NoError(t, err)
	assert.Equal(t, "Ana Carolina Oliveira", u.Name)
	assert.Equal(t, model.RoleStudent, u.Role)
	assert.True(t, u.Active)

	_, err = Authenticate(db, "ana2024", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Authenticate(db, "ninguem", "aluno123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	db := seededDB(t)
	u, err := GetUser(db, userID(t, db, "bruno2024"))
	require.NoError(t, err)

	require.NoError(t, UpdateUser(db, model.UpdateUser{ID: u.ID, Name: u.Name, Username: u.Username, Email: u.Email, Active: false}))

	_, err = Authenticate(db, "bruno2024", "aluno123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	n, err := CountActiveUsers(db, model.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestInsertUserDuplicateUsername(t *testing.T) {
	db := seededDB(t)

	_, err := InsertUser(db, model.NewUser{Name: "Outra Ana", Username: "ana2024", Password: "x", Role: model.RoleStudent})

	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestUpdateUserBlankPasswordKeepsHash(t *testing.T) {
	db := seededDB(t)
	id := userID(t, db, "carla2024")
	before, err := GetUserRecord(db, id)
	require.NoError(t, err)

	require.NoError(t, UpdateUser(db, model.UpdateUser{ID: id, Name: "Carla R.", Username: "carla2024", Phone: "(11) 98765-4321", Active: true}))

	after, err := GetUserRecord(db, id)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, "Carla R.", after.Name)
	assert.Equal(t, "(11) 98765-4321", after.Phone)
	assert.Empty(t, after.Email)

	require.NoError(t, UpdateUser(db, model.UpdateUser{ID: id, Name: "Carla R.", Username: "carla2024", Password: "nova", Active: true}))
	_, err = Authenticate(db, "carla2024", "nova")
	assert.NoError(t, err)
}

func TestUpdateUserDuplicateUsername(t *testing.T) {
	db := seededDB(t)
	id := userID(t, db, "carla2024")

	err := UpdateUser(db, model.UpdateUser{ID: id, Name: "Carla", Username: "bruno2024", Active: true})

	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestDeleteStudentAndRestore(t *testing.T) {
	db := seededDB(t)
	id := userID(t, db, "ana2024")
	rec, err := GetUserRecord(db, id)
	require.NoError(t, err)
	enrollments, err := GetEnrollmentsByStudent(db, id)
	require.NoError(t, err)
	require.Len(t, enrollments, 2)

	require.NoError(t, DeleteStudent(db, id))

	_, err = GetUser(db, id)
	assert.ErrorIs(t, err, ErrNotFound)
	left, err := GetEnrollmentsByStudent(db, id)
	require.NoError(t, err)
	assert.Empty(t, left)

	require.NoError(t, RestoreUser(db, rec, enrollments))

	restored, err := GetUserRecord(db, id)
	require.NoError(t, err)
	assert.Equal(t, rec, restored)
	rows, err := ListEnrollmentsForStudent(db, id)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	_, err = Authenticate(db, "ana2024", "aluno123")
	assert.NoError(t, err)
}

func TestDeleteStudentIgnoresStaff(t *testing.T) {
	db := seededDB(t)
	id := userID(t, db, "profjoao")

	require.NoError(t, DeleteStudent(db, id))

	_, err := GetUser(db, id)
	assert.NoError(t, err)
}

func TestOverwriteUserRestoresPassword(t *testing.T) {
	db := seededDB(t)
	id := userID(t, db, "bruno2024")
	rec, err := GetUserRecord(db, id)
	require.NoError(t, err)

	require.NoError(t, UpdateUser(db, model.UpdateUser{ID: id, Name: "B", Username: "bruno", Password: "trocada", Active: true}))
	require.NoError(t, OverwriteUser(db, rec))

	_, err = Authenticate(db, "bruno2024", "aluno123")
	assert.NoError(t, err)
}

func TestListUsersByRole(t *testing.T) {
	db := seededDB(t)

	professors, err := ListUsers(db, model.RoleProfessor)
	require.NoError(t, err)
	require.Len(t, professors, 2)
	assert.Equal(t, "Professor João Silva", professors[0].Name)
	assert.Equal(t, "Professora Maria Santos", professors[1].Name)

	latest, err := LatestUsers(db, model.RoleStudent, 2)
	require.NoError(t, err)
	assert.Len(t, latest, 2)
	assert.Equal(t, "carla2024", latest[0].Username)
}

func TestNewsLifecycle(t *testing.T) {
	db := seededDB(t)
	authorID := userID(t, db, "promaria")

	id, err := InsertNews(db, model.NewNews{Title: "Feira de Ciências", Content: "Dia 10.", AuthorID: authorID, Featured: true})
	require.NoError(t, err)

	n, err := GetNews(db, id)
	require.NoError(t, err)
	assert.Equal(t, "Professora Maria Santos", n.AuthorName)
	assert.True(t, n.Featured)
	require.NotNil(t, n.AuthorID)
	assert.Equal(t, authorID, *n.AuthorID)

	recent, err := RecentNews(db, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 4)
	assert.Equal(t, id, recent[0].ID)

	featured, err := FeaturedNews(db, 5)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	require.NoError(t, DeleteNews(db, id))
	_, err = GetNews(db, id)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, RestoreNews(db, n))
	back, err := GetNews(db, id)
	require.NoError(t, err)
	assert.Equal(t, n, back)
}

func TestListSubjects(t *testing.T) {
	db := seededDB(t)

	subjects, err := ListSubjects(db)
	require.NoError(t, err)
	require.Len(t, subjects, 4)

	byName := make(map[string]model.SubjectRow)
	for _, s := range subjects {
		byName[s.Name] = s
	}
	math := byName["Matemática"]
	assert.Equal(t, "Professor João Silva", math.ProfessorName)
	require.NotNil(t, math.Workload)
	assert.Equal(t, 80, *math.Workload)
	assert.Equal(t, 2, math.Enrolled)
	assert.Equal(t, 1, byName["Ciências"].Enrolled)
}

func TestDashboardAndStudentArea(t *testing.T) {
	db := seededDB(t)

	d, err := GetDashboard(db)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Stats.Students)
	assert.Len(t, d.RecentNews, 3)
	assert.Len(t, d.LatestStudents, 3)

	area, err := GetStudentArea(db, userID(t, db, "bruno2024"))
	require.NoError(t, err)
	assert.Equal(t, "Bruno Mendes", area.Student.Name)
	require.Len(t, area.Enrollments, 2)
	assert.Equal(t, "História", area.Enrollments[0].SubjectName)
	assert.Len(t, area.RecentNews, 3)
}

func TestSeedAdminOnly(t *testing.T) {
	db := openTestDB(t)

	inserted, err := SeedAdmin(db, "s3nh@Forte", zap.NewNop())
	require.NoError(t, err)
	assert.True(t, inserted)

	u, err := Authenticate(db, "admin", "s3nh@Forte")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)

	students, err := ListUsers(db, model.RoleStudent)
	require.NoError(t, err)
	assert.Empty(t, students)

	inserted, err = SeedAdmin(db, "", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, inserted)
}
