package db

import (
	"database/sql"

	"escola/internal/model"
)

// GetStats counts active students and professors, subjects and news.
func GetStats(db *sql.DB) (model.Stats, error) {
	var s model.Stats
	var err error
	if s.Students, err = CountActiveUsers(db, model.RoleStudent); err != nil {
		return model.Stats{}, err
	}
	if s.Professors, err = CountActiveUsers(db, model.RoleProfessor); err != nil {
		return model.Stats{}, err
	}
	if s.Subjects, err = CountSubjects(db); err != nil {
		return model.Stats{}, err
	}
	if s.News, err = CountNews(db); err != nil {
		return model.Stats{}, err
	}
	return s, nil
}

// GetDashboard loads everything the staff dashboard shows.
func GetDashboard(db *sql.DB) (model.Dashboard, error) {
	stats, err := GetStats(db)
	if err != nil {
		return model.Dashboard{}, err
	}
	news, err := RecentNews(db, 5)
	if err != nil {
		return model.Dashboard{}, err
	}
	students, err := LatestUsers(db, model.RoleStudent, 5)
	if err != nil {
		return model.Dashboard{}, err
	}
	return model.Dashboard{Stats: stats, RecentNews: news, LatestStudents: students}, nil
}

// GetStudentArea loads a student's own page.
func GetStudentArea(db *sql.DB, studentID int64) (model.StudentArea, error) {
	student, err := GetUser(db, studentID)
	if err != nil {
		return model.StudentArea{}, err
	}
	enrollments, err := ListEnrollmentsForStudent(db, studentID)
	if err != nil {
		return model.StudentArea{}, err
	}
	news, err := RecentNews(db, 5)
	if err != nil {
		return model.StudentArea{}, err
	}
	return model.StudentArea{Student: student, Enrollments: enrollments, RecentNews: news}, nil
}
