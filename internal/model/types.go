package model

import "time"

// Role is a user's access level.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "professor"
	RoleStudent   Role = "aluno"
)

// IsStaff reports whether the role may use the administration screens.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleProfessor
}

// Label returns the display name of the role.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrador"
	case RoleProfessor:
		return "Professor"
	case RoleStudent:
		return "Aluno"
	default:
		return string(r)
	}
}

// User represents a person with a login: admin, professor or student.
type User struct {
	ID        int64
	Name      string
	Username  string
	Role      Role
	Email     string
	Phone     string
	Address   string
	BirthDate string // ISO 8601 date (YYYY-MM-DD)
	CreatedAt time.Time
	Active    bool
}

// UserRecord is a user together with its password hash, used to restore a
// user exactly as it was.
type UserRecord struct {
	User
	PasswordHash string
}

// NewUser represents data for creating a user.
type NewUser struct {
	Name      string
	Username  string
	Password  string
	Role      Role
	Email     string
	Phone     string
	Address   string
	BirthDate string
}

// UpdateUser represents data for updating a user. An empty Password keeps
// the current one.
type UpdateUser struct {
	ID        int64
	Name      string
	Username  string
	Password  string
	Email     string
	Phone     string
	Address   string
	BirthDate string
	Active    bool
}

// News represents a published news item.
type News struct {
	ID          int64
	Title       string
	Content     string
	Image       string
	PublishedAt time.Time
	AuthorID    *int64
	AuthorName  string
	Featured    bool
}

// NewNews represents data for publishing a news item.
type NewNews struct {
	Title    string
	Content  string
	Image    string // file name under the uploads directory
	AuthorID int64
	Featured bool
}

// SubjectRow represents a subject with its professor and enrollment count
// for list display.
type SubjectRow struct {
	ID            int64
	Name          string
	Description   string
	ProfessorName string
	Workload      *int // hours
	Enrolled      int
}

// Enrollment links a student to a subject.
type Enrollment struct {
	ID         int64
	StudentID  int64
	SubjectID  int64
	EnrolledAt time.Time
	Status     string
}

// EnrollmentRow represents an active enrollment with subject data for the
// student area.
type EnrollmentRow struct {
	SubjectID     int64
	SubjectName   string
	Description   string
	ProfessorName string
	EnrolledAt    time.Time
}

// Stats holds the school-wide counters.
type Stats struct {
	Students   int `json:"alunos"`
	Professors int `json:"professores"`
	Subjects   int `json:"disciplinas"`
	News       int `json:"-"`
}

// Dashboard is everything the staff dashboard shows.
type Dashboard struct {
	Stats          Stats
	RecentNews     []News
	LatestStudents []User
}

// StudentArea is everything the student area shows.
type StudentArea struct {
	Student     User
	Enrollments []EnrollmentRow
	RecentNews  []News
}

// Session is the logged-in user.
type Session struct {
	ID        string
	User      User
	StartedAt time.Time
}
