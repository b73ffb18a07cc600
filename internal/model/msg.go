package model

import "image"

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// LoginSucceededMsg is sent when a user logs in.
type LoginSucceededMsg struct {
	Session Session
}

// DashboardLoadedMsg is sent when the staff dashboard is loaded.
type DashboardLoadedMsg struct {
	Dashboard Dashboard
}

// StudentsLoadedMsg is sent when students are loaded.
type StudentsLoadedMsg struct {
	Students []User
}

// ProfessorsLoadedMsg is sent when professors are loaded.
type ProfessorsLoadedMsg struct {
	Professors []User
}

// SubjectsLoadedMsg is sent when subjects are loaded.
type SubjectsLoadedMsg struct {
	Subjects []SubjectRow
}

// NewsLoadedMsg is sent when the news list is loaded.
type NewsLoadedMsg struct {
	News []News
}

// NewsDetailLoadedMsg is sent when a news item is loaded. Image is nil when
// the item has no image or the file cannot be decoded.
type NewsDetailLoadedMsg struct {
	News  News
	Image image.Image
}

// StudentAreaLoadedMsg is sent when the student area is loaded.
type StudentAreaLoadedMsg struct {
	Area StudentArea
}

// StudentSavedMsg is sent when a student is successfully saved.
type StudentSavedMsg struct {
	ID        int64
	Operation string // insert, update
	Before    *UserRecord
	After     UserRecord
}

// DeletedStudent is a removed student with everything needed to restore it.
type DeletedStudent struct {
	Record      UserRecord
	Enrollments []Enrollment
}

// StudentsDeletedMsg is sent when one or more students were deleted.
type StudentsDeletedMsg struct {
	Deleted []DeletedStudent
}

// NewsSavedMsg is sent when a news item is published.
type NewsSavedMsg struct {
	ID    int64
	After News
}

// NewsDeletedMsg is sent when a news item was deleted.
type NewsDeletedMsg struct {
	Deleted News
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenStudents
	ScreenProfessors
	ScreenSubjects
	ScreenNews
	ScreenNewsDetail
	ScreenStudentArea
	ScreenStudentForm
	ScreenNewsForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
	ModeSearch
	ModeConfirm
)
