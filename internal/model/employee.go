package model

import "time"

// Employee represents a member of staff who holds trainings and certificates.
type Employee struct {
	ID         int64      `json:"id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      string     `json:"email"`
	Department string     `json:"department,omitempty"`
	JobTitle   string     `json:"job_title,omitempty"`
	Active     bool       `json:"active"`
	HiredAt    *time.Time `json:"hired_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// FullName returns "First Last" with surrounding whitespace collapsed.
func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	default:
		return e.FirstName + " " + e.LastName
	}
}

// Course is a catalog entry that trainings are scheduled from.
type Course struct {
	ID            int64  `json:"id"`
	Code          string `json:"code"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	ValidityMonths int   `json:"validity_months,omitempty"`
}

// TrainingStatus represents the lifecycle state of a scheduled training.
type TrainingStatus string

const (
	TrainingStatusPlanned   TrainingStatus = "planned"
	TrainingStatusConfirmed TrainingStatus = "confirmed"
	TrainingStatusCompleted TrainingStatus = "completed"
	TrainingStatusCancelled TrainingStatus = "cancelled"
)

// Training is a scheduled session of a course.
type Training struct {
	ID              int64          `json:"id"`
	CourseID        int64          `json:"course_id"`
	CourseTitle     string         `json:"course_title,omitempty"`
	StartDate       time.Time      `json:"start_date"`
	EndDate         *time.Time     `json:"end_date,omitempty"`
	Instructor      string         `json:"instructor,omitempty"`
	Location        string         `json:"location,omitempty"`
	MaxParticipants int            `json:"max_participants,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Status          TrainingStatus `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
}
