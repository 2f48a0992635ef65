package learning

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentPending  = "pending"
	EnrollmentApproved = "approved"
	EnrollmentRejected = "rejected"
)

// Enrollment tracks a student's relationship to one course with approval status and progress.
// Progress and the derived completed flag are always written in the same update.
type Enrollment struct {
	gorm.Model
	StudentID uint   `json:"student_id" gorm:"index;not null"`
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	Status    string `json:"status" gorm:"default:'pending'"` // pending, approved, rejected

	// Application profile captured at request time
	StudentName       string `json:"student_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Address           string `json:"address"`
	PreviousEducation string `json:"previous_education"`
	Motivation        string `json:"motivation"`

	Progress     int        `json:"progress" gorm:"default:0"` // 0-100
	Completed    bool       `json:"completed" gorm:"default:false"`
	CompletedAt  *time.Time `json:"completed_at"`
	LastActivity *time.Time `json:"last_activity"`
	IsDeleted    bool       `gorm:"default:false"`
}
