package learning

import (
	"time"

	"gorm.io/gorm"
)

// Certificate statuses
const (
	CertificatePending  = "pending"
	CertificateVerified = "verified"
	CertificateRejected = "rejected"
)

// Certificate is an attestation of course completion awaiting or carrying
// administrative verification. A verified certificate always has a number;
// at most one non-rejected certificate exists per (student, course).
type Certificate struct {
	gorm.Model
	StudentID    uint   `json:"student_id" gorm:"index;not null"`
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	CourseName   string `json:"course_name"`

	CompletedAt time.Time `json:"completed_at"`
	RequestedAt time.Time `json:"requested_at"`
	Status      string    `json:"status" gorm:"default:'pending'"` // pending, verified, rejected

	VerifiedBy        *uint      `json:"verified_by"`
	VerifiedAt        *time.Time `json:"verified_at"`
	CertificateNumber string     `json:"certificate_number"`
	RejectionReason   string     `json:"rejection_reason"`
	IsDeleted         bool       `gorm:"default:false"`
}
