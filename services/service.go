package services

import (
	"gorm.io/gorm"
)

// Roles recognized by the engine. The identity context supplies them; the
// engine only ever checks membership.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Principal is the already-authenticated caller of every engine operation.
type Principal struct {
	UserID uint
	Role   string
}

// CanModerate reports whether the principal may decide enrollments and
// manage courses/assessments.
func (p Principal) CanModerate() bool {
	return p.Role == RoleAdmin || p.Role == RoleTeacher
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Service is the lifecycle engine over the learning entities. All mutating
// operations are single atomic conditional updates so concurrent conflicting
// requests produce exactly one winner.
type Service struct {
	db *gorm.DB
}

// New creates a Service backed by the given database handle.
func New(db *gorm.DB) *Service {
	return &Service{db: db}
}
