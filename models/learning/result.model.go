package learning

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssessmentResult is the single permitted outcome of one student's run through
// an assessment. The composite unique index enforces the one-attempt rule at
// the storage layer so concurrent submits produce exactly one winner.
type AssessmentResult struct {
	gorm.Model
	StudentID        uint                            `json:"student_id" gorm:"not null;uniqueIndex:idx_result_student_assessment"`
	AssessmentID     uint                            `json:"assessment_id" gorm:"not null;uniqueIndex:idx_result_student_assessment"`
	CourseID         uint                            `json:"course_id" gorm:"index;not null"`
	Answers          datatypes.JSONType[map[int]int] `json:"answers"` // question index -> selected option index
	Score            int                             `json:"score"`
	TotalPoints      int                             `json:"total_points"`
	Percentage       float64                         `json:"percentage"`
	CompletedAt      time.Time                       `json:"completed_at" gorm:"index"`
	TimeSpentSeconds int                             `json:"time_spent_seconds"`
}
