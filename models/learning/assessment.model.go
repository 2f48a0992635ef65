package learning

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OptionsPerQuestion is the fixed number of choices every question carries
const OptionsPerQuestion = 4

// Question is a single multiple-choice question embedded in an assessment
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"` // exactly 4
	CorrectOption int      `json:"correct_option"`
	Points        int      `json:"points"`
}

// Assessment is a timed multiple-choice test attached to a course.
// Immutable after creation; TotalPoints is computed from the questions.
type Assessment struct {
	gorm.Model
	CourseID         uint                           `json:"course_id" gorm:"index;not null"`
	Title            string                         `json:"title"`
	Description      string                         `json:"description"`
	Questions        datatypes.JSONType[[]Question] `json:"questions"`
	TimeLimitMinutes int                            `json:"time_limit_minutes" gorm:"default:30"`
	TotalPoints      int                            `json:"total_points" gorm:"default:0"`
	CreatedBy        uint                           `json:"created_by" gorm:"index"`
	IsActive         bool                           `json:"is_active" gorm:"default:true"`
	IsDeleted        bool                           `gorm:"default:false"`
}
