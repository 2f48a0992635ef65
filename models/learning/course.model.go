package learning

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course difficulty levels
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Material types
const (
	MaterialDocument     = "document"
	MaterialVideo        = "video"
	MaterialPresentation = "presentation"
	MaterialAudio        = "audio"
)

// Material is a single learning resource embedded in a course
type Material struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"` // document, video, presentation, audio
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Course represents a learning course with its embedded materials
type Course struct {
	gorm.Model
	Title         string                         `json:"title"`
	Description   string                         `json:"description"`
	Category      string                         `json:"category"`
	Difficulty    string                         `json:"difficulty" gorm:"default:'beginner'"`
	DurationHours int                            `json:"duration_hours" gorm:"default:1"`
	Materials     datatypes.JSONType[[]Material] `json:"materials"`
	CreatedBy     uint                           `json:"created_by" gorm:"index"`
	IsActive      bool                           `json:"is_active" gorm:"default:true"`
	IsDeleted     bool                           `gorm:"default:false"`
}

// ValidDifficulty reports whether d is a known difficulty level
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// ValidMaterialType reports whether t is a known material type
func ValidMaterialType(t string) bool {
	switch t {
	case MaterialDocument, MaterialVideo, MaterialPresentation, MaterialAudio:
		return true
	}
	return false
}
