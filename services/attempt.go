package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"lms/models/learning"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attempt is a live assessment sitting. It lives in memory only; the single
// durable artifact is the AssessmentResult written on submission. The deadline
// timer drives auto submission through the same path as a manual submit, so
// whichever fires first wins and the other sees a duplicate.
type Attempt struct {
	ID           string
	StudentID    uint
	AssessmentID uint
	CourseID     uint
	StartedAt    time.Time
	Deadline     time.Time

	questions   []learning.Question
	totalPoints int
	limitSecs   int

	mu        sync.Mutex
	answers   map[int]int
	timer     *time.Timer
	submitted bool
	onSettled func(attemptID string)
}

// OnSettled registers a callback invoked exactly once when the attempt
// reaches a terminal state, whether by manual submit, timer auto-submit or
// cancel. Fires immediately when the attempt is already settled.
func (a *Attempt) OnSettled(fn func(attemptID string)) {
	a.mu.Lock()
	if a.submitted {
		a.mu.Unlock()
		fn(a.ID)
		return
	}
	a.onSettled = fn
	a.mu.Unlock()
}

func (a *Attempt) notifySettled() {
	a.mu.Lock()
	fn := a.onSettled
	a.onSettled = nil
	a.mu.Unlock()
	if fn != nil {
		fn(a.ID)
	}
}

// SecondsRemaining reports the wall-clock seconds left before auto submission,
// never negative.
func (a *Attempt) SecondsRemaining() int {
	remaining := int(time.Until(a.Deadline).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// QuestionCount reports how many questions the sitting holds.
func (a *Attempt) QuestionCount() int {
	return len(a.questions)
}

// RecordAnswer stores the selected option for a question. Re-answering
// overwrites the previous choice. Recording after submission is rejected.
func (a *Attempt) RecordAnswer(questionIndex, optionIndex int) error {
	const op = "attempt.RecordAnswer"

	if questionIndex < 0 || questionIndex >= len(a.questions) {
		return newError(op, ErrValidation, "question index out of range")
	}
	if optionIndex < 0 || optionIndex >= learning.OptionsPerQuestion {
		return newError(op, ErrValidation, "option index out of range")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.submitted {
		return newError(op, ErrInvalidState, "attempt has already been submitted")
	}
	a.answers[questionIndex] = optionIndex
	return nil
}

// Cancel abandons the attempt without recording a result and stops the
// auto-submit timer. Cancelling an already submitted attempt is a no-op.
func (a *Attempt) Cancel() {
	a.mu.Lock()
	if a.submitted {
		a.mu.Unlock()
		return
	}
	a.submitted = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
	a.notifySettled()
}

// StartAttempt opens a timed sitting of an assessment for the calling student.
// Requires an approved enrollment in the assessment's course and no previously
// recorded result. The deadline timer auto-submits whatever answers have been
// recorded when time runs out.
func (s *Service) StartAttempt(p Principal, assessmentID uint) (*Attempt, error) {
	const op = "attempt.Start"

	var assessment learning.Assessment
	err := s.db.Where("id = ? AND is_active = ? AND is_deleted = ?", assessmentID, true, false).First(&assessment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(op, ErrNotFound, "assessment not found")
	}
	if err != nil {
		return nil, storageError(op, err)
	}

	var enrollment learning.Enrollment
	err = s.db.Where(
		"student_id = ? AND course_id = ? AND status = ? AND is_deleted = ?",
		p.UserID, assessment.CourseID, learning.EnrollmentApproved, false,
	).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(op, ErrInvalidState, "no approved enrollment for this course")
	}
	if err != nil {
		return nil, storageError(op, err)
	}

	var prior learning.AssessmentResult
	err = s.db.Where("student_id = ? AND assessment_id = ?", p.UserID, assessmentID).First(&prior).Error
	if err == nil {
		return nil, newError(op, ErrDuplicate, "assessment has already been completed")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageError(op, err)
	}

	now := time.Now()
	attempt := &Attempt{
		ID:           uuid.NewString(),
		StudentID:    p.UserID,
		AssessmentID: assessment.ID,
		CourseID:     assessment.CourseID,
		StartedAt:    now,
		Deadline:     now.Add(time.Duration(assessment.TimeLimitMinutes) * time.Minute),
		questions:    assessment.Questions.Data(),
		totalPoints:  assessment.TotalPoints,
		limitSecs:    assessment.TimeLimitMinutes * 60,
		answers:      make(map[int]int),
	}
	attempt.timer = time.AfterFunc(time.Until(attempt.Deadline), func() {
		s.autoSubmit(attempt)
	})
	return attempt, nil
}

// SubmitAttempt grades the sitting and records the result. Exactly one
// submission wins per attempt; the in-memory flag stops the timer race and
// the unique result index stops a replayed attempt for the same assessment.
func (s *Service) SubmitAttempt(a *Attempt) (*learning.AssessmentResult, error) {
	const op = "attempt.Submit"

	a.mu.Lock()
	if a.submitted {
		a.mu.Unlock()
		return nil, newError(op, ErrDuplicate, "attempt has already been submitted")
	}
	a.submitted = true
	if a.timer != nil {
		a.timer.Stop()
	}
	answers := make(map[int]int, len(a.answers))
	for k, v := range a.answers {
		answers[k] = v
	}
	a.mu.Unlock()

	score := scoreAnswers(a.questions, answers)
	percentage := 0.0
	if a.totalPoints > 0 {
		percentage = 100 * float64(score) / float64(a.totalPoints)
	}

	timeSpent := a.limitSecs - a.SecondsRemaining()
	if timeSpent < 0 {
		timeSpent = 0
	}
	if timeSpent > a.limitSecs {
		timeSpent = a.limitSecs
	}

	result := learning.AssessmentResult{
		StudentID:        a.StudentID,
		AssessmentID:     a.AssessmentID,
		CourseID:         a.CourseID,
		Answers:          datatypes.NewJSONType(answers),
		Score:            score,
		TotalPoints:      a.totalPoints,
		Percentage:       percentage,
		CompletedAt:      time.Now(),
		TimeSpentSeconds: timeSpent,
	}

	if err := s.db.Create(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			a.notifySettled()
			return nil, newError(op, ErrDuplicate, "assessment has already been completed")
		}
		// Let the caller retry the submission
		a.mu.Lock()
		a.submitted = false
		a.mu.Unlock()
		return nil, storageError(op, err)
	}
	a.notifySettled()
	return &result, nil
}

func (s *Service) autoSubmit(a *Attempt) {
	if _, err := s.SubmitAttempt(a); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return // manual submit already landed
		}
		log.Printf("[ATTEMPT] auto-submit failed for attempt %s: %v", a.ID, err)
	}
}
