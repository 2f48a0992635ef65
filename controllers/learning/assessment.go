package controllers

import (
	"sync"

	"lms/middleware"
	"lms/models/learning"
	"lms/services"

	"github.com/gofiber/fiber/v2"
)

// attemptRegistry holds live assessment sittings keyed by attempt id so a
// student can answer across requests. The attempt's settle callback evicts
// the entry on submit, cancel and timer auto-submit alike, so timed-out
// sittings do not accumulate.
var attemptRegistry = struct {
	sync.Mutex
	attempts map[string]*services.Attempt
}{attempts: make(map[string]*services.Attempt)}

func storeAttempt(a *services.Attempt) {
	attemptRegistry.Lock()
	defer attemptRegistry.Unlock()
	attemptRegistry.attempts[a.ID] = a
}

func loadAttempt(id string, studentID uint) (*services.Attempt, bool) {
	attemptRegistry.Lock()
	defer attemptRegistry.Unlock()
	a, ok := attemptRegistry.attempts[id]
	if !ok || a.StudentID != studentID {
		return nil, false
	}
	return a, true
}

func dropAttempt(id string) {
	attemptRegistry.Lock()
	defer attemptRegistry.Unlock()
	delete(attemptRegistry.attempts, id)
}

// attemptQuestionView hides the correct option from students during a sitting.
type attemptQuestionView struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Points  int      `json:"points"`
}

func questionViews(questions []learning.Question) []attemptQuestionView {
	views := make([]attemptQuestionView, 0, len(questions))
	for i, q := range questions {
		views = append(views, attemptQuestionView{
			Index:   i,
			Text:    q.Text,
			Options: q.Options,
			Points:  q.Points,
		})
	}
	return views
}

// CreateAssessment defines a new timed assessment. Admin and teacher only.
func CreateAssessment(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	input, ok := c.Locals("validatedAssessment").(*services.CreateAssessmentInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid assessment payload!", nil)
	}

	assessment, err := engine().CreateAssessment(p, *input)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assessment created successfully!", assessment)
}

// GetAvailableAssessments lists assessments the student can still take.
func GetAvailableAssessments(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assessments, err := engine().ListAvailableAssessments(p)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessments fetched successfully!", assessments)
}

// StartAttempt opens a timed sitting and returns the questions without their
// correct options.
func StartAttempt(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assessmentID := c.Locals("assessmentID").(uint)

	attempt, err := engine().StartAttempt(p, assessmentID)
	if err != nil {
		return serviceError(c, err)
	}

	// Refetch for the question texts; the attempt keeps them private
	assessment, err := engine().GetAssessment(p, assessmentID)
	if err != nil {
		attempt.Cancel()
		return serviceError(c, err)
	}

	attempt.OnSettled(func(id string) { dropAttempt(id) })
	storeAttempt(attempt)

	response := fiber.Map{
		"attempt_id":        attempt.ID,
		"assessment_id":     attempt.AssessmentID,
		"started_at":        attempt.StartedAt,
		"deadline":          attempt.Deadline,
		"seconds_remaining": attempt.SecondsRemaining(),
		"questions":         questionViews(assessment.Questions.Data()),
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Attempt started successfully!", response)
}

// RecordAnswer stores one answer on a live attempt.
func RecordAnswer(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(string)
	questionIndex := c.Locals("questionIndex").(int)
	optionIndex := c.Locals("optionIndex").(int)

	attempt, ok := loadAttempt(attemptID, p.UserID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	if err := attempt.RecordAnswer(questionIndex, optionIndex); err != nil {
		return serviceError(c, err)
	}

	response := fiber.Map{
		"attempt_id":        attempt.ID,
		"seconds_remaining": attempt.SecondsRemaining(),
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer recorded!", response)
}

// SubmitAttempt grades the sitting and returns the recorded result.
func SubmitAttempt(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(string)

	attempt, ok := loadAttempt(attemptID, p.UserID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	// The settle callback evicts the registry entry
	result, err := engine().SubmitAttempt(attempt)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assessment submitted successfully!", result)
}

// CancelAttempt abandons a live sitting without recording a result.
func CancelAttempt(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(string)

	attempt, ok := loadAttempt(attemptID, p.UserID)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	attempt.Cancel()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt cancelled!", nil)
}

// GetMyResults lists the caller's assessment results.
func GetMyResults(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	results, err := engine().ListResults(p)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Results fetched successfully!", results)
}
