package services

import (
	"sort"
	"time"

	"lms/models"
	"lms/models/learning"
)

// Overview is the headline dashboard block for moderators.
type Overview struct {
	TotalStudents        int64   `json:"total_students"`
	TotalCourses         int64   `json:"total_courses"`
	TotalEnrollments     int64   `json:"total_enrollments"`
	PendingEnrollments   int64   `json:"pending_enrollments"`
	CompletedEnrollments int64   `json:"completed_enrollments"`
	CompletionRate       float64 `json:"completion_rate"`
	TotalAssessments     int64   `json:"total_assessments"`
	TotalResults         int64   `json:"total_results"`
	AverageScore         float64 `json:"average_score"`
	PendingCertificates  int64   `json:"pending_certificates"`
	VerifiedCertificates int64   `json:"verified_certificates"`
}

// CoursePerformance summarizes one course's enrollment funnel.
type CoursePerformance struct {
	CourseID        uint    `json:"course_id"`
	Title           string  `json:"title"`
	Enrollments     int64   `json:"enrollments"`
	Completions     int64   `json:"completions"`
	CompletionRate  float64 `json:"completion_rate"`
	AverageProgress float64 `json:"average_progress"`
	AverageScore    float64 `json:"average_score"`
}

// StudentEngagement summarizes one student's activity across courses.
type StudentEngagement struct {
	StudentID        uint       `json:"student_id"`
	Name             string     `json:"name"`
	EnrolledCourses  int        `json:"enrolled_courses"`
	AverageProgress  float64    `json:"average_progress"`
	CompletedCourses int        `json:"completed_courses"`
	AssessmentsTaken int64      `json:"assessments_taken"`
	AverageScore     float64    `json:"average_score"`
	LastActivity     *time.Time `json:"last_activity"`
}

// GetOverview computes the dashboard counters. The completion rate is the
// share of all enrollments that reached full progress, pending and rejected
// ones included in the denominator.
func (s *Service) GetOverview(p Principal) (*Overview, error) {
	const op = "analytics.Overview"

	if !p.CanModerate() {
		return nil, newError(op, ErrUnauthorized, "only admins and teachers can view analytics")
	}

	var overview Overview
	counts := []func() error{
		func() error {
			return s.db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", RoleStudent, false).Count(&overview.TotalStudents).Error
		},
		func() error {
			return s.db.Model(&learning.Course{}).Where("is_active = ? AND is_deleted = ?", true, false).Count(&overview.TotalCourses).Error
		},
		func() error {
			return s.db.Model(&learning.Enrollment{}).Where("is_deleted = ?", false).Count(&overview.TotalEnrollments).Error
		},
		func() error {
			return s.db.Model(&learning.Enrollment{}).Where("status = ? AND is_deleted = ?", learning.EnrollmentPending, false).Count(&overview.PendingEnrollments).Error
		},
		func() error {
			return s.db.Model(&learning.Enrollment{}).Where("progress >= ? AND is_deleted = ?", 100, false).Count(&overview.CompletedEnrollments).Error
		},
		func() error {
			return s.db.Model(&learning.Assessment{}).Where("is_active = ? AND is_deleted = ?", true, false).Count(&overview.TotalAssessments).Error
		},
		func() error {
			return s.db.Model(&learning.AssessmentResult{}).Count(&overview.TotalResults).Error
		},
		func() error {
			return s.db.Model(&learning.Certificate{}).Where("status = ? AND is_deleted = ?", learning.CertificatePending, false).Count(&overview.PendingCertificates).Error
		},
		func() error {
			return s.db.Model(&learning.Certificate{}).Where("status = ? AND is_deleted = ?", learning.CertificateVerified, false).Count(&overview.VerifiedCertificates).Error
		},
	}
	for _, count := range counts {
		if err := count(); err != nil {
			return nil, storageError(op, err)
		}
	}

	if overview.TotalEnrollments > 0 {
		overview.CompletionRate = 100 * float64(overview.CompletedEnrollments) / float64(overview.TotalEnrollments)
	}

	if overview.TotalResults > 0 {
		var avg *float64
		if err := s.db.Model(&learning.AssessmentResult{}).
			Select("AVG(percentage)").Scan(&avg).Error; err != nil {
			return nil, storageError(op, err)
		}
		if avg != nil {
			overview.AverageScore = *avg
		}
	}
	return &overview, nil
}

// GetCoursePerformance breaks enrollment and completion numbers down per
// course, busiest courses first.
func (s *Service) GetCoursePerformance(p Principal) ([]CoursePerformance, error) {
	const op = "analytics.CoursePerformance"

	if !p.CanModerate() {
		return nil, newError(op, ErrUnauthorized, "only admins and teachers can view analytics")
	}

	var courses []learning.Course
	if err := s.db.Where("is_deleted = ?", false).Find(&courses).Error; err != nil {
		return nil, storageError(op, err)
	}

	var enrollments []learning.Enrollment
	if err := s.db.Where("is_deleted = ?", false).Find(&enrollments).Error; err != nil {
		return nil, storageError(op, err)
	}

	var results []learning.AssessmentResult
	if err := s.db.Find(&results).Error; err != nil {
		return nil, storageError(op, err)
	}

	byCourse := make(map[uint][]learning.Enrollment)
	for _, e := range enrollments {
		byCourse[e.CourseID] = append(byCourse[e.CourseID], e)
	}
	scoreSums := make(map[uint]float64)
	scoreCounts := make(map[uint]int)
	for _, r := range results {
		scoreSums[r.CourseID] += r.Percentage
		scoreCounts[r.CourseID]++
	}

	performance := make([]CoursePerformance, 0, len(courses))
	for _, c := range courses {
		row := CoursePerformance{CourseID: c.ID, Title: c.Title}
		progressSum := 0
		for _, e := range byCourse[c.ID] {
			row.Enrollments++
			if e.Progress >= 100 {
				row.Completions++
			}
			progressSum += e.Progress
		}
		if row.Enrollments > 0 {
			row.CompletionRate = 100 * float64(row.Completions) / float64(row.Enrollments)
			row.AverageProgress = float64(progressSum) / float64(row.Enrollments)
		}
		if n := scoreCounts[c.ID]; n > 0 {
			row.AverageScore = scoreSums[c.ID] / float64(n)
		}
		performance = append(performance, row)
	}

	sort.Slice(performance, func(i, j int) bool {
		return performance[i].Enrollments > performance[j].Enrollments
	})
	return performance, nil
}

// GetStudentEngagement aggregates per-student activity across all their
// enrollments and results, most engaged students first. Names fall back from
// the user record to the enrollment form to a sentinel.
func (s *Service) GetStudentEngagement(p Principal) ([]StudentEngagement, error) {
	const op = "analytics.StudentEngagement"

	if !p.CanModerate() {
		return nil, newError(op, ErrUnauthorized, "only admins and teachers can view analytics")
	}

	var enrollments []learning.Enrollment
	if err := s.db.Where("is_deleted = ?", false).Find(&enrollments).Error; err != nil {
		return nil, storageError(op, err)
	}
	var results []learning.AssessmentResult
	if err := s.db.Find(&results).Error; err != nil {
		return nil, storageError(op, err)
	}

	type accum struct {
		engagement  StudentEngagement
		progressSum int
		scoreSum    float64
		formName    string
	}
	students := make(map[uint]*accum)
	get := func(studentID uint) *accum {
		a, ok := students[studentID]
		if !ok {
			a = &accum{engagement: StudentEngagement{StudentID: studentID}}
			students[studentID] = a
		}
		return a
	}

	for _, e := range enrollments {
		a := get(e.StudentID)
		a.engagement.EnrolledCourses++
		a.progressSum += e.Progress
		if e.Completed {
			a.engagement.CompletedCourses++
		}
		if a.formName == "" {
			a.formName = e.StudentName
		}
		// Enrolling is itself activity; progress updates move it forward
		enrolledAt := e.CreatedAt
		if a.engagement.LastActivity == nil || enrolledAt.After(*a.engagement.LastActivity) {
			a.engagement.LastActivity = &enrolledAt
		}
		if e.LastActivity != nil && e.LastActivity.After(*a.engagement.LastActivity) {
			a.engagement.LastActivity = e.LastActivity
		}
	}
	for _, r := range results {
		a := get(r.StudentID)
		a.engagement.AssessmentsTaken++
		a.scoreSum += r.Percentage
		completed := r.CompletedAt
		if a.engagement.LastActivity == nil || completed.After(*a.engagement.LastActivity) {
			a.engagement.LastActivity = &completed
		}
	}

	engagement := make([]StudentEngagement, 0, len(students))
	for studentID, a := range students {
		if a.engagement.EnrolledCourses > 0 {
			a.engagement.AverageProgress = float64(a.progressSum) / float64(a.engagement.EnrolledCourses)
		}
		if a.engagement.AssessmentsTaken > 0 {
			a.engagement.AverageScore = a.scoreSum / float64(a.engagement.AssessmentsTaken)
		}

		a.engagement.Name = "Unknown Student"
		var user models.User
		if err := s.db.Select("name").Where("id = ?", studentID).First(&user).Error; err == nil && user.Name != "" {
			a.engagement.Name = user.Name
		} else if a.formName != "" {
			a.engagement.Name = a.formName
		}
		engagement = append(engagement, a.engagement)
	}

	sort.Slice(engagement, func(i, j int) bool {
		return engagement[i].AverageProgress > engagement[j].AverageProgress
	})
	return engagement, nil
}

// GetRecentActivity returns the latest assessment results across all
// students, enriched with titles.
func (s *Service) GetRecentActivity(p Principal, limit int) ([]ResultView, error) {
	const op = "analytics.RecentActivity"

	if !p.CanModerate() {
		return nil, newError(op, ErrUnauthorized, "only admins and teachers can view analytics")
	}
	if limit <= 0 {
		limit = 10
	}

	var results []learning.AssessmentResult
	if err := s.db.Order("completed_at desc").Limit(limit).Find(&results).Error; err != nil {
		return nil, storageError(op, err)
	}
	return s.enrichResults(results), nil
}
