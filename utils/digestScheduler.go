package utils

import (
	"log"

	"lms/config"
	"lms/database"
	"lms/models/learning"

	"github.com/robfig/cron/v3"
)

// InitializeDigestScheduler sets up the daily review digest for staff
func InitializeDigestScheduler() {
	log.Println("[DIGEST-SCHEDULER] Initializing digest scheduler...")

	c := cron.New()

	// Run daily at 8 AM to summarize the review queue
	c.AddFunc("0 8 * * *", func() {
		log.Println("[DIGEST-SCHEDULER] Running daily digest...")
		SendPendingWorkDigest()
	})

	c.Start()
	log.Println("[DIGEST-SCHEDULER] Digest scheduler started - runs daily at 8 AM")
}

// SendPendingWorkDigest counts open enrollment and certificate requests and
// emails the summary to the configured recipient. Skips the email when the
// queue is empty.
func SendPendingWorkDigest() {
	db := database.Database.Db

	var pendingEnrollments int64
	if err := db.Model(&learning.Enrollment{}).
		Where("status = ? AND is_deleted = ?", learning.EnrollmentPending, false).
		Count(&pendingEnrollments).Error; err != nil {
		log.Printf("[DIGEST-SCHEDULER] Error counting pending enrollments: %v", err)
		return
	}

	var pendingCertificates int64
	if err := db.Model(&learning.Certificate{}).
		Where("status = ? AND is_deleted = ?", learning.CertificatePending, false).
		Count(&pendingCertificates).Error; err != nil {
		log.Printf("[DIGEST-SCHEDULER] Error counting pending certificates: %v", err)
		return
	}

	if pendingEnrollments == 0 && pendingCertificates == 0 {
		log.Println("[DIGEST-SCHEDULER] Review queue is empty, skipping digest")
		return
	}

	recipient := config.AppConfig.DigestRecipient
	if recipient == "" {
		log.Println("[DIGEST-SCHEDULER] No digest recipient configured, skipping")
		return
	}

	SendDigestEmail(recipient, pendingEnrollments, pendingCertificates)
	log.Printf("[DIGEST-SCHEDULER] Digest sent to %s (%d enrollments, %d certificates pending)",
		recipient, pendingEnrollments, pendingCertificates)
}
