package utils

import (
	"log"
	"time"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// CertificateIssuedEvent is the payload pushed to the portal webhook when a
// certificate is verified.
type CertificateIssuedEvent struct {
	Event             string    `json:"event"`
	StudentID         uint      `json:"student_id"`
	StudentName       string    `json:"student_name"`
	CourseName        string    `json:"course_name"`
	CertificateNumber string    `json:"certificate_number"`
	VerifiedAt        time.Time `json:"verified_at"`
}

// NotifyCertificateIssued posts the event to the configured portal webhook.
// A missing webhook URL disables the integration silently; delivery failures
// are logged and dropped, the certificate itself is already committed.
func NotifyCertificateIssued(event CertificateIssuedEvent) {
	url := config.AppConfig.PortalWebhookURL
	if url == "" {
		return
	}
	event.Event = "certificate.issued"

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(url)
	if err != nil {
		log.Printf("[WEBHOOK] Error delivering certificate event: %v", err)
		return
	}
	if resp.IsError() {
		log.Printf("[WEBHOOK] Certificate event rejected, status: %d", resp.StatusCode())
		return
	}
	log.Printf("[WEBHOOK] Certificate event delivered for %s", event.CertificateNumber)
}
