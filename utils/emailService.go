package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"lms/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Learning Portal <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	fmt.Println("Email sent successfully to", strings.Join(to, ","))
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A237E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A237E; line-height: 1.6; }
			.content h2 { color: #1A237E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #4CAF50; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>LEARNING PORTAL</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Learning Portal. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Enrollment Approved
func SendEnrollmentApprovedEmail(email, name, courseName string) {
	subject := "Enrollment Approved: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your enrollment in <strong>%s</strong> has been approved.</p>
		<p>You can now access all the course materials and start learning. Complete every module to become eligible for a certificate.</p>
	`, name, courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Approved", body))
}

// 2. Enrollment Rejected
func SendEnrollmentRejectedEmail(email, name, courseName string) {
	subject := "Enrollment Update: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Unfortunately, your enrollment request for <strong>%s</strong> was not approved at this time.</p>
		<p>You are welcome to browse other courses in the catalog.</p>
	`, name, courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Enrollment Update", body))
}

// 3. Certificate Verified
func SendCertificateEmail(email, name, courseName, certificateNumber string) {
	subject := "Your Certificate for " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<div class="info-box">
			<strong>Certificate Number:</strong> %s
		</div>
		<p>Your certificate has been verified and issued. Keep this number for verification purposes.</p>
	`, name, courseName, certificateNumber)

	go SendEmail([]string{email}, subject, getEmailTemplate("Certificate Issued", body))
}

// 4. Certificate Rejected
func SendCertificateRejectedEmail(email, name, courseName, reason string) {
	subject := "Certificate Request Update: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your certificate request for <strong>%s</strong> was declined.</p>
		<div style="color: #DC3545; font-weight: bold;">Reason: %s</div>
		<p>Please contact your instructor if you believe this is a mistake, then submit a new request.</p>
	`, name, courseName, reason)

	go SendEmail([]string{email}, subject, getEmailTemplate("Certificate Request Declined", body))
}

// 5. Pending Work Digest (To Staff)
func SendDigestEmail(email string, pendingEnrollments, pendingCertificates int64) {
	subject := "Daily Review Digest"
	body := fmt.Sprintf(`
		<p>Hello,</p>
		<p>Here is today's review queue:</p>
		<div class="info-box">
			<ul style="list-style: none; padding: 0; margin: 0;">
				<li style="margin-bottom: 8px;"><strong>Pending Enrollments:</strong> %d</li>
				<li><strong>Pending Certificates:</strong> %d</li>
			</ul>
		</div>
		<p>Login to the admin dashboard to process them.</p>
	`, pendingEnrollments, pendingCertificates)

	go SendEmail([]string{email}, subject, getEmailTemplate("Daily Review Digest", body))
}
