package controllers

import (
	"lms/middleware"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestCertificate opens a certificate request for a completed course.
func RequestCertificate(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	certificate, err := engine().RequestCertificate(p, courseID)
	if err != nil {
		// A duplicate still returns the existing open request
		if certificate != nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false,
				"A certificate request for this course already exists!", certificate)
		}
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate requested successfully!", certificate)
}

// GetMyCertificates lists the caller's certificate requests.
func GetMyCertificates(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certificates, err := engine().ListCertificates(p)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}

// GetPendingCertificates lists open requests for admin review.
func GetPendingCertificates(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certificates, err := engine().ListPendingCertificates(p)
	if err != nil {
		return serviceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending certificates fetched successfully!", certificates)
}

// VerifyCertificate approves a pending request and issues the certificate
// number. Admin only. The student email and portal webhook fire after the
// write commits.
func VerifyCertificate(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certificateID := c.Locals("certificateID").(uint)

	certificate, err := engine().VerifyCertificate(p, certificateID)
	if err != nil {
		return serviceError(c, err)
	}

	if certificate.StudentEmail != "" {
		utils.SendCertificateEmail(
			certificate.StudentEmail,
			certificate.StudentName,
			certificate.CourseName,
			certificate.CertificateNumber,
		)
	}
	go utils.NotifyCertificateIssued(utils.CertificateIssuedEvent{
		StudentID:         certificate.StudentID,
		StudentName:       certificate.StudentName,
		CourseName:        certificate.CourseName,
		CertificateNumber: certificate.CertificateNumber,
		VerifiedAt:        *certificate.VerifiedAt,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified successfully!", certificate)
}

// RejectCertificate declines a pending request with a reason. Admin only.
func RejectCertificate(c *fiber.Ctx) error {
	p, ok := principal(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certificateID := c.Locals("certificateID").(uint)
	reason := c.Locals("rejectionReason").(string)

	certificate, err := engine().RejectCertificate(p, certificateID, reason)
	if err != nil {
		return serviceError(c, err)
	}

	if certificate.StudentEmail != "" {
		utils.SendCertificateRejectedEmail(
			certificate.StudentEmail,
			certificate.StudentName,
			certificate.CourseName,
			certificate.RejectionReason,
		)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate rejected!", certificate)
}
