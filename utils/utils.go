package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateCertificateNumber builds a globally unique certificate number like
// CERT-1735689600000-9F3A2C1B. The timestamp keeps numbers roughly sortable,
// the uuid fragment keeps them unguessable.
func GenerateCertificateNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("CERT-%d-%s", time.Now().UnixMilli(), fragment)
}
