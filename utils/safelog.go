// utils/safelog.go
// ============================================================================
// SAFE LOGGING - masks personal data in production logs
// ============================================================================

package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// IsProduction controls whether sensitive values are masked before
// they reach the logs.
var IsProduction = os.Getenv("GIN_MODE") == "release" ||
	os.Getenv("ENVIRONMENT") == "production" ||
	os.Getenv("ENV") == "production"

// MaskEmail turns "alice@example.com" into "a***@example.com" in
// production, and returns the address untouched elsewhere.
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// MaskID keeps the first 8 characters of an id, enough to correlate
// log lines without exposing the full identifier.
func MaskID(id string) string {
	if !IsProduction || len(id) <= 8 {
		return id
	}
	return id[:8] + "…"
}

// SafeLogf logs with fmt semantics; callers pass already-masked values.
func SafeLogf(format string, args ...interface{}) {
	log.Print(fmt.Sprintf(format, args...))
}
