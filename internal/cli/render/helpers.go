package render

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/nftmarket/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	labelStyle    = color.New(color.Faint)
	valueStyle    = color.New(color.FgWhite, color.Bold)
	addressStyle  = color.New(color.FgWhite)
	warningStyle  = color.New(color.FgYellow)
	successStyle  = color.New(color.FgGreen)
	errorStyle    = color.New(color.FgRed)
	headerStyle   = color.New(color.Bold, color.FgHiWhite)
	verifiedStyle = color.New(color.FgGreen)
	failedStyle   = color.New(color.FgRed)
	skippedStyle  = color.New(color.Faint)
	pendingStyle  = color.New(color.FgYellow)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warningStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Capitalize first letter
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return errorStyle.Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// FormatVerificationStatus renders a verification status as a colored, title-cased word
func FormatVerificationStatus(status models.VerificationStatus) string {
	if status == "" {
		status = models.VerificationStatusUnverified
	}
	label := cases.Title(language.English).String(strings.ToLower(string(status)))

	switch status {
	case models.VerificationStatusVerified:
		return verifiedStyle.Sprintf("✓ %s", label)
	case models.VerificationStatusFailed:
		return failedStyle.Sprintf("✗ %s", label)
	case models.VerificationStatusSkipped:
		return skippedStyle.Sprintf("- %s", label)
	default:
		return pendingStyle.Sprintf("? %s", label)
	}
}

// field prints an aligned "label: value" line
func field(label string, value any) string {
	return fmt.Sprintf("  %s %v", labelStyle.Sprintf("%-14s", label+":"), value)
}
