package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxClaimMessageLen bounds the optional note a claimant attaches.
const MaxClaimMessageLen = 2000

// MaxItemTitleLen matches the items.title column width.
const MaxItemTitleLen = 200

// NormalizeClaimMessage trims msg and checks its length in characters.
func NormalizeClaimMessage(msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if utf8.RuneCountInString(msg) > MaxClaimMessageLen {
		return "", fmt.Errorf("message must not exceed %d characters", MaxClaimMessageLen)
	}
	return msg, nil
}

// ValidateItemTitle checks a posted item's title.
func ValidateItemTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxItemTitleLen {
		return fmt.Errorf("title must not exceed %d characters", MaxItemTitleLen)
	}
	return nil
}
