package validation

import "regexp"

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MinPasswordLen mirrors the identity provider's weak-password threshold.
const MinPasswordLen = 6

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsAcceptablePassword rejects passwords under MinPasswordLen characters.
func IsAcceptablePassword(password string) bool {
	return len(password) >= MinPasswordLen
}
