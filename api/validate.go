package api

import (
	"regexp"
	"strings"
)

var (
	fullnameRegex = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobileRegex   = regexp.MustCompile(`^\d{10}$`)
	letterRegex   = regexp.MustCompile(`[A-Za-z]`)
	digitRegex    = regexp.MustCompile(`\d`)
)

// ValidEmail reports whether the string has a local@domain.tld shape
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidMobile reports whether the string is exactly 10 digits
func ValidMobile(mobile string) bool {
	return mobileRegex.MatchString(mobile)
}

// ValidatePassword checks password strength: at least 6 characters with at
// least one letter and one digit. Returns an empty string when valid.
func ValidatePassword(password string) string {
	if len(password) < 6 {
		return "Password must be at least 6 characters"
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return "Password must contain at least 1 letter and 1 number"
	}
	return ""
}

// ValidateSignup validates a signup payload field by field, returning a
// field-keyed error map. The map is empty when everything passes.
func ValidateSignup(fullname, email, gender, mobile, password string) map[string]string {
	errors := make(map[string]string)

	fullname = strings.TrimSpace(fullname)
	if len(fullname) < 3 || len(fullname) > 100 {
		errors["fullname"] = "Full name must be 3-100 characters"
	} else if !fullnameRegex.MatchString(fullname) {
		errors["fullname"] = "Full name can only contain letters and spaces"
	}

	if email == "" || !ValidEmail(email) {
		errors["email"] = "Valid email is required"
	}

	if gender == "" {
		errors["gender"] = "Gender is required"
	}

	if mobile == "" || !ValidMobile(mobile) {
		errors["mobilenumber"] = "Valid 10-digit mobile number is required"
	}

	if msg := ValidatePassword(password); msg != "" {
		errors["password"] = msg
	}

	return errors
}
