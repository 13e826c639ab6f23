package utils

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	PASSWORD_MIN_LEN = 8
	PASSWORD_MAX_LEN = 512
)

// SanitizeUsername trims surrounding whitespace. Lookup stays case-sensitive,
// so no case folding here.
func SanitizeUsername(username string) string {
	return strings.Trim(username, " \n\r")
}

// MaskEmailAddress transforms an email address to reduce exposed personal info
func MaskEmailAddress(email string) string {
	items := strings.Split(email, "@")
	if len(items) < 2 || len(items[0]) < 1 {
		return "****@**"
	}
	return string([]rune(items[0])[0]) + "****@" + strings.Join(items[1:], "")
}

// MaskPhoneNumber keeps the last three digits visible.
func MaskPhoneNumber(phone string) string {
	if len(phone) < 4 {
		return "****"
	}
	return "****" + phone[len(phone)-3:]
}

// CheckPasswordFormat to check if password fulfills password rules:
// at least 8 characters with letters, digits and a special character
func CheckPasswordFormat(password string) bool {
	pl := len(password)
	if pl < PASSWORD_MIN_LEN || pl > PASSWORD_MAX_LEN {
		return false
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			hasSpecial = true
		}
	}
	return hasLetter && hasDigit && hasSpecial
}

// PasswordContainsUsername rejects passwords that embed the username in any casing.
func PasswordContainsUsername(username string, password string) bool {
	if username == "" {
		return false
	}
	return strings.Contains(strings.ToLower(password), strings.ToLower(username))
}

var channelCodeRule = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)

// CheckChannelCodeFormat validates the client supplied channel code.
func CheckChannelCodeFormat(code string) bool {
	return channelCodeRule.MatchString(code)
}
