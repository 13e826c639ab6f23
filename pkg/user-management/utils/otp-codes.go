package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const otpDigits = "0123456789"

// GenerateOTPCode returns a random numeric one time passcode of the given
// length. Digits are drawn without modulo bias.
func GenerateOTPCode(length int) (string, error) {
	var code strings.Builder
	code.Grow(length)

	max := big.NewInt(int64(len(otpDigits)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code.WriteByte(otpDigits[n.Int64()])
	}
	return code.String(), nil
}
