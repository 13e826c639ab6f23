package pwhash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength = uint32(16)
	keyLength  = uint32(32)
)

var (
	argon2Memory      = uint32(64 * 1024)
	argon2Iterations  = uint32(4)
	argon2Parallelism = uint8(2)
)

var ErrInvalidHashFormat = errors.New("the encoded hash is not in the correct format")

// InitArgonParams overrides the default hashing cost parameters, typically from
// the service config at startup.
func InitArgonParams(memory uint32, iterations uint32, parallelism uint8) {
	if memory > 0 {
		argon2Memory = memory
	}
	if iterations > 0 {
		argon2Iterations = iterations
	}
	if parallelism > 0 {
		argon2Parallelism = parallelism
	}
}

// HashPassword creates an argon2id hash in PHC string format.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Iterations, argon2Memory, argon2Parallelism, keyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encodedHash := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Iterations, argon2Parallelism, b64Salt, b64Hash)
	return encodedHash, nil
}

// ComparePasswordWithHash checks a plain password against a stored PHC hash.
func ComparePasswordWithHash(encodedHash string, password string) (bool, error) {
	memory, iterations, parallelism, salt, hash, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	otherHash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(hash)))

	if subtle.ConstantTimeCompare(hash, otherHash) == 1 {
		return true, nil
	}
	return false, nil
}

func decodeHash(encodedHash string) (memory uint32, iterations uint32, parallelism uint8, salt []byte, hash []byte, err error) {
	vals := strings.Split(encodedHash, "$")
	if len(vals) != 6 || vals[1] != "argon2id" {
		err = ErrInvalidHashFormat
		return
	}

	var version int
	if _, err = fmt.Sscanf(vals[2], "v=%d", &version); err != nil {
		return
	}
	if version != argon2.Version {
		err = errors.New("incompatible version of argon2")
		return
	}

	if _, err = fmt.Sscanf(vals[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return
	}

	salt, err = base64.RawStdEncoding.Strict().DecodeString(vals[4])
	if err != nil {
		return
	}
	hash, err = base64.RawStdEncoding.Strict().DecodeString(vals[5])
	return
}
