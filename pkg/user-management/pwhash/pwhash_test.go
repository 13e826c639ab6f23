package pwhash

import (
	"strings"
	"testing"
)

func TestHashAndCompare(t *testing.T) {
	t.Run("correct password matches", func(t *testing.T) {
		hash, err := HashPassword("s3cret!Pass")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(hash, "$argon2id$") {
			t.Errorf("unexpected hash format: %s", hash)
		}
		ok, err := ComparePasswordWithHash(hash, "s3cret!Pass")
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("expected password to match")
		}
	})

	t.Run("wrong password does not match", func(t *testing.T) {
		hash, err := HashPassword("s3cret!Pass")
		if err != nil {
			t.Fatal(err)
		}
		ok, err := ComparePasswordWithHash(hash, "other!Pass1")
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Error("expected password not to match")
		}
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		hash1, _ := HashPassword("s3cret!Pass")
		hash2, _ := HashPassword("s3cret!Pass")
		if hash1 == hash2 {
			t.Error("expected distinct salts to produce distinct hashes")
		}
	})
}

func TestCompareMalformedHash(t *testing.T) {
	cases := []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=65536,t=4,p=2$abcd$efgh",
		"$argon2id$v=19$m=65536,t=4,p=2$%%%$efgh",
	}
	for _, c := range cases {
		if _, err := ComparePasswordWithHash(c, "whatever"); err == nil {
			t.Errorf("expected error for malformed hash %q", c)
		}
	}
}
