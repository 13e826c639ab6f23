package jwthandling

import (
	"testing"
	"time"
)

func TestAccountUserTokenRoundTrip(t *testing.T) {
	secret := "test-signing-key"

	t.Run("valid token round trip", func(t *testing.T) {
		tokenString, err := GenerateNewAccountUserToken(time.Minute, "user-1", "jdoe", "John", "Doe", "Distributor", "jdoe@example.com", "2348030001122", secret)
		if err != nil {
			t.Fatal(err)
		}

		claims, valid, err := ValidateAccountUserToken(tokenString, secret)
		if err != nil {
			t.Fatal(err)
		}
		if !valid {
			t.Fatal("expected token to be valid")
		}
		if claims.Subject != "user-1" {
			t.Errorf("unexpected subject: %s", claims.Subject)
		}
		if claims.Username != "jdoe" {
			t.Errorf("unexpected username: %s", claims.Username)
		}
		if claims.Role != "Distributor" {
			t.Errorf("unexpected role: %s", claims.Role)
		}
		if claims.EmailAddress != "jdoe@example.com" {
			t.Errorf("unexpected email: %s", claims.EmailAddress)
		}
		if claims.ID == "" {
			t.Error("expected a token id")
		}
		if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
			t.Error("expected expiry in the future")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		tokenString, err := GenerateNewAccountUserToken(time.Minute, "user-1", "jdoe", "John", "Doe", "Distributor", "", "", secret)
		if err != nil {
			t.Fatal(err)
		}
		_, valid, err := ValidateAccountUserToken(tokenString, "other-key")
		if valid || err == nil {
			t.Error("expected validation to fail with wrong secret")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		tokenString, err := GenerateNewAccountUserToken(-time.Minute, "user-1", "jdoe", "John", "Doe", "Distributor", "", "", secret)
		if err != nil {
			t.Fatal(err)
		}
		_, valid, err := ValidateAccountUserToken(tokenString, secret)
		if valid || err == nil {
			t.Error("expected validation to fail for expired token")
		}
	})

	t.Run("two tokens have distinct ids", func(t *testing.T) {
		t1, _ := GenerateNewAccountUserToken(time.Minute, "user-1", "jdoe", "John", "Doe", "Distributor", "", "", secret)
		t2, _ := GenerateNewAccountUserToken(time.Minute, "user-1", "jdoe", "John", "Doe", "Distributor", "", "", secret)
		c1, _, _ := ValidateAccountUserToken(t1, secret)
		c2, _, _ := ValidateAccountUserToken(t2, secret)
		if c1 == nil || c2 == nil || c1.ID == c2.ID {
			t.Error("expected distinct token ids")
		}
	})
}
