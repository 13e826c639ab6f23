package usermanagement

import (
	"context"
	"testing"
	"time"
)

func TestGenerateOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("requires exactly one owner reference", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.service.GenerateOTP(ctx, OTPRequest{EmailAddress: "a@example.com"})
		expectAppError(t, err, KindValidation, CODE_INVALID_REQUEST)

		_, err = env.service.GenerateOTP(ctx, OTPRequest{
			EmailAddress: "a@example.com", UserID: "u1", RegistrationID: "r1",
		})
		expectAppError(t, err, KindValidation, CODE_INVALID_REQUEST)
	})

	t.Run("challenge fields", func(t *testing.T) {
		env := newTestEnv(t)

		challenge, err := env.service.GenerateOTP(ctx, OTPRequest{
			EmailAddress: "alice@example.com",
			PhoneNumber:  "2348030001122",
			UserID:       "u1",
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(challenge.Code) != 6 {
			t.Errorf("unexpected code length: %q", challenge.Code)
		}
		if challenge.Reference == "" || challenge.DisplayID == "" {
			t.Errorf("expected reference and display id: %+v", challenge)
		}
		if challenge.MaskedEmailAddress != "a****@example.com" {
			t.Errorf("unexpected masked email: %s", challenge.MaskedEmailAddress)
		}
		if challenge.MaskedPhoneNumber != "****122" {
			t.Errorf("unexpected masked phone: %s", challenge.MaskedPhoneNumber)
		}
		if challenge.CountdownSeconds != 300 {
			t.Errorf("unexpected countdown: %d", challenge.CountdownSeconds)
		}
	})

	t.Run("new code supersedes prior one for the same owner", func(t *testing.T) {
		env := newTestEnv(t)

		first, err := env.service.GenerateOTP(ctx, OTPRequest{EmailAddress: "a@example.com", UserID: "u1"})
		if err != nil {
			t.Fatal(err)
		}
		second, err := env.service.GenerateOTP(ctx, OTPRequest{EmailAddress: "a@example.com", UserID: "u1"})
		if err != nil {
			t.Fatal(err)
		}

		_, err = env.service.ValidateOTP(ctx, first.Code, first.DisplayID)
		expectAppError(t, err, KindNotAuthorized, CODE_OTP_EXPIRED)

		outcome, err := env.service.ValidateOTP(ctx, second.Code, second.DisplayID)
		if err != nil {
			t.Fatal(err)
		}
		if outcome.UserID != "u1" {
			t.Errorf("unexpected owner: %+v", outcome)
		}
	})
}

func TestValidateOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the owner reference", func(t *testing.T) {
		env := newTestEnv(t)

		challenge, err := env.service.GenerateOTP(ctx, OTPRequest{EmailAddress: "a@example.com", RegistrationID: "reg-1"})
		if err != nil {
			t.Fatal(err)
		}
		outcome, err := env.service.ValidateOTP(ctx, challenge.Code, challenge.DisplayID)
		if err != nil {
			t.Fatal(err)
		}
		if outcome.RegistrationID != "reg-1" || outcome.UserID != "" {
			t.Errorf("unexpected outcome: %+v", outcome)
		}
	})

	t.Run("single use", func(t *testing.T) {
		env := newTestEnv(t)

		challenge, err := env.service.GenerateOTP(ctx, OTPRequest{EmailAddress: "a@example.com", UserID: "u1"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := env.service.ValidateOTP(ctx, challenge.Code, challenge.DisplayID); err != nil {
			t.Fatal(err)
		}
		_, err = env.service.ValidateOTP(ctx, challenge.Code, challenge.DisplayID)
		expectAppError(t, err, KindNotAuthorized, CODE_OTP_ALREADY_USED)
	})

	t.Run("expired code", func(t *testing.T) {
		env := newTestEnv(t)

		challenge, err := env.service.GenerateOTP(ctx, OTPRequest{EmailAddress: "a@example.com", UserID: "u1"})
		if err != nil {
			t.Fatal(err)
		}
		env.redis.FastForward(6 * time.Minute)

		_, err = env.service.ValidateOTP(ctx, challenge.Code, challenge.DisplayID)
		expectAppError(t, err, KindNotAuthorized, CODE_OTP_EXPIRED)
	})

	t.Run("wrong code leaves the record usable", func(t *testing.T) {
		env := newTestEnv(t)

		challenge, err := env.service.GenerateOTP(ctx, OTPRequest{EmailAddress: "a@example.com", UserID: "u1"})
		if err != nil {
			t.Fatal(err)
		}
		_, err = env.service.ValidateOTP(ctx, "000000", challenge.DisplayID)
		if appErr, ok := err.(*AppError); !ok || appErr.Code != CODE_OTP_INVALID {
			// the random code could be 000000 itself, regenerate in that case
			if challenge.Code == "000000" {
				t.Skip("generated code collided with probe value")
			}
			t.Fatalf("expected OTP_INVALID, got %v", err)
		}

		if _, err := env.service.ValidateOTP(ctx, challenge.Code, challenge.DisplayID); err != nil {
			t.Errorf("expected code to remain valid, got %v", err)
		}
	})

	t.Run("unknown display id", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.service.ValidateOTP(ctx, "123456", "no-such-display-id")
		expectAppError(t, err, KindNotAuthorized, CODE_OTP_EXPIRED)
	})
}
