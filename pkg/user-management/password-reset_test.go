package usermanagement

import (
	"context"
	"testing"
	"time"

	messagingTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/messaging/types"
	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
)

func TestInitiatePasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown username", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.service.InitiatePasswordReset(ctx, "nobody")
		expectAppError(t, err, KindNotFound, CODE_USER_WITH_USERNAME_NOT_FOUND)
	})

	t.Run("stores reset token and hands out otp challenge", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", "s3cret!Pass", umTypes.ROLE_DISTRIBUTOR)

		challenge, err := env.service.InitiatePasswordReset(ctx, " jdoe ")
		if err != nil {
			t.Fatal(err)
		}
		if challenge.Reference == "" || challenge.CountdownSeconds < 1 {
			t.Errorf("unexpected challenge: %+v", challenge)
		}

		stored := env.store.users[user.ID.Hex()]
		if stored.ResetToken == "" {
			t.Error("expected a reset token on the user")
		}
		if stored.ResetTokenExpiresAt <= time.Now().Unix() {
			t.Error("expected a future reset token expiry")
		}
		if len(env.publisher.eventsForTopic(messagingTypes.TOPIC_OTP_GENERATED)) != 1 {
			t.Error("expected an otp event")
		}
	})

	t.Run("admin username behaves as unknown on the distributor channel", func(t *testing.T) {
		env := newTestEnv(t)
		env.addActiveUser(t, "admin", "s3cret!Pass", umTypes.ROLE_ADMINISTRATOR)

		_, err := env.service.InitiatePasswordReset(ctx, "admin")
		expectAppError(t, err, KindNotFound, CODE_USER_WITH_USERNAME_NOT_FOUND)
	})

	t.Run("distributor username behaves as unknown on the admin channel", func(t *testing.T) {
		env := newTestEnv(t)
		env.addActiveUser(t, "jdoe", "s3cret!Pass", umTypes.ROLE_DISTRIBUTOR)

		_, err := env.service.InitiateAdminPasswordReset(ctx, "jdoe")
		expectAppError(t, err, KindNotFound, CODE_USER_WITH_USERNAME_NOT_FOUND)
	})

	t.Run("admin channel accepts admin usernames", func(t *testing.T) {
		env := newTestEnv(t)
		env.addActiveUser(t, "admin", "s3cret!Pass", umTypes.ROLE_ADMINISTRATOR)

		if _, err := env.service.InitiateAdminPasswordReset(ctx, "admin"); err != nil {
			t.Fatal(err)
		}
	})
}

func TestCompletePasswordReset(t *testing.T) {
	ctx := context.Background()

	const oldPassword = "s3cret!Pass"
	const newPassword = "fresh!Pass42"

	prepareReset := func(t *testing.T, env *testEnv, user *umTypes.User) string {
		t.Helper()
		if _, err := env.service.InitiatePasswordReset(ctx, user.Username); err != nil {
			t.Fatal(err)
		}
		return env.store.users[user.ID.Hex()].ResetToken
	}

	t.Run("missing token", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.service.CompletePasswordReset(ctx, CompletePasswordResetRequest{Password: newPassword})
		expectAppError(t, err, KindValidation, CODE_INVALID_REQUEST)
	})

	t.Run("unknown token", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.service.CompletePasswordReset(ctx, CompletePasswordResetRequest{ResetToken: "no-such-token", Password: newPassword})
		expectAppError(t, err, KindNotFound, CODE_RESET_TOKEN_INVALID)
	})

	t.Run("expired token", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", oldPassword, umTypes.ROLE_DISTRIBUTOR)
		token := prepareReset(t, env, user)
		env.store.users[user.ID.Hex()].ResetTokenExpiresAt = time.Now().Add(-time.Minute).Unix()

		err := env.service.CompletePasswordReset(ctx, CompletePasswordResetRequest{ResetToken: token, Password: newPassword})
		expectAppError(t, err, KindConflict, CODE_RESET_TOKEN_EXPIRED)
	})

	t.Run("weak password", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", oldPassword, umTypes.ROLE_DISTRIBUTOR)
		token := prepareReset(t, env, user)

		err := env.service.CompletePasswordReset(ctx, CompletePasswordResetRequest{ResetToken: token, Password: "letters only"})
		expectAppError(t, err, KindConflict, CODE_PASSWORD_POLICY_VIOLATION)
	})

	t.Run("password containing the username", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", oldPassword, umTypes.ROLE_DISTRIBUTOR)
		token := prepareReset(t, env, user)

		err := env.service.CompletePasswordReset(ctx, CompletePasswordResetRequest{ResetToken: token, Password: "xxJDOE!42xx"})
		expectAppError(t, err, KindConflict, CODE_PASSWORD_CONTAINS_USERNAME)
	})

	t.Run("recently used password", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", oldPassword, umTypes.ROLE_DISTRIBUTOR)
		if err := env.store.AddPasswordHistoryEntry(user.ID.Hex(), user.Password); err != nil {
			t.Fatal(err)
		}
		token := prepareReset(t, env, user)

		err := env.service.CompletePasswordReset(ctx, CompletePasswordResetRequest{ResetToken: token, Password: oldPassword})
		expectAppError(t, err, KindConflict, CODE_PASSWORD_RECENTLY_USED)
	})

	t.Run("success stores password, clears token and publishes event", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", oldPassword, umTypes.ROLE_DISTRIBUTOR)
		token := prepareReset(t, env, user)

		if err := env.service.CompletePasswordReset(ctx, CompletePasswordResetRequest{ResetToken: token, Password: newPassword}); err != nil {
			t.Fatal(err)
		}

		stored := env.store.users[user.ID.Hex()]
		if stored.ResetToken != "" {
			t.Error("expected reset token to be cleared")
		}
		if stored.PasswordExpiresAt <= time.Now().Unix() {
			t.Error("expected a future password expiry")
		}
		if len(env.store.passwordHistory[user.ID.Hex()]) != 1 {
			t.Error("expected a password history entry")
		}
		resetEvents := env.publisher.eventsForTopic(messagingTypes.TOPIC_PASSWORD_RESET)
		if len(resetEvents) != 1 {
			t.Fatalf("expected 1 reset event, got %d", len(resetEvents))
		}
		payload := resetEvents[0].Message.(messagingTypes.PasswordResetMessage)
		if payload.Username != "jdoe" {
			t.Errorf("unexpected event payload: %+v", payload)
		}

		// the new password works for login
		if _, err := env.service.Login(ctx, LoginRequest{
			Username: "jdoe", Password: newPassword,
			DeviceID: "device-1", IPAddress: "10.0.0.1", ChannelCode: "dist-app",
		}); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("restores locked and expired accounts", func(t *testing.T) {
		env := newTestEnv(t)
		for _, status := range []string{umTypes.USER_STATUS_LOCKED, umTypes.USER_STATUS_EXPIRED} {
			user := env.addActiveUser(t, "user-"+status, oldPassword, umTypes.ROLE_DISTRIBUTOR)
			token := prepareReset(t, env, user)
			env.store.users[user.ID.Hex()].Status = status

			if err := env.service.CompletePasswordReset(ctx, CompletePasswordResetRequest{ResetToken: token, Password: newPassword}); err != nil {
				t.Fatal(err)
			}
			if got := env.store.users[user.ID.Hex()].Status; got != umTypes.USER_STATUS_ACTIVE {
				t.Errorf("status %s: expected active after reset, got %s", status, got)
			}
		}
	})
}
