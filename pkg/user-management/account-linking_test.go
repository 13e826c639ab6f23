package usermanagement

import (
	"context"
	"testing"
	"time"

	messagingTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/messaging/types"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/sap"
	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
)

func activeSapCustomer() *umTypes.SapCustomer {
	return &umTypes.SapCustomer{
		AccountNumber:   "1000123",
		DistributorName: "Acme Distribution Ltd",
		EmailAddress:    "ops@acme.example",
		PhoneNumber:     "2348030001122",
		AccountType:     "Distributor",
		Status:          umTypes.NameAndCode{Name: "Active", Code: umTypes.SAP_ACCOUNT_STATUS_ACTIVE},
	}
}

func linkRequest(userID string) LinkSapAccountRequest {
	return LinkSapAccountRequest{
		UserID:        userID,
		CompanyCode:   "NG01",
		CountryCode:   "NG",
		AccountNumber: "1000123",
		FriendlyName:  "Main account",
	}
}

func TestLinkSapAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("stages candidate and returns otp challenge", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", "s3cret!Pass", umTypes.ROLE_DISTRIBUTOR)
		env.directory.customer, env.directory.err = activeSapCustomer(), nil

		challenge, err := env.service.LinkSapAccount(ctx, linkRequest(user.ID.Hex()))
		if err != nil {
			t.Fatal(err)
		}
		if challenge.Reference == "" {
			t.Error("expected an otp challenge")
		}
		if !env.redis.Exists(accountLinkKey(user.ID.Hex())) {
			t.Error("expected staged entry in cache")
		}
		if len(env.store.sapAccounts) != 0 {
			t.Error("expected no permanent record before otp validation")
		}
	})

	t.Run("already linked account conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", "s3cret!Pass", umTypes.ROLE_DISTRIBUTOR)
		env.directory.customer, env.directory.err = activeSapCustomer(), nil
		_, _ = env.store.AddSapAccount(&umTypes.SapAccount{UserID: user.ID.Hex(), SapNumber: "1000123"})

		_, err := env.service.LinkSapAccount(ctx, linkRequest(user.ID.Hex()))
		expectAppError(t, err, KindConflict, CODE_SAP_ACCOUNT_ALREADY_LINKED)
	})

	t.Run("unknown directory account", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", "s3cret!Pass", umTypes.ROLE_DISTRIBUTOR)
		env.directory.err = sap.ErrCustomerNotFound

		_, err := env.service.LinkSapAccount(ctx, linkRequest(user.ID.Hex()))
		expectAppError(t, err, KindNotFound, CODE_SAP_ACCOUNT_NOT_FOUND)
	})

	t.Run("directory outage is a retryable integration failure", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", "s3cret!Pass", umTypes.ROLE_DISTRIBUTOR)
		env.directory.err = sap.ErrDirectoryUnavailable

		_, err := env.service.LinkSapAccount(ctx, linkRequest(user.ID.Hex()))
		expectAppError(t, err, KindIntegrationFailure, CODE_SAP_DIRECTORY_UNAVAILABLE)
	})

	t.Run("inactive directory account conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", "s3cret!Pass", umTypes.ROLE_DISTRIBUTOR)
		customer := activeSapCustomer()
		customer.Status = umTypes.NameAndCode{Name: "Inactive", Code: umTypes.SAP_ACCOUNT_STATUS_INACTIVE}
		env.directory.customer, env.directory.err = customer, nil

		_, err := env.service.LinkSapAccount(ctx, linkRequest(user.ID.Hex()))
		expectAppError(t, err, KindConflict, CODE_SAP_ACCOUNT_INACTIVE)
	})

	t.Run("incomplete directory record conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", "s3cret!Pass", umTypes.ROLE_DISTRIBUTOR)
		customer := activeSapCustomer()
		customer.PhoneNumber = ""
		env.directory.customer, env.directory.err = customer, nil

		_, err := env.service.LinkSapAccount(ctx, linkRequest(user.ID.Hex()))
		expectAppError(t, err, KindConflict, CODE_SAP_ACCOUNT_INCOMPLETE)
	})
}

func TestValidateLinkAccountOTP(t *testing.T) {
	ctx := context.Background()

	stageLink := func(t *testing.T, env *testEnv, userID string) messagingTypes.OtpGeneratedMessage {
		t.Helper()
		env.directory.customer, env.directory.err = activeSapCustomer(), nil
		if _, err := env.service.LinkSapAccount(ctx, linkRequest(userID)); err != nil {
			t.Fatal(err)
		}
		otpEvents := env.publisher.eventsForTopic(messagingTypes.TOPIC_OTP_GENERATED)
		if len(otpEvents) < 1 {
			t.Fatal("expected an otp event")
		}
		return otpEvents[len(otpEvents)-1].Message.(messagingTypes.OtpGeneratedMessage)
	}

	t.Run("materializes exactly one linked account", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", "s3cret!Pass", umTypes.ROLE_DISTRIBUTOR)
		otpMsg := stageLink(t, env, user.ID.Hex())

		account, err := env.service.ValidateLinkAccountOTP(ctx, otpMsg.Code, otpMsg.DisplayID)
		if err != nil {
			t.Fatal(err)
		}
		if account.SapNumber != "1000123" || account.UserID != user.ID.Hex() {
			t.Errorf("unexpected account: %+v", account)
		}
		if account.AccountType.Code != "DIST" {
			t.Errorf("unexpected account type: %+v", account.AccountType)
		}
		if len(env.store.sapAccounts) != 1 {
			t.Fatalf("expected exactly one linked account, got %d", len(env.store.sapAccounts))
		}

		created := env.publisher.eventsForTopic(messagingTypes.TOPIC_SAP_ACCOUNT_CREATED)
		if len(created) != 1 {
			t.Fatalf("expected 1 created event, got %d", len(created))
		}

		// stage entry cleared after materialization
		if env.redis.Exists(accountLinkKey(user.ID.Hex())) {
			t.Error("expected staged entry to be cleared")
		}
	})

	t.Run("resolving after the staging window conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", "s3cret!Pass", umTypes.ROLE_DISTRIBUTOR)
		otpMsg := stageLink(t, env, user.ID.Hex())

		// keep the otp alive but let the 30 minute stage entry lapse
		env.redis.FastForward(4 * time.Minute)
		env.redis.Del(accountLinkKey(user.ID.Hex()))

		_, err := env.service.ValidateLinkAccountOTP(ctx, otpMsg.Code, otpMsg.DisplayID)
		expectAppError(t, err, KindConflict, CODE_ACCOUNT_LINK_SESSION_NOT_STAGED)
	})

	t.Run("unsupported account type conflicts", func(t *testing.T) {
		env := newTestEnv(t)
		user := env.addActiveUser(t, "jdoe", "s3cret!Pass", umTypes.ROLE_DISTRIBUTOR)
		env.directory.customer, env.directory.err = activeSapCustomer(), nil
		env.directory.customer.AccountType = "Unheard Of Type"

		if _, err := env.service.LinkSapAccount(ctx, linkRequest(user.ID.Hex())); err != nil {
			t.Fatal(err)
		}
		otpEvents := env.publisher.eventsForTopic(messagingTypes.TOPIC_OTP_GENERATED)
		otpMsg := otpEvents[len(otpEvents)-1].Message.(messagingTypes.OtpGeneratedMessage)

		_, err := env.service.ValidateLinkAccountOTP(ctx, otpMsg.Code, otpMsg.DisplayID)
		expectAppError(t, err, KindConflict, CODE_SAP_ACCOUNT_TYPE_INVALID)
		if len(env.store.sapAccounts) != 0 {
			t.Error("expected no linked account")
		}
	})
}
