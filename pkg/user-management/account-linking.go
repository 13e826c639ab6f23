package usermanagement

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/cache"
	accountuser "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/db/account-user"
	messagingTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/messaging/types"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/sap"
	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
)

const accountLinkKeyPrefix = "account-link:"

func accountLinkKey(userID string) string {
	return accountLinkKeyPrefix + userID
}

// Static mapping from the directory's account type descriptor to the local
// account type. Built once, no runtime reflection over role or type enums.
var sapAccountTypeMapping = map[string]umTypes.NameAndCode{
	"distributor":             {Name: "Distributor", Code: "DIST"},
	"cash customer":           {Name: "Cash Customer", Code: "CASH"},
	"bank guarantee":          {Name: "Bank Guarantee", Code: "BG"},
	"bank guarantee customer": {Name: "Bank Guarantee", Code: "BG"},
}

type LinkSapAccountRequest struct {
	UserID        string
	CompanyCode   string
	CountryCode   string
	AccountNumber string
	FriendlyName  string
}

// LinkSapAccount validates a candidate distributor account against the SAP
// directory, stages it for the requesting user and starts the confirmation
// OTP. The permanent record is only written by ValidateLinkAccountOTP.
func (s *AuthService) LinkSapAccount(ctx context.Context, req LinkSapAccountRequest) (*TwoFactorChallenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := s.userDB.GetSapAccountBySapNumber(req.UserID, req.AccountNumber); err == nil {
		return nil, newConflict(CODE_SAP_ACCOUNT_ALREADY_LINKED, "the distributor account is already linked")
	} else if !errors.Is(err, accountuser.ErrSapAccountNotFound) {
		return nil, newServerConfiguration("could not check linked accounts", err)
	}

	customer, err := s.sapDirectory.FindCustomer(req.CompanyCode, req.CountryCode, req.AccountNumber)
	if err != nil {
		if errors.Is(err, sap.ErrCustomerNotFound) {
			return nil, newNotFound(CODE_SAP_ACCOUNT_NOT_FOUND, "no distributor account was found for the given details")
		}
		return nil, newIntegrationFailure(CODE_SAP_DIRECTORY_UNAVAILABLE, "the account directory could not be reached, try again later", err)
	}

	if customer.Status.Code == umTypes.SAP_ACCOUNT_STATUS_INACTIVE {
		return nil, newConflict(CODE_SAP_ACCOUNT_INACTIVE, "the distributor account is inactive")
	}
	if customer.EmailAddress == "" || customer.PhoneNumber == "" || customer.AccountType == "" {
		return nil, newConflict(CODE_SAP_ACCOUNT_INCOMPLETE, "the distributor account information is incomplete")
	}

	stage := umTypes.AccountLinkStage{
		UserID:       req.UserID,
		CompanyCode:  req.CompanyCode,
		CountryCode:  req.CountryCode,
		FriendlyName: req.FriendlyName,
		SapAccount:   *customer,
		StagedAt:     time.Now().Unix(),
	}
	payload, err := json.Marshal(stage)
	if err != nil {
		return nil, newServerConfiguration("could not serialize staged account", err)
	}
	if err := s.cache.Set(ctx, accountLinkKey(req.UserID), payload, s.config.AccountLinkTTL); err != nil {
		return nil, newIntegrationFailure(CODE_SERVER_CONFIGURATION, "could not stage the account link", err)
	}

	user, err := s.userDB.GetUserByID(req.UserID)
	if err != nil {
		return nil, newServerConfiguration("could not read user record", err)
	}

	challenge, err := s.GenerateOTP(ctx, OTPRequest{
		EmailAddress: user.EmailAddress,
		PhoneNumber:  user.PhoneNumber,
		UserID:       user.ID.Hex(),
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, messagingTypes.TOPIC_OTP_GENERATED, messagingTypes.OtpGeneratedMessage{
		Reference:    challenge.Reference,
		DisplayID:    challenge.DisplayID,
		Code:         challenge.Code,
		EmailAddress: challenge.EmailAddress,
		PhoneNumber:  challenge.PhoneNumber,
		ExpiresAt:    challenge.ExpiresAt,
	})

	return &TwoFactorChallenge{
		Reference:        challenge.Reference,
		CountdownSeconds: challenge.CountdownSeconds,
	}, nil
}

// ValidateLinkAccountOTP confirms the pending link: the OTP must resolve to a
// user with a staged entry still in the cache. On success the permanent linked
// account record is written and the stage entry cleared best effort.
func (s *AuthService) ValidateLinkAccountOTP(ctx context.Context, otpCode string, otpDisplayID string) (*umTypes.SapAccount, error) {
	outcome, err := s.ValidateOTP(ctx, otpCode, otpDisplayID)
	if err != nil {
		return nil, err
	}
	if outcome.UserID == "" {
		return nil, newNotAuthorized(CODE_OTP_INVALID, "the one-time code is not valid")
	}

	raw, err := s.cache.Get(ctx, accountLinkKey(outcome.UserID))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, newConflict(CODE_ACCOUNT_LINK_SESSION_NOT_STAGED, "the account linking session has expired, start over")
		}
		return nil, newIntegrationFailure(CODE_SERVER_CONFIGURATION, "could not read staged account", err)
	}
	var stage umTypes.AccountLinkStage
	if err := json.Unmarshal(raw, &stage); err != nil {
		return nil, newServerConfiguration("invalid staged account payload", err)
	}
	if stage.UserID != outcome.UserID {
		return nil, newConflict(CODE_ACCOUNT_LINK_SESSION_NOT_STAGED, "the account linking session has expired, start over")
	}

	accountType, ok := sapAccountTypeMapping[strings.ToLower(stage.SapAccount.AccountType)]
	if !ok {
		return nil, newConflict(CODE_SAP_ACCOUNT_TYPE_INVALID, "the account type is not supported, contact customer support")
	}

	account, err := s.userDB.AddSapAccount(&umTypes.SapAccount{
		UserID:          stage.UserID,
		CompanyCode:     stage.CompanyCode,
		CountryCode:     stage.CountryCode,
		SapNumber:       stage.SapAccount.AccountNumber,
		DistributorName: stage.SapAccount.DistributorName,
		FriendlyName:    stage.FriendlyName,
		AccountType:     accountType,
	})
	if err != nil {
		return nil, newServerConfiguration("could not store linked account", err)
	}

	s.publishEvent(ctx, messagingTypes.TOPIC_SAP_ACCOUNT_CREATED, messagingTypes.SapAccountMessage{
		UserID:       account.UserID,
		SapAccountID: account.ID.Hex(),
		SapNumber:    account.SapNumber,
		CompanyCode:  account.CompanyCode,
		CountryCode:  account.CountryCode,
		FriendlyName: account.FriendlyName,
		OccurredAt:   time.Now().UTC(),
	})

	// best effort, a leftover entry expires on its own
	if err := s.cache.Remove(ctx, accountLinkKey(outcome.UserID)); err != nil {
		slog.Warn("could not clear staged account", slog.String("userID", outcome.UserID), slog.String("error", err.Error()))
	}

	return account, nil
}
