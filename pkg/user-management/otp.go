package usermanagement

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/cache"
	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
	umUtils "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/utils"
)

const (
	otpKeyPrefix      = "otp:"
	otpOwnerKeyPrefix = "otp-owner:"
)

func otpKey(displayID string) string {
	return otpKeyPrefix + displayID
}

func otpOwnerKey(ownerRef string) string {
	return otpOwnerKeyPrefix + ownerRef
}

// OTPRequest describes one OTP generation. Exactly one of UserID and
// RegistrationID must be set.
type OTPRequest struct {
	EmailAddress   string
	PhoneNumber    string
	UserID         string
	RegistrationID string
}

// OTPChallenge is what generation hands back to the calling workflow. The
// masked targets are for client display, the raw ones feed the delivery event.
type OTPChallenge struct {
	Reference          string
	DisplayID          string
	Code               string
	EmailAddress       string
	PhoneNumber        string
	MaskedEmailAddress string
	MaskedPhoneNumber  string
	CreatedAt          time.Time
	ExpiresAt          time.Time
	CountdownSeconds   int
}

// OTPOutcome carries the owner reference of a successfully validated code.
type OTPOutcome struct {
	UserID         string
	RegistrationID string
}

// GenerateOTP creates a fresh one-time code for the given owner and stores it
// under its display id. A prior unconsumed code for the same owner is
// superseded.
func (s *AuthService) GenerateOTP(ctx context.Context, req OTPRequest) (*OTPChallenge, error) {
	if (req.UserID == "") == (req.RegistrationID == "") {
		return nil, newValidation(CODE_INVALID_REQUEST, "exactly one of user id and registration id must be provided")
	}
	if req.EmailAddress == "" {
		return nil, newValidation(CODE_INVALID_REQUEST, "email address is required")
	}

	ownerRef := req.UserID
	if ownerRef == "" {
		ownerRef = req.RegistrationID
	}
	s.removeSupersededOTP(ctx, ownerRef)

	code, err := umUtils.GenerateOTPCode(s.config.OtpLength)
	if err != nil {
		return nil, newServerConfiguration("could not generate one-time code", err)
	}

	now := time.Now()
	record := umTypes.OTP{
		Code:           code,
		Reference:      uuid.NewString(),
		DisplayID:      uuid.NewString(),
		UserID:         req.UserID,
		RegistrationID: req.RegistrationID,
		EmailAddress:   req.EmailAddress,
		PhoneNumber:    req.PhoneNumber,
		CreatedAt:      now.Unix(),
		ExpiresAt:      now.Add(s.config.OtpTTL).Unix(),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, newServerConfiguration("could not serialize one-time code record", err)
	}
	if err := s.cache.Set(ctx, otpKey(record.DisplayID), payload, s.config.OtpTTL); err != nil {
		return nil, newIntegrationFailure(CODE_SERVER_CONFIGURATION, "could not store one-time code", err)
	}
	if err := s.cache.Set(ctx, otpOwnerKey(ownerRef), []byte(record.DisplayID), s.config.OtpTTL); err != nil {
		slog.Warn("could not store otp owner index", slog.String("error", err.Error()))
	}

	return &OTPChallenge{
		Reference:          record.Reference,
		DisplayID:          record.DisplayID,
		Code:               record.Code,
		EmailAddress:       record.EmailAddress,
		PhoneNumber:        record.PhoneNumber,
		MaskedEmailAddress: umUtils.MaskEmailAddress(record.EmailAddress),
		MaskedPhoneNumber:  umUtils.MaskPhoneNumber(record.PhoneNumber),
		CreatedAt:          now,
		ExpiresAt:          now.Add(s.config.OtpTTL),
		CountdownSeconds:   int(s.config.OtpTTL.Seconds()),
	}, nil
}

func (s *AuthService) removeSupersededOTP(ctx context.Context, ownerRef string) {
	displayID, err := s.cache.Get(ctx, otpOwnerKey(ownerRef))
	if err != nil {
		return
	}
	if err := s.cache.Remove(ctx, otpKey(string(displayID))); err != nil {
		slog.Warn("could not remove superseded otp", slog.String("error", err.Error()))
	}
}

// ValidateOTP checks a code against its display id and marks the stored record
// consumed. Expired or unknown codes and already consumed codes fail with
// distinct error codes.
func (s *AuthService) ValidateOTP(ctx context.Context, code string, displayID string) (*OTPOutcome, error) {
	raw, err := s.cache.Get(ctx, otpKey(displayID))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, newNotAuthorized(CODE_OTP_EXPIRED, "the one-time code has expired, request a new one")
		}
		return nil, newIntegrationFailure(CODE_SERVER_CONFIGURATION, "could not read one-time code", err)
	}

	var record umTypes.OTP
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, newServerConfiguration("invalid one-time code record", err)
	}

	if record.Consumed {
		return nil, newNotAuthorized(CODE_OTP_ALREADY_USED, "the one-time code was already used")
	}
	if record.ExpiresAt < time.Now().Unix() {
		return nil, newNotAuthorized(CODE_OTP_EXPIRED, "the one-time code has expired, request a new one")
	}
	if record.Code != code {
		return nil, newNotAuthorized(CODE_OTP_INVALID, "the one-time code is not valid")
	}

	record.Consumed = true
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, newServerConfiguration("could not serialize one-time code record", err)
	}
	if err := s.cache.Update(ctx, otpKey(displayID), payload, true, 0); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, newNotAuthorized(CODE_OTP_EXPIRED, "the one-time code has expired, request a new one")
		}
		return nil, newIntegrationFailure(CODE_SERVER_CONFIGURATION, "could not consume one-time code", err)
	}

	return &OTPOutcome{
		UserID:         record.UserID,
		RegistrationID: record.RegistrationID,
	}, nil
}
