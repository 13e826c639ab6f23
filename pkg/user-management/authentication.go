package usermanagement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	accountuser "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/db/account-user"
	messagingTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/messaging/types"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/pwhash"
	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
	umUtils "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/utils"
)

type LoginRequest struct {
	Username    string
	Password    string
	DeviceID    string
	IPAddress   string
	ChannelCode string
}

type TwoFactorLoginRequest struct {
	Username string
	Password string

	// Admin flow only: explicit acceptance sent with the request when the
	// stored flag is unset or false.
	IsPrivacyPolicyAccepted *bool
}

type TwoFactorCompletionRequest struct {
	OtpCode      string
	OtpDisplayID string
	DeviceID     string
	IPAddress    string
	ChannelCode  string
}

type UserProfile struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	EmailAddress string `json:"emailAddress"`
	PhoneNumber  string `json:"phoneNumber"`
	Role         string `json:"role"`
	CompanyCode  string `json:"companyCode,omitempty"`
	LastLoginAt  int64  `json:"lastLoginAt,omitempty"`
}

type AuthenticationResult struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type TwoFactorChallenge struct {
	Reference        string `json:"reference"`
	CountdownSeconds int    `json:"countdownInSeconds"`
}

// Login authenticates a distributor without a second factor and issues a
// session right away.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthenticationResult, error) {
	user, err := s.authenticateUser(ctx, req.Username, req.Password, false)
	if err != nil {
		return nil, err
	}
	return s.completeLogin(ctx, user, req.DeviceID, req.IPAddress, req.ChannelCode)
}

// AdminLogin is the non-2FA admin-portal variant of Login.
func (s *AuthService) AdminLogin(ctx context.Context, req LoginRequest) (*AuthenticationResult, error) {
	user, err := s.authenticateUser(ctx, req.Username, req.Password, true)
	if err != nil {
		return nil, err
	}
	return s.completeLogin(ctx, user, req.DeviceID, req.IPAddress, req.ChannelCode)
}

// TwoFactorLogin verifies distributor credentials and hands out an OTP
// challenge instead of a session.
func (s *AuthService) TwoFactorLogin(ctx context.Context, req TwoFactorLoginRequest) (*TwoFactorChallenge, error) {
	user, err := s.authenticateUser(ctx, req.Username, req.Password, false)
	if err != nil {
		return nil, err
	}
	return s.initiateTwoFactor(ctx, user)
}

// AdminTwoFactorLogin verifies admin credentials, applies the privacy-policy
// gate and hands out an OTP challenge.
func (s *AuthService) AdminTwoFactorLogin(ctx context.Context, req TwoFactorLoginRequest) (*TwoFactorChallenge, error) {
	user, err := s.authenticateUser(ctx, req.Username, req.Password, true)
	if err != nil {
		return nil, err
	}

	if user.IsPrivacyPolicyAccepted == nil || !*user.IsPrivacyPolicyAccepted {
		if req.IsPrivacyPolicyAccepted == nil || !*req.IsPrivacyPolicyAccepted {
			return nil, newNotAuthorized(CODE_PRIVACY_POLICY_NOT_ACCEPTED, "the privacy policy has not been accepted")
		}
	}

	return s.initiateTwoFactor(ctx, user)
}

// TwoFactorCompletion validates the OTP and issues the deferred session.
func (s *AuthService) TwoFactorCompletion(ctx context.Context, req TwoFactorCompletionRequest) (*AuthenticationResult, error) {
	outcome, err := s.ValidateOTP(ctx, req.OtpCode, req.OtpDisplayID)
	if err != nil {
		return nil, err
	}
	if outcome.UserID == "" {
		return nil, newNotAuthorized(CODE_OTP_INVALID, "the one-time code is not valid")
	}

	user, err := s.userDB.GetUserByID(outcome.UserID)
	if err != nil {
		if errors.Is(err, accountuser.ErrUserNotFound) {
			return nil, newNotAuthorized(CODE_USERNAME_PASSWORD_NOT_EXIST, "invalid username or password")
		}
		return nil, newServerConfiguration("could not read user record", err)
	}

	if err := s.userDB.SetPrivacyPolicyAccepted(user.ID.Hex()); err != nil {
		return nil, newServerConfiguration("could not update privacy policy acceptance", err)
	}

	return s.completeLogin(ctx, user, req.DeviceID, req.IPAddress, req.ChannelCode)
}

// authenticateUser walks the credential verification gates: lookup, account
// status, password with lockout tracking, channel role.
func (s *AuthService) authenticateUser(ctx context.Context, username string, password string, adminChannel bool) (*umTypes.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := s.userDB.GetUserByUsername(umUtils.SanitizeUsername(username))
	if err != nil {
		if errors.Is(err, accountuser.ErrUserNotFound) {
			// no lockout counter for unknown usernames
			return nil, newNotAuthorized(CODE_USERNAME_PASSWORD_NOT_EXIST, "invalid username or password")
		}
		return nil, newServerConfiguration("could not read user record", err)
	}

	switch {
	case user.PasswordExpired() || user.Status == umTypes.USER_STATUS_EXPIRED:
		return nil, newNotAuthorized(CODE_ACCOUNT_EXPIRED, "the account has expired, reset the password to continue")
	case user.Status == umTypes.USER_STATUS_INACTIVE:
		return nil, newNotAuthorized(CODE_ACCOUNT_DISABLED, "the account is disabled, reset the password to continue")
	case user.Status == umTypes.USER_STATUS_LOCKED:
		return nil, newNotAuthorized(CODE_ACCOUNT_LOCKED, "the account is locked, reset the password to continue")
	}

	match, err := pwhash.ComparePasswordWithHash(user.Password, password)
	if err != nil {
		return nil, newServerConfiguration("could not verify password", err)
	}
	if !match {
		attempts := s.recordFailedAttempt(ctx, user.ID.Hex())
		if attempts > s.config.LockoutThreshold {
			// locked synchronously before the failure is returned
			if err := s.userDB.UpdateUserStatus(user.ID.Hex(), umTypes.USER_STATUS_LOCKED); err != nil {
				slog.Error("could not lock user after exceeded attempts", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
			}
			return nil, newNotAuthorized(CODE_ACCOUNT_LOCKED, "the account is locked, reset the password to continue")
		}
		return nil, newNotAuthorized(CODE_USERNAME_PASSWORD_NOT_EXIST, "invalid username or password")
	}

	if adminChannel {
		if !user.HasRole(umTypes.ROLE_ADMINISTRATOR) && !user.HasRole(umTypes.ROLE_SUPER_ADMINISTRATOR) {
			return nil, newNotAuthorized(CODE_UNAUTHORIZED_ACCESS, "the account is not allowed to use this channel")
		}
	} else {
		if user.PrimaryRole() != umTypes.ROLE_DISTRIBUTOR {
			return nil, newNotAuthorized(CODE_UNAUTHORIZED_ACCESS, "the account is not allowed to use this channel")
		}
	}

	return user, nil
}

func (s *AuthService) initiateTwoFactor(ctx context.Context, user *umTypes.User) (*TwoFactorChallenge, error) {
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

// completeLogin runs the side effects of a final session decision: login
// history, token, login event, lockout cleanup.
func (s *AuthService) completeLogin(ctx context.Context, user *umTypes.User, deviceID string, ipAddress string, channelCode string) (*AuthenticationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	previousLogin, err := s.userDB.GetLastLoginRecord(user.ID.Hex())
	if err != nil {
		return nil, newServerConfiguration("could not read login history", err)
	}

	record, err := s.userDB.AddLoginRecord(&umTypes.LoginRecord{
		UserID:      user.ID.Hex(),
		DeviceID:    deviceID,
		IPAddress:   ipAddress,
		ChannelCode: channelCode,
		LoginAt:     time.Now().Unix(),
	})
	if err != nil {
		return nil, newServerConfiguration("could not record login", err)
	}
	if err := s.userDB.UpdateLastLogin(user.ID.Hex(), record.LoginAt); err != nil {
		slog.Warn("could not update last login timestamp", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
	}

	token, err := s.tokenIssuer.IssueToken(user, s.config.TokenExpiresIn)
	if err != nil {
		return nil, newServerConfiguration("could not issue session token", err)
	}

	s.publishEvent(ctx, messagingTypes.TOPIC_USER_LOGIN, messagingTypes.UserLoginMessage{
		UserID:       user.ID.Hex(),
		Username:     user.Username,
		EmailAddress: user.EmailAddress,
		PhoneNumber:  user.PhoneNumber,
		ChannelCode:  channelCode,
		DeviceID:     deviceID,
		IPAddress:    ipAddress,
		LoginAt:      time.Unix(record.LoginAt, 0).UTC(),
	})

	s.resetLockoutCounter(ctx, user.ID.Hex())

	profile := UserProfile{
		UserID:       user.ID.Hex(),
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		EmailAddress: user.EmailAddress,
		PhoneNumber:  user.PhoneNumber,
		Role:         user.PrimaryRole(),
	}
	if user.AdminInfo != nil {
		profile.CompanyCode = user.AdminInfo.CompanyCode
	}
	if previousLogin != nil {
		profile.LastLoginAt = previousLogin.LoginAt
	}

	return &AuthenticationResult{Token: token, User: profile}, nil
}

// publishEvent is fire and forget, the session decision is already final when
// events go out.
func (s *AuthService) publishEvent(ctx context.Context, topic string, message interface{}) {
	if err := s.publisher.Publish(ctx, topic, message); err != nil {
		slog.Error("could not publish event", slog.String("topic", topic), slog.String("error", err.Error()))
	}
}
