package usermanagement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	accountuser "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/db/account-user"
	messagingTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/messaging/types"
	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/pwhash"
	umUtils "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/utils"
)

type CompletePasswordResetRequest struct {
	ResetToken string
	Password   string
}

// InitiatePasswordReset starts a reset for a distributor account: a reset
// token is stored on the user and an OTP challenge is handed out. Usernames
// with the wrong role behave exactly like unknown usernames.
func (s *AuthService) InitiatePasswordReset(ctx context.Context, username string) (*TwoFactorChallenge, error) {
	return s.initiatePasswordReset(ctx, username, false)
}

// InitiateAdminPasswordReset is the admin-portal variant: distributor
// usernames behave like unknown usernames here.
func (s *AuthService) InitiateAdminPasswordReset(ctx context.Context, username string) (*TwoFactorChallenge, error) {
	return s.initiatePasswordReset(ctx, username, true)
}

func (s *AuthService) initiatePasswordReset(ctx context.Context, username string, adminChannel bool) (*TwoFactorChallenge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := s.userDB.GetUserByUsername(umUtils.SanitizeUsername(username))
	if err != nil {
		if errors.Is(err, accountuser.ErrUserNotFound) {
			return nil, newNotFound(CODE_USER_WITH_USERNAME_NOT_FOUND, "no account was found for the given username")
		}
		return nil, newServerConfiguration("could not read user record", err)
	}

	isDistributor := user.PrimaryRole() == umTypes.ROLE_DISTRIBUTOR
	if isDistributor == adminChannel {
		return nil, newNotFound(CODE_USER_WITH_USERNAME_NOT_FOUND, "no account was found for the given username")
	}

	resetToken, err := umUtils.GenerateUniqueTokenString()
	if err != nil {
		return nil, newServerConfiguration("could not generate reset token", err)
	}
	expiresAt := umUtils.GetExpirationTime(s.config.ResetTokenTTL).Unix()
	if err := s.userDB.SetResetToken(user.ID.Hex(), resetToken, expiresAt); err != nil {
		return nil, newServerConfiguration("could not store reset token", err)
	}

	return s.initiateTwoFactor(ctx, user)
}

// CompletePasswordReset finishes a reset: the token must be known and fresh,
// the new password must satisfy the policy, must not contain the username and
// must not recycle a recent password. Locked and expired accounts come back
// active.
func (s *AuthService) CompletePasswordReset(ctx context.Context, req CompletePasswordResetRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.ResetToken == "" {
		return newValidation(CODE_INVALID_REQUEST, "reset token is required")
	}

	user, err := s.userDB.GetUserByResetToken(req.ResetToken)
	if err != nil {
		if errors.Is(err, accountuser.ErrUserNotFound) {
			return newNotFound(CODE_RESET_TOKEN_INVALID, "the reset token is not valid")
		}
		return newServerConfiguration("could not read user record", err)
	}

	if user.ResetTokenExpiresAt < time.Now().Unix() {
		return newConflict(CODE_RESET_TOKEN_EXPIRED, "the reset token has expired, start over")
	}

	if !umUtils.CheckPasswordFormat(req.Password) {
		return newConflict(CODE_PASSWORD_POLICY_VIOLATION, "the password does not satisfy the password policy")
	}
	if umUtils.PasswordContainsUsername(user.Username, req.Password) {
		return newConflict(CODE_PASSWORD_CONTAINS_USERNAME, "the password must not contain the username")
	}

	recentHashes, err := s.userDB.GetRecentPasswordHashes(user.ID.Hex(), s.config.PasswordHistoryDepth)
	if err != nil {
		return newServerConfiguration("could not read password history", err)
	}
	for _, hash := range recentHashes {
		match, err := pwhash.ComparePasswordWithHash(hash, req.Password)
		if err != nil {
			continue
		}
		if match {
			return newConflict(CODE_PASSWORD_RECENTLY_USED, "the password was used recently, choose a different one")
		}
	}

	newHash, err := pwhash.HashPassword(req.Password)
	if err != nil {
		return newServerConfiguration("could not hash password", err)
	}

	passwordExpiresAt := time.Now().Add(s.config.PasswordValidity).Unix()
	if err := s.userDB.UpdatePassword(user.ID.Hex(), newHash, passwordExpiresAt); err != nil {
		return newServerConfiguration("could not store new password", err)
	}
	if user.Status == umTypes.USER_STATUS_LOCKED || user.Status == umTypes.USER_STATUS_EXPIRED {
		if err := s.userDB.UpdateUserStatus(user.ID.Hex(), umTypes.USER_STATUS_ACTIVE); err != nil {
			return newServerConfiguration("could not restore account status", err)
		}
	}
	if err := s.userDB.AddPasswordHistoryEntry(user.ID.Hex(), newHash); err != nil {
		slog.Warn("could not record password history", slog.String("userID", user.ID.Hex()), slog.String("error", err.Error()))
	}

	s.publishEvent(ctx, messagingTypes.TOPIC_PASSWORD_RESET, messagingTypes.PasswordResetMessage{
		UserID:       user.ID.Hex(),
		Username:     user.Username,
		EmailAddress: user.EmailAddress,
		ResetAt:      time.Now().UTC(),
	})

	return nil
}
