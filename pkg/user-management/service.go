package usermanagement

import (
	"time"

	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/cache"
	jwthandling "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/jwt-handling"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/messaging/bus"
	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
)

// UserStore is the credential store port of the auth service. The MongoDB
// implementation lives in pkg/db/account-user; absent records are reported
// with accountuser.ErrUserNotFound / accountuser.ErrSapAccountNotFound.
type UserStore interface {
	GetUserByUsername(username string) (*umTypes.User, error)
	GetUserByID(id string) (*umTypes.User, error)
	GetUserByResetToken(resetToken string) (*umTypes.User, error)
	UpdateUserStatus(userID string, status string) error
	SetPrivacyPolicyAccepted(userID string) error
	UpdateLastLogin(userID string, loginAt int64) error
	SetResetToken(userID string, resetToken string, expiresAt int64) error
	UpdatePassword(userID string, passwordHash string, passwordExpiresAt int64) error

	AddLoginRecord(record *umTypes.LoginRecord) (*umTypes.LoginRecord, error)
	GetLastLoginRecord(userID string) (*umTypes.LoginRecord, error)

	AddSapAccount(account *umTypes.SapAccount) (*umTypes.SapAccount, error)
	GetSapAccountBySapNumber(userID string, sapNumber string) (*umTypes.SapAccount, error)

	AddPasswordHistoryEntry(userID string, passwordHash string) error
	GetRecentPasswordHashes(userID string, limit int64) ([]string, error)
}

// SapDirectory is the external account directory port, implemented by pkg/sap.
type SapDirectory interface {
	FindCustomer(companyCode string, countryCode string, accountNumber string) (*umTypes.SapCustomer, error)
}

// TokenIssuer signs session claims for an authenticated user.
type TokenIssuer interface {
	IssueToken(user *umTypes.User, expiresIn time.Duration) (string, error)
}

// JwtTokenIssuer issues HS256 tokens through pkg/jwt-handling.
type JwtTokenIssuer struct {
	SignKey string
}

func (issuer JwtTokenIssuer) IssueToken(user *umTypes.User, expiresIn time.Duration) (string, error) {
	return jwthandling.GenerateNewAccountUserToken(
		expiresIn,
		user.ID.Hex(),
		user.Username,
		user.FirstName,
		user.LastName,
		user.PrimaryRole(),
		user.EmailAddress,
		user.PhoneNumber,
		issuer.SignKey,
	)
}

type AuthServiceConfig struct {
	LockoutThreshold     int
	LockoutWindow        time.Duration
	OtpLength            int
	OtpTTL               time.Duration
	AccountLinkTTL       time.Duration
	TokenExpiresIn       time.Duration
	ResetTokenTTL        time.Duration
	PasswordValidity     time.Duration
	PasswordHistoryDepth int64
}

func (c *AuthServiceConfig) applyDefaults() {
	if c.LockoutThreshold < 1 {
		c.LockoutThreshold = 5
	}
	if c.LockoutWindow < 1 {
		c.LockoutWindow = 5 * time.Minute
	}
	if c.OtpLength < 1 {
		c.OtpLength = 6
	}
	if c.OtpTTL < 1 {
		c.OtpTTL = 5 * time.Minute
	}
	if c.AccountLinkTTL < 1 {
		c.AccountLinkTTL = 30 * time.Minute
	}
	if c.TokenExpiresIn < 1 {
		c.TokenExpiresIn = time.Hour
	}
	if c.ResetTokenTTL < 1 {
		c.ResetTokenTTL = 30 * time.Minute
	}
	if c.PasswordValidity < 1 {
		c.PasswordValidity = 90 * 24 * time.Hour
	}
	if c.PasswordHistoryDepth < 1 {
		c.PasswordHistoryDepth = 5
	}
}

// AuthService coordinates the login, two-factor and account-linking workflows
// over its collaborator ports.
type AuthService struct {
	userDB       UserStore
	cache        cache.TransientCache
	publisher    bus.Publisher
	sapDirectory SapDirectory
	tokenIssuer  TokenIssuer
	config       AuthServiceConfig
}

func NewAuthService(
	userDB UserStore,
	transientCache cache.TransientCache,
	publisher bus.Publisher,
	sapDirectory SapDirectory,
	tokenIssuer TokenIssuer,
	config AuthServiceConfig,
) *AuthService {
	config.applyDefaults()
	return &AuthService{
		userDB:       userDB,
		cache:        transientCache,
		publisher:    publisher,
		sapDirectory: sapDirectory,
		tokenIssuer:  tokenIssuer,
		config:       config,
	}
}
