package usermanagement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/cache"
	accountuser "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/db/account-user"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/sap"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/pwhash"
	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
)

func init() {
	// cheap hashing parameters, tests only
	pwhash.InitArgonParams(8*1024, 1, 1)
}

type fakeUserStore struct {
	users           map[string]*umTypes.User
	loginRecords    []umTypes.LoginRecord
	sapAccounts     []*umTypes.SapAccount
	passwordHistory map[string][]string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:           map[string]*umTypes.User{},
		passwordHistory: map[string][]string{},
	}
}

func (s *fakeUserStore) addUser(user *umTypes.User) *umTypes.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID.Hex()] = user
	return user
}

func (s *fakeUserStore) GetUserByUsername(username string) (*umTypes.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, accountuser.ErrUserNotFound
}

func (s *fakeUserStore) GetUserByID(id string) (*umTypes.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, accountuser.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetUserByResetToken(resetToken string) (*umTypes.User, error) {
	for _, user := range s.users {
		if user.ResetToken != "" && user.ResetToken == resetToken {
			copied := *user
			return &copied, nil
		}
	}
	return nil, accountuser.ErrUserNotFound
}

func (s *fakeUserStore) UpdateUserStatus(userID string, status string) error {
	user, ok := s.users[userID]
	if !ok {
		return accountuser.ErrUserNotFound
	}
	user.Status = status
	return nil
}

func (s *fakeUserStore) SetPrivacyPolicyAccepted(userID string) error {
	user, ok := s.users[userID]
	if !ok {
		return accountuser.ErrUserNotFound
	}
	accepted := true
	user.IsPrivacyPolicyAccepted = &accepted
	return nil
}

func (s *fakeUserStore) UpdateLastLogin(userID string, loginAt int64) error {
	user, ok := s.users[userID]
	if !ok {
		return accountuser.ErrUserNotFound
	}
	user.Timestamps.LastLogin = loginAt
	return nil
}

func (s *fakeUserStore) SetResetToken(userID string, resetToken string, expiresAt int64) error {
	user, ok := s.users[userID]
	if !ok {
		return accountuser.ErrUserNotFound
	}
	user.ResetToken = resetToken
	user.ResetTokenExpiresAt = expiresAt
	return nil
}

func (s *fakeUserStore) UpdatePassword(userID string, passwordHash string, passwordExpiresAt int64) error {
	user, ok := s.users[userID]
	if !ok {
		return accountuser.ErrUserNotFound
	}
	user.Password = passwordHash
	user.PasswordExpiresAt = passwordExpiresAt
	user.ResetToken = ""
	user.ResetTokenExpiresAt = 0
	return nil
}

func (s *fakeUserStore) AddLoginRecord(record *umTypes.LoginRecord) (*umTypes.LoginRecord, error) {
	record.ID = primitive.NewObjectID()
	s.loginRecords = append(s.loginRecords, *record)
	return record, nil
}

func (s *fakeUserStore) GetLastLoginRecord(userID string) (*umTypes.LoginRecord, error) {
	var last *umTypes.LoginRecord
	for i := range s.loginRecords {
		record := s.loginRecords[i]
		if record.UserID != userID {
			continue
		}
		if last == nil || record.LoginAt > last.LoginAt {
			last = &record
		}
	}
	return last, nil
}

func (s *fakeUserStore) AddSapAccount(account *umTypes.SapAccount) (*umTypes.SapAccount, error) {
	account.ID = primitive.NewObjectID()
	s.sapAccounts = append(s.sapAccounts, account)
	return account, nil
}

func (s *fakeUserStore) GetSapAccountBySapNumber(userID string, sapNumber string) (*umTypes.SapAccount, error) {
	for _, account := range s.sapAccounts {
		if account.UserID == userID && account.SapNumber == sapNumber {
			return account, nil
		}
	}
	return nil, accountuser.ErrSapAccountNotFound
}

func (s *fakeUserStore) AddPasswordHistoryEntry(userID string, passwordHash string) error {
	s.passwordHistory[userID] = append([]string{passwordHash}, s.passwordHistory[userID]...)
	return nil
}

func (s *fakeUserStore) GetRecentPasswordHashes(userID string, limit int64) ([]string, error) {
	hashes := s.passwordHistory[userID]
	if int64(len(hashes)) > limit {
		hashes = hashes[:limit]
	}
	return hashes, nil
}

type publishedEvent struct {
	Topic   string
	Message interface{}
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	p.events = append(p.events, publishedEvent{Topic: topic, Message: message})
	return nil
}

func (p *fakePublisher) eventsForTopic(topic string) []publishedEvent {
	matches := []publishedEvent{}
	for _, event := range p.events {
		if event.Topic == topic {
			matches = append(matches, event)
		}
	}
	return matches
}

type fakeSapDirectory struct {
	customer *umTypes.SapCustomer
	err      error
}

func (d *fakeSapDirectory) FindCustomer(companyCode string, countryCode string, accountNumber string) (*umTypes.SapCustomer, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.customer, nil
}

const testSignKey = "test-signing-key"

type testEnv struct {
	service   *AuthService
	store     *fakeUserStore
	publisher *fakePublisher
	directory *fakeSapDirectory
	redis     *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cacheService := cache.NewRedisCacheServiceWithClient(client, "", 5)

	store := newFakeUserStore()
	publisher := &fakePublisher{}
	directory := &fakeSapDirectory{err: sap.ErrCustomerNotFound}

	service := NewAuthService(
		store,
		cacheService,
		publisher,
		directory,
		JwtTokenIssuer{SignKey: testSignKey},
		AuthServiceConfig{
			LockoutThreshold: 5,
			LockoutWindow:    5 * time.Minute,
			OtpLength:        6,
			OtpTTL:           5 * time.Minute,
			AccountLinkTTL:   30 * time.Minute,
			TokenExpiresIn:   time.Hour,
		},
	)

	return &testEnv{
		service:   service,
		store:     store,
		publisher: publisher,
		directory: directory,
		redis:     mr,
	}
}

func (env *testEnv) addActiveUser(t *testing.T, username string, password string, roles ...string) *umTypes.User {
	t.Helper()
	hash, err := pwhash.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	return env.store.addUser(&umTypes.User{
		Username:     username,
		FirstName:    "John",
		LastName:     "Doe",
		EmailAddress: username + "@example.com",
		PhoneNumber:  "2348030001122",
		Password:     hash,
		Status:       umTypes.USER_STATUS_ACTIVE,
		Roles:        roles,
	})
}

func expectAppError(t *testing.T, err error, kind ErrorKind, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Kind != kind {
		t.Errorf("unexpected error kind %d, want %d (%v)", appErr.Kind, kind, err)
	}
	if appErr.Code != code {
		t.Errorf("unexpected error code %s, want %s", appErr.Code, code)
	}
}
