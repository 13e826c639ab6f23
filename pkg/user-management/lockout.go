package usermanagement

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/cache"
	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
)

const lockoutKeyPrefix = "password-failure-attempt:"

func lockoutKey(userID string) string {
	return lockoutKeyPrefix + userID
}

// recordFailedAttempt bumps the failed-attempt counter for a user and returns
// the post-increment count. The counter window is fixed: the TTL set on the
// first failure is preserved across increments.
//
// Fail-open policy: when the cache is unreachable the attempt counts as 1 and
// a warning is logged, so an unavailable cache never locks anyone out.
func (s *AuthService) recordFailedAttempt(ctx context.Context, userID string) int {
	key := lockoutKey(userID)

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			slog.Warn("lockout counter unavailable, counting attempt as first", slog.String("userID", userID), slog.String("error", err.Error()))
			return 1
		}
		return s.createLockoutCounter(ctx, userID, key)
	}

	var counter umTypes.LockoutCounter
	if err := json.Unmarshal(raw, &counter); err != nil {
		slog.Warn("invalid lockout counter payload, recreating", slog.String("userID", userID), slog.String("error", err.Error()))
		return s.createLockoutCounter(ctx, userID, key)
	}

	counter.Attempts++
	payload, err := json.Marshal(counter)
	if err != nil {
		return counter.Attempts
	}
	if err := s.cache.Update(ctx, key, payload, true, 0); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			// window expired between read and write
			return s.createLockoutCounter(ctx, userID, key)
		}
		slog.Warn("could not update lockout counter", slog.String("userID", userID), slog.String("error", err.Error()))
	}
	return counter.Attempts
}

func (s *AuthService) createLockoutCounter(ctx context.Context, userID string, key string) int {
	counter := umTypes.LockoutCounter{
		UserID:    userID,
		Attempts:  1,
		CreatedAt: time.Now().Unix(),
	}
	payload, err := json.Marshal(counter)
	if err != nil {
		return 1
	}
	if err := s.cache.Set(ctx, key, payload, s.config.LockoutWindow); err != nil {
		slog.Warn("could not create lockout counter", slog.String("userID", userID), slog.String("error", err.Error()))
	}
	return 1
}

// resetLockoutCounter removes the counter after a successful authentication.
func (s *AuthService) resetLockoutCounter(ctx context.Context, userID string) {
	if err := s.cache.Remove(ctx, lockoutKey(userID)); err != nil {
		slog.Warn("could not remove lockout counter", slog.String("userID", userID), slog.String("error", err.Error()))
	}
}
