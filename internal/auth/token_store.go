package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vnshop/storefront/internal/domain"
	"github.com/vnshop/storefront/internal/storage"
)

const defaultExpiryGrace = 5 * time.Second

// TokenStore owns the persisted credential and the user-info derived from it.
// Expiry is only checked when a caller asks; nothing runs in the background.
type TokenStore struct {
	store  storage.Storage
	logger *zap.Logger
	grace  time.Duration
	now    func() time.Time
}

// TokenStoreOption customizes a TokenStore.
type TokenStoreOption func(*TokenStore)

// WithExpiryGrace sets the clock-skew tolerance applied to the expiry claim.
func WithExpiryGrace(d time.Duration) TokenStoreOption {
	return func(ts *TokenStore) { ts.grace = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) TokenStoreOption {
	return func(ts *TokenStore) { ts.now = now }
}

// NewTokenStore builds a store over the given storage driver.
func NewTokenStore(store storage.Storage, logger *zap.Logger, opts ...TokenStoreOption) *TokenStore {
	ts := &TokenStore{
		store:  store,
		logger: logger,
		grace:  defaultExpiryGrace,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// SetToken persists raw and the user-info decoded from it. An empty raw is ignored.
func (ts *TokenStore) SetToken(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	if err := ts.store.Set(ctx, storage.KeyAccessToken, raw); err != nil {
		return err
	}

	claims, ok := ParseJWT(raw)
	if !ok {
		ts.logger.Warn("stored credential could not be decoded")
		return nil
	}
	info, err := json.Marshal(claims.UserInfo())
	if err != nil {
		return err
	}
	return ts.store.Set(ctx, storage.KeyUserInfo, string(info))
}

// GetToken returns the persisted credential. Read failures count as absent.
func (ts *TokenStore) GetToken(ctx context.Context) (string, bool) {
	raw, err := ts.store.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			ts.logger.Warn("reading credential failed", zap.Error(err))
		}
		return "", false
	}
	return raw, raw != ""
}

// HasToken reports whether a credential is persisted.
func (ts *TokenStore) HasToken(ctx context.Context) bool {
	_, ok := ts.GetToken(ctx)
	return ok
}

// RemoveToken deletes the credential and every key derived from it in one call.
func (ts *TokenStore) RemoveToken(ctx context.Context) error {
	return ts.store.Delete(ctx, storage.SessionKeys...)
}

// UserInfo returns the persisted user-info record, if it exists and decodes.
func (ts *TokenStore) UserInfo(ctx context.Context) (*domain.UserInfo, bool) {
	raw, err := ts.store.Get(ctx, storage.KeyUserInfo)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			ts.logger.Warn("reading user info failed", zap.Error(err))
		}
		return nil, false
	}
	var info domain.UserInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		ts.logger.Warn("stored user info is malformed", zap.Error(err))
		return nil, false
	}
	return &info, true
}

// IsTokenExpired is true without user-info, or once the expiry plus the grace
// buffer lies in the past.
func (ts *TokenStore) IsTokenExpired(ctx context.Context) bool {
	info, ok := ts.UserInfo(ctx)
	if !ok || info.Exp == 0 {
		return true
	}
	expMillis := info.Exp * 1000
	return expMillis < ts.now().UnixMilli()-ts.grace.Milliseconds()
}

// CheckTokenExpiration tears the credential down when it has expired and
// reports whether it did.
func (ts *TokenStore) CheckTokenExpiration(ctx context.Context) bool {
	if !ts.IsTokenExpired(ctx) {
		return false
	}
	if err := ts.RemoveToken(ctx); err != nil {
		ts.logger.Error("removing expired credential failed", zap.Error(err))
	}
	return true
}

// HasRole reports whether the persisted role set contains name.
func (ts *TokenStore) HasRole(ctx context.Context, name string) bool {
	info, ok := ts.UserInfo(ctx)
	if !ok {
		return false
	}
	return info.Role.Has(name)
}
