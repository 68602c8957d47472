// Package storage persists the credential and the state derived from it.
package storage

import (
	"context"
	"errors"
)

// Well-known keys. SessionKeys lists everything removed by a session teardown.
const (
	KeyAccessToken         = "accessToken"
	KeyUserInfo            = "userInfo"
	KeyCheckoutItems       = "checkoutItems"
	KeyCheckoutSubtotal    = "checkoutSubtotal"
	KeyCheckoutShippingFee = "checkoutShippingFee"
	KeyCheckoutTotal       = "checkoutTotal"
	KeyCartCount           = "cartCount"
	KeySelectedItems       = "selectedItems"
)

// SessionKeys are cleared together by a session teardown.
var SessionKeys = []string{
	KeyAccessToken,
	KeyUserInfo,
	KeyCheckoutItems,
	KeyCheckoutSubtotal,
	KeyCheckoutShippingFee,
	KeyCheckoutTotal,
	KeyCartCount,
	KeySelectedItems,
}

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a durable string key/value store.
// Delete must remove all given keys in one all-or-nothing operation.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
