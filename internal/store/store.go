// Package store provides the durable mirror for session state.
//
// A KV holds the working state of exactly one ordering session under
// a small fixed set of logical keys. The mirror is a cache, not a
// second source of truth: in-memory state always wins a conflict and
// is the next value written back. Absence of any key is a valid,
// fully-recoverable state.
package store

import (
	"context"
	"fmt"
)

// Logical keys mirrored for every session.
const (
	KeyCartLines        = "cart.lineItems"
	KeyCheckoutStep     = "checkout.step"
	KeyDeliveryForm     = "checkout.deliveryForm"
	KeyMobileMoneyDraft = "checkout.mobileMoneyDraft"
)

// AllKeys lists every session key, for bulk clears.
var AllKeys = []string{KeyCartLines, KeyCheckoutStep, KeyDeliveryForm, KeyMobileMoneyDraft}

// KV is the persistence adapter for one session. Values are opaque
// JSON bytes; the engine owns the encoding.
//
// Load reports absence via the bool, not an error, so callers can
// distinguish "never written" from a real read failure.
type KV interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Clear(ctx context.Context, key string) error
}

// Backend creates per-session KVs over one storage medium.
type Backend interface {
	Session(sessionID string) KV
	Close() error
}

// ReadError reports a stored value that could not be read back or
// decoded. Always recoverable: the engine discards the value, falls
// back to defaults, and overwrites the mirror on the next mutation.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("stored value for %q unreadable: %v", e.Key, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
