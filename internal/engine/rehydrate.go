package engine

import (
	"context"
	"encoding/json"

	"github.com/qikao/ordering/internal/cart"
	"github.com/qikao/ordering/internal/checkout"
	"github.com/qikao/ordering/internal/store"
)

// rehydrate restores cart and checkout state from the mirror.
//
// Each key is independent: a missing or malformed value falls back to
// that key's default and is discarded from the mirror, while the
// remaining keys still restore. Rehydration never fails session
// start.
func (e *Engine) rehydrate() {
	ctx := context.Background()

	var lines []cart.SavedLine
	if e.loadJSON(ctx, store.KeyCartLines, &lines) {
		e.cart.Restore(e.catalog, lines)
	}

	step := checkout.StepDeliveryInfo
	e.loadJSON(ctx, store.KeyCheckoutStep, &step)

	var form checkout.DeliveryForm
	e.loadJSON(ctx, store.KeyDeliveryForm, &form)

	var draft checkout.MobileMoneyDraft
	e.loadJSON(ctx, store.KeyMobileMoneyDraft, &draft)

	e.machine.RestoreState(step, form, draft)

	if !e.cart.IsEmpty() || step != checkout.StepDeliveryInfo {
		e.log.Info("session restored",
			"lines", e.cart.Len(),
			"step", e.machine.CurrentStep().String(),
		)
	}
}

// loadJSON reads and decodes one mirror key into out. Returns true
// only when a value existed and decoded cleanly. A value that cannot
// be decoded is treated as a recoverable read error: logged, cleared
// from the mirror, and replaced by the caller's default.
func (e *Engine) loadJSON(ctx context.Context, key string, out any) bool {
	data, ok, err := e.mirror.Load(ctx, key)
	if err != nil {
		e.log.Warn("mirror read failed, using defaults", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		readErr := &store.ReadError{Key: key, Err: err}
		e.log.Warn("mirror value malformed, discarding", "key", key, "error", readErr)
		if clearErr := e.mirror.Clear(ctx, key); clearErr != nil {
			e.log.Warn("mirror clear failed", "key", key, "error", clearErr)
		}
		return false
	}
	return true
}
