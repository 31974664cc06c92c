// Package engine assembles one ordering session: a cart store, the
// checkout state machine, and the persistence mirror, behind a single
// locked facade.
//
// An Engine is created when a session starts and discarded when it
// ends; nothing here is process-global. All mutations, including
// deferred payment confirmations, are serialized behind one mutex, so
// commands behave like a single logical thread of control.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/qikao/ordering/internal/cart"
	"github.com/qikao/ordering/internal/checkout"
	"github.com/qikao/ordering/internal/menu"
	"github.com/qikao/ordering/internal/money"
	"github.com/qikao/ordering/internal/store"
)

// UnknownItemError reports an item id that is not in the catalog.
type UnknownItemError struct {
	ItemID string
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("unknown menu item %q", e.ItemID)
}

// Engine is the ordering engine for one session.
type Engine struct {
	mu sync.Mutex

	log     *slog.Logger
	catalog *menu.Catalog
	mirror  store.KV

	cart    *cart.Store
	machine *checkout.Machine

	customerName  string
	customerEmail string

	machineOpts []checkout.Option
	onOrder     func(checkout.PlacedOrder)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithCustomer pre-fills delivery name and email from an
// authenticated-user context. Absence is valid: anonymous checkout.
func WithCustomer(name, email string) Option {
	return func(e *Engine) {
		e.customerName = name
		e.customerEmail = email
	}
}

// WithScheduler replaces the payment-confirmation scheduler.
// The engine wraps it so callbacks take the session lock.
func WithScheduler(s checkout.Scheduler) Option {
	return func(e *Engine) {
		e.machineOpts = append(e.machineOpts, checkout.WithScheduler(&lockedScheduler{engine: e, inner: s}))
	}
}

// WithConfirmationDelay sets the simulated processing latency.
func WithConfirmationDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.machineOpts = append(e.machineOpts, checkout.WithConfirmationDelay(d))
	}
}

// WithIDSource replaces the order id generator.
func WithIDSource(ids checkout.IDSource) Option {
	return func(e *Engine) {
		e.machineOpts = append(e.machineOpts, checkout.WithIDSource(ids))
	}
}

// WithNow replaces the order timestamp clock.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		e.machineOpts = append(e.machineOpts, checkout.WithNow(now))
	}
}

// OnOrderPlaced registers a callback fired exactly once per placed
// order, after the cart and mirror have been cleared. The callback
// runs under the session lock and must not call back into the engine.
func OnOrderPlaced(fn func(checkout.PlacedOrder)) Option {
	return func(e *Engine) { e.onOrder = fn }
}

// lockedScheduler defers callbacks through the inner scheduler and
// runs them holding the engine lock, so a confirmation firing off a
// timer goroutine cannot interleave with a user command.
type lockedScheduler struct {
	engine *Engine
	inner  checkout.Scheduler
}

func (s *lockedScheduler) After(d time.Duration, fn func()) {
	s.inner.After(d, func() {
		s.engine.mu.Lock()
		defer s.engine.mu.Unlock()
		fn()
	})
}

// New builds a session engine over the catalog and mirror, then
// rehydrates any state the mirror holds. A missing or malformed
// mirror entry falls back to its default (empty cart, DeliveryInfo
// step, empty drafts); rehydration never fails session start.
func New(catalog *menu.Catalog, mirror store.KV, opts ...Option) *Engine {
	e := &Engine{
		log:     slog.Default(),
		catalog: catalog,
		mirror:  mirror,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.cart = cart.NewStore(catalog.Currency())

	machineOpts := append([]checkout.Option{
		checkout.WithScheduler(&lockedScheduler{engine: e, inner: checkout.TimerScheduler{}}),
		checkout.OnChange(e.persistCheckout),
		checkout.OnComplete(e.handleOrderPlaced),
	}, e.machineOpts...)
	e.machine = checkout.NewMachine(e.cart, machineOpts...)

	e.rehydrate()

	// Subscribed after rehydration so restoring does not churn the
	// mirror it was just read from.
	e.cart.Subscribe(e.onCartMutated)

	if e.customerName != "" || e.customerEmail != "" {
		e.machine.PrefillCustomer(e.customerName, e.customerEmail)
	}

	return e
}

// Catalog returns the menu the engine sells from.
func (e *Engine) Catalog() *menu.Catalog { return e.catalog }

// AddItem adds qty of the catalog item to the cart.
func (e *Engine) AddItem(itemID string, qty int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, ok := e.catalog.ByID(itemID)
	if !ok {
		return &UnknownItemError{ItemID: itemID}
	}
	if err := e.cart.AddItem(item, qty); err != nil {
		return err
	}
	e.log.Debug("cart item added", "item", itemID, "qty", qty)
	return nil
}

// SetQuantity sets a line's quantity; zero or below removes it.
func (e *Engine) SetQuantity(itemID string, qty int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.SetQuantity(itemID, qty)
}

// RemoveItem removes a line. Idempotent.
func (e *Engine) RemoveItem(itemID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.RemoveItem(itemID)
}

// ClearCart empties the cart. Outside Confirmation this also forces
// the checkout flow back to DeliveryInfo.
func (e *Engine) ClearCart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart.Clear()
}

// Lines returns the cart lines in insertion order.
func (e *Engine) Lines() []cart.LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Lines()
}

// Totals returns the derived cart totals.
func (e *Engine) Totals() cart.Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Totals()
}

// OrderSummary returns the full charge breakdown for display.
func (e *Engine) OrderSummary() money.OrderTotals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return money.ComputeTotals(e.cart.Totals().Subtotal)
}

// CurrentStep returns the checkout step.
func (e *Engine) CurrentStep() checkout.Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.CurrentStep()
}

// DeliveryDetails returns the delivery form.
func (e *Engine) DeliveryDetails() checkout.DeliveryForm {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.DeliveryDetails()
}

// Draft returns the mobile-money sub-flow input.
func (e *Engine) Draft() checkout.MobileMoneyDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Draft()
}

// PromptOpen reports whether the mobile-money prompt is showing.
func (e *Engine) PromptOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.PromptOpen()
}

// InFlight reports whether a payment commit is pending.
func (e *Engine) InFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.InFlight()
}

// SubmitDelivery submits the delivery form.
func (e *Engine) SubmitDelivery(form checkout.DeliveryForm) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.machine.SubmitDelivery(form); err != nil {
		return err
	}
	e.log.Info("checkout advanced", "step", e.machine.CurrentStep().String())
	return nil
}

// SubmitPayment submits the chosen payment method.
func (e *Engine) SubmitPayment(method checkout.PaymentMethod) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.SubmitPayment(method)
}

// SubmitMobileMoney submits the confirmation-code sub-flow.
func (e *Engine) SubmitMobileMoney(draft checkout.MobileMoneyDraft) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.SubmitMobileMoney(draft)
}

// CancelMobileMoney closes the prompt and discards any pending
// confirmation.
func (e *Engine) CancelMobileMoney() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.machine.CancelMobileMoney()
}

// Order returns the placed order once checkout completes.
func (e *Engine) Order() (checkout.PlacedOrder, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.machine.Order()
}

// onCartMutated runs synchronously after every cart mutation: it
// mirrors the lines and applies the flow guards.
//
// Guard: a cart that empties before Confirmation forces the flow back
// to DeliveryInfo, abandoning payment progress. After Confirmation an
// empty cart is the expected end state and changes nothing; adding
// items again starts a fresh flow instead.
func (e *Engine) onCartMutated() {
	e.saveJSON(store.KeyCartLines, e.cart.Snapshot())

	switch {
	case e.cart.IsEmpty() && e.machine.CurrentStep() != checkout.StepConfirmation:
		if e.machine.CurrentStep() != checkout.StepDeliveryInfo {
			e.log.Info("cart emptied mid-checkout, resetting flow")
		}
		e.machine.ResetToDelivery()
	case !e.cart.IsEmpty() && e.machine.CurrentStep() == checkout.StepConfirmation:
		e.machine.BeginNewOrder()
	}
}

// persistCheckout mirrors the checkout session after every machine
// mutation.
func (e *Engine) persistCheckout() {
	e.saveJSON(store.KeyCheckoutStep, e.machine.CurrentStep())
	e.saveJSON(store.KeyDeliveryForm, e.machine.DeliveryDetails())
	e.saveJSON(store.KeyMobileMoneyDraft, e.machine.Draft())
}

// handleOrderPlaced clears the mirror and notifies the caller.
// Runs as part of finalization, after the machine has cleared the
// cart and session state in memory.
func (e *Engine) handleOrderPlaced(order checkout.PlacedOrder) {
	ctx := context.Background()
	for _, key := range store.AllKeys {
		if err := e.mirror.Clear(ctx, key); err != nil {
			e.log.Warn("mirror clear failed", "key", key, "error", err)
		}
	}

	e.log.Info("order placed",
		"order_id", order.OrderID,
		"items", len(order.Lines),
		"total", order.Totals.Total.String(),
	)

	if e.onOrder != nil {
		e.onOrder(order)
	}
}

// saveJSON writes one mirror key. Mirror failures are logged, never
// surfaced: the in-memory state remains correct and the next write
// retries.
func (e *Engine) saveJSON(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		e.log.Warn("mirror encode failed", "key", key, "error", err)
		return
	}
	if err := e.mirror.Save(context.Background(), key, data); err != nil {
		e.log.Warn("mirror write failed", "key", key, "error", err)
	}
}
