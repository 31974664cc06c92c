// Package checkout drives the delivery -> payment -> confirmation
// flow for one ordering session and finalizes completed checkouts
// into placed orders.
//
// A Machine is single-writer: all mutations, including the deferred
// payment-confirmation callback, must be serialized by the caller
// (the session engine wraps the Scheduler so timer callbacks take the
// same lock as user actions).
package checkout

import (
	"time"

	"github.com/qikao/ordering/internal/cart"
)

// Machine is the checkout state machine for one session.
//
// Invariants:
//   - step only moves DeliveryInfo -> Payment -> Confirmation, plus
//     the forced reset back to DeliveryInfo when the cart empties
//     before Confirmation.
//   - at most one payment commit is in flight; duplicates are
//     rejected with CodeDuplicateCommit and have no effect.
//   - the completion callback fires exactly once per placed order.
type Machine struct {
	cart *cart.Store

	step       Step
	form       DeliveryForm
	method     PaymentMethod
	draft      MobileMoneyDraft
	promptOpen bool

	// Commit-in-flight guard. epoch invalidates pending deferred
	// confirmations: cancel and reset bump it, and a callback whose
	// captured epoch no longer matches is discarded.
	inFlight bool
	epoch    uint64

	scheduler Scheduler
	delay     time.Duration
	ids       IDSource
	now       func() time.Time

	order *PlacedOrder

	onChange   func()
	onComplete func(PlacedOrder)
}

// Option configures a Machine.
type Option func(*Machine)

// WithScheduler replaces the deferred-confirmation scheduler.
func WithScheduler(s Scheduler) Option {
	return func(m *Machine) { m.scheduler = s }
}

// WithConfirmationDelay sets the simulated processing latency.
func WithConfirmationDelay(d time.Duration) Option {
	return func(m *Machine) { m.delay = d }
}

// WithIDSource replaces the order id generator.
func WithIDSource(ids IDSource) Option {
	return func(m *Machine) { m.ids = ids }
}

// WithNow replaces the wall clock used for order timestamps.
func WithNow(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// OnChange registers fn to run synchronously after every state
// mutation. The session engine uses it for mirror write-through.
func OnChange(fn func()) Option {
	return func(m *Machine) { m.onChange = fn }
}

// OnComplete registers fn to receive the placed order. Fired exactly
// once per order, after all clears have been applied.
func OnComplete(fn func(PlacedOrder)) Option {
	return func(m *Machine) { m.onComplete = fn }
}

// NewMachine creates a machine at StepDeliveryInfo over the given
// cart store.
func NewMachine(cartStore *cart.Store, opts ...Option) *Machine {
	m := &Machine{
		cart:      cartStore,
		step:      StepDeliveryInfo,
		scheduler: TimerScheduler{},
		delay:     DefaultConfirmationDelay,
		ids:       QKIDSource{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CurrentStep returns the active step.
func (m *Machine) CurrentStep() Step { return m.step }

// DeliveryDetails returns the current delivery form.
func (m *Machine) DeliveryDetails() DeliveryForm { return m.form }

// Method returns the selected payment method, empty before selection.
func (m *Machine) Method() PaymentMethod { return m.method }

// Draft returns the mobile-money sub-flow input.
func (m *Machine) Draft() MobileMoneyDraft { return m.draft }

// PromptOpen reports whether the mobile-money prompt is showing.
func (m *Machine) PromptOpen() bool { return m.promptOpen }

// InFlight reports whether a payment commit is pending.
func (m *Machine) InFlight() bool { return m.inFlight }

// Order returns the placed order once StepConfirmation is reached.
func (m *Machine) Order() (PlacedOrder, bool) {
	if m.order == nil {
		return PlacedOrder{}, false
	}
	return *m.order, true
}

// PrefillCustomer fills name and email from an authenticated-user
// context. Only blank fields are touched, and only before the
// delivery form has been submitted.
func (m *Machine) PrefillCustomer(name, email string) {
	if m.step != StepDeliveryInfo {
		return
	}
	changed := false
	if m.form.Name == "" && name != "" {
		m.form.Name = name
		changed = true
	}
	if m.form.Email == "" && email != "" {
		m.form.Email = email
		changed = true
	}
	if changed {
		m.notifyChange()
	}
}

// SubmitDelivery validates and stores the delivery form and advances
// to StepPayment. The cart must be non-empty.
func (m *Machine) SubmitDelivery(form DeliveryForm) error {
	if m.step != StepDeliveryInfo {
		return newTransitionError(m.step, "delivery submit")
	}
	if m.cart.IsEmpty() {
		return newTransitionError(m.step, "delivery submit with empty cart")
	}
	if err := form.Validate(); err != nil {
		return err
	}

	m.form = form
	m.step = StepPayment
	m.notifyChange()
	return nil
}

// SubmitPayment submits the chosen method from StepPayment.
//
// Card payments start the simulated confirmation directly.
// Mobile money opens the confirmation-code prompt instead; the order
// is only committed by SubmitMobileMoney.
func (m *Machine) SubmitPayment(method PaymentMethod) error {
	if m.step != StepPayment {
		return newTransitionError(m.step, "payment submit")
	}
	if m.inFlight {
		return &Error{Code: CodeDuplicateCommit, Message: "payment already processing"}
	}
	if !method.Valid() {
		return newValidationError(map[string]string{"method": "must be mpesa or card"})
	}

	m.method = method
	switch method {
	case MethodMobileMoney:
		m.promptOpen = true
		m.notifyChange()
		return nil
	case MethodCard:
		m.notifyChange()
		return m.startCommit()
	}
	// All methods handled above; Valid() guarantees this is dead.
	return newValidationError(map[string]string{"method": "unknown"})
}

// SubmitMobileMoney validates the sub-flow input and starts the
// simulated confirmation. A second submit while one is pending is
// rejected with CodeDuplicateCommit and does not start a second
// commit.
func (m *Machine) SubmitMobileMoney(draft MobileMoneyDraft) error {
	if m.step != StepPayment || m.method != MethodMobileMoney || !m.promptOpen {
		return newTransitionError(m.step, "mobile money submit")
	}
	if m.inFlight {
		return &Error{Code: CodeDuplicateCommit, Message: "payment already processing"}
	}
	if err := draft.Validate(); err != nil {
		return err
	}

	m.draft = draft
	m.notifyChange()
	return m.startCommit()
}

// CancelMobileMoney closes the prompt and returns to StepPayment.
// A pending confirmation, if any, is discarded: its epoch no longer
// matches, so the deferred callback becomes a no-op.
func (m *Machine) CancelMobileMoney() {
	if m.step != StepPayment || !m.promptOpen {
		return
	}
	m.promptOpen = false
	m.epoch++
	m.inFlight = false
	m.notifyChange()
}

// ResetToDelivery forces the flow back to the first step. Called by
// the session engine when the cart empties before Confirmation.
// In-progress payment data is abandoned silently; the delivery form
// is kept. Recovery policy, not a user action.
func (m *Machine) ResetToDelivery() {
	if m.step == StepConfirmation || m.step == StepDeliveryInfo {
		return
	}
	m.step = StepDeliveryInfo
	m.promptOpen = false
	m.draft = MobileMoneyDraft{}
	m.method = ""
	m.epoch++
	m.inFlight = false
	m.notifyChange()
}

// BeginNewOrder leaves StepConfirmation for a fresh flow. Called by
// the session engine when items are added after an order was placed.
func (m *Machine) BeginNewOrder() {
	if m.step != StepConfirmation {
		return
	}
	m.step = StepDeliveryInfo
	m.form = DeliveryForm{}
	m.method = ""
	m.draft = MobileMoneyDraft{}
	m.order = nil
	m.notifyChange()
}

// RestoreState rehydrates the machine from mirrored values. The cart
// must already be restored. Steps that cannot be resumed (unknown, or
// Confirmation, whose order artifact is never persisted) fall back to
// StepDeliveryInfo. A payment step with an empty cart also falls back,
// mirroring the empty-cart guard.
func (m *Machine) RestoreState(step Step, form DeliveryForm, draft MobileMoneyDraft) {
	m.form = form
	m.draft = draft

	switch {
	case !step.Valid() || step == StepConfirmation:
		m.step = StepDeliveryInfo
	case step == StepPayment && m.cart.IsEmpty():
		m.step = StepDeliveryInfo
	default:
		m.step = step
	}
}

// startCommit begins the simulated payment confirmation.
// Caller has already rejected duplicates via inFlight.
func (m *Machine) startCommit() error {
	m.inFlight = true
	epoch := m.epoch
	m.scheduler.After(m.delay, func() {
		m.completeCommit(epoch)
	})
	return nil
}

// completeCommit fires when the simulated confirmation arrives.
//
// Finalization is one logical unit: capture the order, enter
// Confirmation, clear the cart, and clear the session state, with no
// externally visible intermediate. Confirmation is entered before the
// cart clears so the empty-cart guard does not re-trigger.
func (m *Machine) completeCommit(epoch uint64) {
	if !m.inFlight || epoch != m.epoch {
		// Cancelled or superseded while pending; discard.
		return
	}

	order, err := finalize(m.cart.Lines(), m.cart.Totals().Subtotal,
		m.form, m.method, m.ids.NewOrderID(), m.now())
	if err != nil {
		// Empty cart: the reset guard raced the confirmation.
		// Abandon the commit; the machine is already back at
		// DeliveryInfo or will be reset by the engine.
		m.inFlight = false
		return
	}

	m.order = &order
	m.step = StepConfirmation
	m.promptOpen = false
	m.inFlight = false
	m.epoch++
	m.form = DeliveryForm{}
	m.draft = MobileMoneyDraft{}
	m.method = ""

	m.cart.Clear()
	m.notifyChange()

	if m.onComplete != nil {
		m.onComplete(order)
	}
}

func (m *Machine) notifyChange() {
	if m.onChange != nil {
		m.onChange()
	}
}
