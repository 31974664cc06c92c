package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/qikao/ordering/internal/cart"
	"github.com/qikao/ordering/internal/menu"
	"github.com/qikao/ordering/internal/money"
	"github.com/qikao/ordering/internal/testutil"
)

var testPlacedAt = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

func validForm() DeliveryForm {
	return DeliveryForm{
		Name:       "Wanjiku Kamau",
		Email:      "wanjiku@example.com",
		Phone:      "+254700111222",
		Address:    "12 Kimathi Street",
		City:       "Nairobi",
		PostalCode: "00100",
	}
}

func validDraft() MobileMoneyDraft {
	return MobileMoneyDraft{PhoneNumber: "+254700111222", ConfirmationCode: "QK123ABC"}
}

type fixture struct {
	cart      *cart.Store
	machine   *Machine
	scheduler *testutil.ManualScheduler
	completed []PlacedOrder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		cart:      cart.NewStore(currency.USD),
		scheduler: testutil.NewManualScheduler(),
	}
	f.machine = NewMachine(f.cart,
		WithScheduler(f.scheduler),
		WithIDSource(testutil.FixedIDSource{ID: "#QK123456"}),
		WithNow(testutil.FixedNow(testPlacedAt)),
		OnComplete(func(o PlacedOrder) { f.completed = append(f.completed, o) }),
	)
	return f
}

func (f *fixture) add(t *testing.T, id, name, price string, qty int) {
	t.Helper()
	item := menu.Item{ID: id, Name: name, Price: money.New(price, currency.USD)}
	require.NoError(t, f.cart.AddItem(item, qty))
}

// fillCart loads the canonical two-line cart: qty 3 @ $10, qty 1 @ $5.
func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	f.add(t, "pilau", "Pilau", "10.00", 3)
	f.add(t, "soda", "Soda", "5.00", 1)
}

func (f *fixture) toPayment(t *testing.T) {
	t.Helper()
	require.NoError(t, f.machine.SubmitDelivery(validForm()))
	require.Equal(t, StepPayment, f.machine.CurrentStep())
}

func TestMachine_InitialState(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, StepDeliveryInfo, f.machine.CurrentStep())
	assert.False(t, f.machine.InFlight())
	_, placed := f.machine.Order()
	assert.False(t, placed)
}

func TestMachine_SubmitDelivery_EmptyCart(t *testing.T) {
	f := newFixture(t)

	err := f.machine.SubmitDelivery(validForm())
	assert.True(t, HasCode(err, CodeInvalidTransition))
	assert.Equal(t, StepDeliveryInfo, f.machine.CurrentStep())
}

func TestMachine_SubmitDelivery_Validation(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)

	form := validForm()
	form.Email = ""
	form.City = "   "

	err := f.machine.SubmitDelivery(form)
	require.True(t, HasCode(err, CodeValidation))

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Fields, "email")
	assert.Contains(t, ce.Fields, "city")
	assert.NotContains(t, ce.Fields, "name")

	assert.Equal(t, StepDeliveryInfo, f.machine.CurrentStep(), "no transition on validation failure")
}

func TestMachine_SubmitDelivery_AdvancesToPayment(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)

	require.NoError(t, f.machine.SubmitDelivery(validForm()))

	assert.Equal(t, StepPayment, f.machine.CurrentStep())
	assert.Equal(t, "Wanjiku Kamau", f.machine.DeliveryDetails().Name)
}

func TestMachine_SubmitDelivery_WrongStep(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)

	err := f.machine.SubmitDelivery(validForm())
	assert.True(t, HasCode(err, CodeInvalidTransition))
}

func TestMachine_SubmitPayment_InvalidMethod(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)

	for _, method := range []PaymentMethod{"", "bitcoin"} {
		err := f.machine.SubmitPayment(method)
		assert.True(t, HasCode(err, CodeValidation), "method %q", method)
	}
	assert.Equal(t, StepPayment, f.machine.CurrentStep())
}

func TestMachine_CardFlow_PlacesOrder(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)

	require.NoError(t, f.machine.SubmitPayment(MethodCard))
	assert.True(t, f.machine.InFlight())
	assert.Equal(t, StepPayment, f.machine.CurrentStep(), "still payment while processing")

	f.scheduler.Fire()

	assert.Equal(t, StepConfirmation, f.machine.CurrentStep())
	assert.True(t, f.cart.IsEmpty(), "finalization clears the cart")
	assert.False(t, f.machine.InFlight())

	order, placed := f.machine.Order()
	require.True(t, placed)
	assert.Equal(t, "#QK123456", order.OrderID)
	assert.Equal(t, MethodCard, order.Method)
	assert.True(t, order.Totals.Subtotal.Equal(money.New("35.00", currency.USD)))
	assert.Equal(t, testPlacedAt, order.PlacedAt)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, 3, order.Lines[0].Quantity)

	require.Len(t, f.completed, 1, "completion callback fires exactly once")
	assert.Equal(t, "#QK123456", f.completed[0].OrderID)
}

func TestMachine_MobileMoneyFlow(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)

	require.NoError(t, f.machine.SubmitPayment(MethodMobileMoney))
	assert.True(t, f.machine.PromptOpen())
	assert.False(t, f.machine.InFlight(), "selecting mpesa does not commit")

	// Incomplete sub-flow input is rejected in place.
	err := f.machine.SubmitMobileMoney(MobileMoneyDraft{PhoneNumber: "+254700111222"})
	require.True(t, HasCode(err, CodeValidation))

	require.NoError(t, f.machine.SubmitMobileMoney(validDraft()))
	assert.True(t, f.machine.InFlight())

	f.scheduler.Fire()

	assert.Equal(t, StepConfirmation, f.machine.CurrentStep())
	order, placed := f.machine.Order()
	require.True(t, placed)
	assert.Equal(t, MethodMobileMoney, order.Method)
}

func TestMachine_MobileMoney_WithoutPrompt(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)

	err := f.machine.SubmitMobileMoney(validDraft())
	assert.True(t, HasCode(err, CodeInvalidTransition))
}

func TestMachine_DuplicateSubmit_SingleOrder(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)

	require.NoError(t, f.machine.SubmitPayment(MethodMobileMoney))
	require.NoError(t, f.machine.SubmitMobileMoney(validDraft()))

	// Rapid double submit before the first confirmation fires.
	err := f.machine.SubmitMobileMoney(validDraft())
	assert.True(t, HasCode(err, CodeDuplicateCommit))
	assert.Equal(t, 1, f.scheduler.Pending(), "no second commit scheduled")

	f.scheduler.FireAll()

	assert.Len(t, f.completed, 1, "exactly one placed order")
}

func TestMachine_DuplicateCardSubmit(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)

	require.NoError(t, f.machine.SubmitPayment(MethodCard))
	err := f.machine.SubmitPayment(MethodCard)
	assert.True(t, HasCode(err, CodeDuplicateCommit))

	f.scheduler.FireAll()
	assert.Len(t, f.completed, 1)
}

func TestMachine_CancelMobileMoney_DiscardsPending(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)

	require.NoError(t, f.machine.SubmitPayment(MethodMobileMoney))
	require.NoError(t, f.machine.SubmitMobileMoney(validDraft()))
	require.True(t, f.machine.InFlight())

	f.machine.CancelMobileMoney()

	assert.False(t, f.machine.PromptOpen())
	assert.False(t, f.machine.InFlight())
	assert.Equal(t, StepPayment, f.machine.CurrentStep())

	// The already-scheduled confirmation fires into a stale epoch.
	f.scheduler.FireAll()

	assert.Equal(t, StepPayment, f.machine.CurrentStep(), "discarded confirmation must not transition")
	assert.Empty(t, f.completed)
	assert.False(t, f.cart.IsEmpty())
}

func TestMachine_ResubmitAfterCancel(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)

	require.NoError(t, f.machine.SubmitPayment(MethodMobileMoney))
	require.NoError(t, f.machine.SubmitMobileMoney(validDraft()))
	f.machine.CancelMobileMoney()
	f.scheduler.FireAll()

	// Draft survives the cancel so the customer can retry.
	assert.Equal(t, validDraft(), f.machine.Draft())

	require.NoError(t, f.machine.SubmitPayment(MethodMobileMoney))
	require.NoError(t, f.machine.SubmitMobileMoney(validDraft()))
	f.scheduler.FireAll()

	assert.Equal(t, StepConfirmation, f.machine.CurrentStep())
	assert.Len(t, f.completed, 1)
}

func TestMachine_ResetToDelivery(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)

	require.NoError(t, f.machine.SubmitPayment(MethodMobileMoney))
	require.NoError(t, f.machine.SubmitMobileMoney(validDraft()))

	f.machine.ResetToDelivery()

	assert.Equal(t, StepDeliveryInfo, f.machine.CurrentStep())
	assert.False(t, f.machine.InFlight())
	assert.True(t, f.machine.Draft().IsZero(), "payment data abandoned")
	assert.Equal(t, "Wanjiku Kamau", f.machine.DeliveryDetails().Name, "delivery form kept")

	// Pending confirmation was invalidated.
	f.scheduler.FireAll()
	assert.Equal(t, StepDeliveryInfo, f.machine.CurrentStep())
	assert.Empty(t, f.completed)
}

func TestMachine_ResetToDelivery_NoOpInConfirmation(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)
	require.NoError(t, f.machine.SubmitPayment(MethodCard))
	f.scheduler.FireAll()
	require.Equal(t, StepConfirmation, f.machine.CurrentStep())

	f.machine.ResetToDelivery()

	assert.Equal(t, StepConfirmation, f.machine.CurrentStep())
}

func TestMachine_BeginNewOrder(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)
	require.NoError(t, f.machine.SubmitPayment(MethodCard))
	f.scheduler.FireAll()
	require.Equal(t, StepConfirmation, f.machine.CurrentStep())

	f.machine.BeginNewOrder()

	assert.Equal(t, StepDeliveryInfo, f.machine.CurrentStep())
	_, placed := f.machine.Order()
	assert.False(t, placed)
	assert.Equal(t, DeliveryForm{}, f.machine.DeliveryDetails())
}

func TestMachine_PrefillCustomer(t *testing.T) {
	f := newFixture(t)

	f.machine.PrefillCustomer("Wanjiku Kamau", "wanjiku@example.com")
	assert.Equal(t, "Wanjiku Kamau", f.machine.DeliveryDetails().Name)
	assert.Equal(t, "wanjiku@example.com", f.machine.DeliveryDetails().Email)

	// A second prefill never overwrites what is already there.
	f.machine.PrefillCustomer("Someone Else", "other@example.com")
	assert.Equal(t, "Wanjiku Kamau", f.machine.DeliveryDetails().Name)
}

func TestMachine_RestoreState(t *testing.T) {
	tests := []struct {
		name     string
		step     Step
		withCart bool
		want     Step
	}{
		{name: "payment with cart resumes", step: StepPayment, withCart: true, want: StepPayment},
		{name: "payment without cart falls back", step: StepPayment, withCart: false, want: StepDeliveryInfo},
		{name: "confirmation falls back", step: StepConfirmation, withCart: true, want: StepDeliveryInfo},
		{name: "unknown step falls back", step: Step(99), withCart: true, want: StepDeliveryInfo},
		{name: "delivery resumes", step: StepDeliveryInfo, withCart: true, want: StepDeliveryInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.withCart {
				f.fillCart(t)
			}

			f.machine.RestoreState(tt.step, validForm(), validDraft())

			assert.Equal(t, tt.want, f.machine.CurrentStep())
			assert.Equal(t, validForm(), f.machine.DeliveryDetails())
			assert.Equal(t, validDraft(), f.machine.Draft())
		})
	}
}

func TestMachine_EmptyCartDuringPendingCommit(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t)
	f.toPayment(t)
	require.NoError(t, f.machine.SubmitPayment(MethodCard))

	// A stray clear while the confirmation is pending. The engine
	// would also call ResetToDelivery; even without it the commit
	// must not place an empty order.
	f.cart.Clear()
	f.scheduler.FireAll()

	_, placed := f.machine.Order()
	assert.False(t, placed)
	assert.Empty(t, f.completed)
	assert.False(t, f.machine.InFlight())
}
