package checkout

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryForm_Validate_Complete(t *testing.T) {
	form := DeliveryForm{
		Name:       gofakeit.Name(),
		Email:      gofakeit.Email(),
		Phone:      gofakeit.Phone(),
		Address:    gofakeit.Street(),
		City:       gofakeit.City(),
		PostalCode: gofakeit.Zip(),
	}
	assert.NoError(t, form.Validate())
}

func TestDeliveryForm_Validate_NamesEveryEmptyField(t *testing.T) {
	err := DeliveryForm{}.Validate()

	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, CodeValidation, ce.Code)
	assert.Len(t, ce.Fields, 6)
}

func TestDeliveryForm_Validate_WhitespaceIsEmpty(t *testing.T) {
	form := validForm()
	form.Address = "  \t "

	err := form.Validate()
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, map[string]string{"address": "required"}, ce.Fields)
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, MethodMobileMoney.Valid())
	assert.True(t, MethodCard.Valid())
	assert.False(t, PaymentMethod("").Valid())
	assert.False(t, PaymentMethod("cash").Valid())
}

func TestMobileMoneyDraft_Validate(t *testing.T) {
	assert.NoError(t, validDraft().Validate())

	err := MobileMoneyDraft{}.Validate()
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Fields, "phoneNumber")
	assert.Contains(t, ce.Fields, "confirmationCode")
}

func TestError_Message(t *testing.T) {
	err := newValidationError(map[string]string{"email": "required", "city": "required"})
	// Field names are sorted for a stable message.
	assert.Equal(t, "VALIDATION: required fields missing (city, email)", err.Error())
}
