package checkout

import "strings"

// DeliveryForm holds the customer's delivery details. All fields are
// required as non-empty strings; stricter shape validation (email
// format, phone format) belongs to the presentation layer.
type DeliveryForm struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// Validate returns a CodeValidation error naming every empty field,
// or nil when the form is complete.
func (f DeliveryForm) Validate() error {
	fields := make(map[string]string)
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			fields[name] = "required"
		}
	}
	check("name", f.Name)
	check("email", f.Email)
	check("phone", f.Phone)
	check("address", f.Address)
	check("city", f.City)
	check("postalCode", f.PostalCode)

	if len(fields) > 0 {
		return newValidationError(fields)
	}
	return nil
}

// PaymentMethod identifies how the customer pays.
type PaymentMethod string

const (
	// MethodMobileMoney pays via M-Pesa; requires the confirmation
	// code sub-flow before the order can be placed.
	MethodMobileMoney PaymentMethod = "mpesa"
	// MethodCard pays by card and places the order directly.
	MethodCard PaymentMethod = "card"
)

// Valid reports whether m is a known method.
func (m PaymentMethod) Valid() bool {
	return m == MethodMobileMoney || m == MethodCard
}

// MobileMoneyDraft is the in-progress mobile-money sub-flow input.
type MobileMoneyDraft struct {
	PhoneNumber      string `json:"phoneNumber"`
	ConfirmationCode string `json:"confirmationCode"`
}

// Validate requires both the phone number and the confirmation code.
func (d MobileMoneyDraft) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(d.PhoneNumber) == "" {
		fields["phoneNumber"] = "required"
	}
	if strings.TrimSpace(d.ConfirmationCode) == "" {
		fields["confirmationCode"] = "required"
	}
	if len(fields) > 0 {
		return newValidationError(fields)
	}
	return nil
}

// IsZero reports whether the draft is untouched.
func (d MobileMoneyDraft) IsZero() bool {
	return d.PhoneNumber == "" && d.ConfirmationCode == ""
}
