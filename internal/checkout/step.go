package checkout

import (
	"encoding/json"
	"fmt"
)

// Step is one stage of the linear delivery -> payment -> confirmation
// flow. The mobile-money prompt is a sub-state of StepPayment and is
// tracked separately; it is intentionally not a Step so that every
// switch over Step stays three-armed and exhaustive.
type Step int

const (
	// StepDeliveryInfo collects the delivery form. Initial state.
	StepDeliveryInfo Step = iota + 1
	// StepPayment selects and submits a payment method.
	StepPayment
	// StepConfirmation shows the placed order. Terminal.
	StepConfirmation
)

// stepNames are the persisted wire names. Stable; the mirror depends
// on them.
var stepNames = map[Step]string{
	StepDeliveryInfo: "delivery_info",
	StepPayment:      "payment",
	StepConfirmation: "confirmation",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Valid reports whether s is one of the three defined steps.
func (s Step) Valid() bool {
	_, ok := stepNames[s]
	return ok
}

// MarshalJSON encodes the step as its wire name.
func (s Step) MarshalJSON() ([]byte, error) {
	name, ok := stepNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown step %d", int(s))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes a wire name. Unknown names fail so that a
// corrupt mirror is detected and discarded rather than half-applied.
func (s *Step) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for step, n := range stepNames {
		if n == name {
			*s = step
			return nil
		}
	}
	return fmt.Errorf("unknown step %q", name)
}
