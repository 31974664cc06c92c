package checkout

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// IDSource produces display order identifiers. Implemented by
// QKIDSource (production) and testutil.FixedIDSource (tests).
type IDSource interface {
	NewOrderID() string
}

// QKIDSource generates ids in the customer-facing "#QK" format:
// the brand prefix plus six random digits. The id exists for display
// and support lookups, not global uniqueness.
type QKIDSource struct{}

// NewOrderID returns an id like "#QK482913".
func (QKIDSource) NewOrderID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is
		// broken; there is no sensible recovery for an id generator.
		panic(fmt.Sprintf("order id entropy unavailable: %v", err))
	}
	return fmt.Sprintf("#QK%06d", n.Int64()+100000)
}
