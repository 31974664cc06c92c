package checkout

import (
	"fmt"
	"strings"
)

// Receipt renders the confirmation view of a placed order as plain
// text. Used by the CLI and kept stable by a golden test.
func Receipt(order PlacedOrder) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Qikao - Thank you for your order!\n")
	fmt.Fprintf(&b, "Order Number: %s\n", order.OrderID)
	fmt.Fprintf(&b, "Placed: %s\n", order.PlacedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Deliver to: %s, %s, %s %s\n",
		order.Delivery.Name, order.Delivery.Address, order.Delivery.City, order.Delivery.PostalCode)
	fmt.Fprintf(&b, "Payment: %s\n", order.Method)
	b.WriteString("\n")

	for _, line := range order.Lines {
		fmt.Fprintf(&b, "%3d x %-28s %12s\n", line.Quantity, line.Item.Name, line.Total().String())
	}

	b.WriteString(strings.Repeat("-", 46) + "\n")
	fmt.Fprintf(&b, "%-32s %12s\n", "Subtotal", order.Totals.Subtotal.String())
	fmt.Fprintf(&b, "%-32s %12s\n", "Delivery Fee", order.Totals.DeliveryFee.String())
	fmt.Fprintf(&b, "%-32s %12s\n", "VAT (16%)", order.Totals.VAT.String())
	fmt.Fprintf(&b, "%-32s %12s\n", "Total", order.Totals.Total.String())

	return b.String()
}
