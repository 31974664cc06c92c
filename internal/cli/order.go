package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qikao/ordering/internal/checkout"
	"github.com/qikao/ordering/internal/engine"
	"github.com/qikao/ordering/internal/store"
)

// OrderOptions holds flags for the order command.
type OrderOptions struct {
	*RootOptions
	MenuPath string
	Items    []string
	Method   string
	Delay    time.Duration

	Name       string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string

	ConfirmationCode string
}

// NewOrderCommand creates the order command, a scripted end-to-end
// checkout against an in-process engine. It is mainly a smoke test
// and demo; real orders go through the HTTP API.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place a demo order from the terminal",
		Long: `Run a complete checkout in-process and print the receipt.

Items are given as id:quantity pairs against the loaded menu.

Example:
  qikao order --item 1:2 --item 7:1 --name "Wanjiku Kamau" --email wanjiku@example.com \
    --phone +254700111222 --address "12 Kimathi Street" --city Nairobi --postal 00100
  qikao order --item 3:1 ... --method mpesa --code QK123ABC`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.MenuPath, "menu", "", "path to a catalog YAML file (default: built-in menu)")
	cmd.Flags().StringArrayVar(&opts.Items, "item", nil, "item to order as id:quantity (repeatable)")
	cmd.Flags().StringVar(&opts.Method, "method", "card", "payment method (card|mpesa)")
	cmd.Flags().DurationVar(&opts.Delay, "delay", 100*time.Millisecond, "simulated payment confirmation delay")
	cmd.Flags().StringVar(&opts.Name, "name", "", "recipient name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&opts.Address, "address", "", "street address")
	cmd.Flags().StringVar(&opts.City, "city", "", "city")
	cmd.Flags().StringVar(&opts.PostalCode, "postal", "", "postal code")
	cmd.Flags().StringVar(&opts.ConfirmationCode, "code", "", "mobile money confirmation code")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}

func runOrder(opts *OrderOptions, cmd *cobra.Command) error {
	catalog, err := loadCatalog(opts.MenuPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load menu", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	placed := make(chan checkout.PlacedOrder, 1)
	eng := engine.New(catalog, store.NewMemory().Session("cli"),
		engine.WithConfirmationDelay(opts.Delay),
		engine.OnOrderPlaced(func(order checkout.PlacedOrder) {
			placed <- order
		}),
	)

	for _, spec := range opts.Items {
		itemID, qty, err := parseItemSpec(spec)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --item", err)
		}
		if err := eng.AddItem(itemID, qty); err != nil {
			return WrapExitError(ExitFailure, "cannot add item", err)
		}
	}

	form := checkout.DeliveryForm{
		Name:       opts.Name,
		Email:      opts.Email,
		Phone:      opts.Phone,
		Address:    opts.Address,
		City:       opts.City,
		PostalCode: opts.PostalCode,
	}
	if err := eng.SubmitDelivery(form); err != nil {
		if reportErr := formatter.Error("order_rejected", err.Error(), nil); reportErr != nil {
			return reportErr
		}
		return NewExitError(ExitFailure, "delivery details rejected")
	}

	method := checkout.PaymentMethod(opts.Method)
	if err := eng.SubmitPayment(method); err != nil {
		return WrapExitError(ExitFailure, "payment rejected", err)
	}

	if method == checkout.MethodMobileMoney {
		draft := checkout.MobileMoneyDraft{
			PhoneNumber:      opts.Phone,
			ConfirmationCode: opts.ConfirmationCode,
		}
		if err := eng.SubmitMobileMoney(draft); err != nil {
			return WrapExitError(ExitFailure, "mobile money confirmation rejected", err)
		}
	}

	select {
	case order := <-placed:
		if opts.Format == "json" {
			return formatter.Success(order)
		}
		return formatter.Success(strings.TrimRight(checkout.Receipt(order), "\n"))
	case <-time.After(opts.Delay + 10*time.Second):
		return NewExitError(ExitFailure, "timed out waiting for payment confirmation")
	}
}

// parseItemSpec splits "id:qty" into its parts. A bare "id" means
// quantity 1.
func parseItemSpec(spec string) (string, int, error) {
	itemID, qtyStr, found := strings.Cut(spec, ":")
	if itemID == "" {
		return "", 0, fmt.Errorf("%q: missing item id", spec)
	}
	if !found {
		return itemID, 1, nil
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return "", 0, fmt.Errorf("%q: quantity must be an integer", spec)
	}
	return itemID, qty, nil
}
