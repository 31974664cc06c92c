package menu

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"

	"github.com/qikao/ordering/internal/money"
)

// catalogFile is the on-disk YAML shape of a catalog.
type catalogFile struct {
	Currency string     `yaml:"currency"`
	Items    []itemFile `yaml:"items"`
}

type itemFile struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Image       string `yaml:"image"`
	Category    string `yaml:"category"`
}

// LoadFile reads and validates a YAML catalog.
//
// Prices are decimal strings ("2.99", "230") in the file's single
// declared currency. Any parse or validation failure fails the load;
// a bad catalog is an operator error, not something to limp past.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a Catalog from raw YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	unit, err := currency.ParseISO(file.Currency)
	if err != nil {
		return nil, fmt.Errorf("catalog currency %q: %w", file.Currency, err)
	}

	items := make([]Item, 0, len(file.Items))
	for _, f := range file.Items {
		amount, err := decimal.NewFromString(f.Price)
		if err != nil {
			return nil, fmt.Errorf("item %q: price %q: %w", f.ID, f.Price, err)
		}
		items = append(items, Item{
			ID:          f.ID,
			Name:        f.Name,
			Description: f.Description,
			Price:       money.Money{Amount: amount, Currency: unit},
			Image:       f.Image,
			Category:    f.Category,
		})
	}

	return NewCatalog(items)
}
