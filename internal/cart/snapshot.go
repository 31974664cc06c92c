package cart

import "github.com/qikao/ordering/internal/menu"

// SavedLine is the persisted form of one line item. Only the id and
// quantity are stored; prices are re-resolved against the catalog on
// restore so a stale mirror can never resurrect an old price.
type SavedLine struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Snapshot returns the persisted form of the cart in insertion order.
func (s *Store) Snapshot() []SavedLine {
	out := make([]SavedLine, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, SavedLine{ItemID: id, Quantity: s.lines[id].Quantity})
	}
	return out
}

// Restore replaces the cart's contents from a snapshot, resolving
// each line against the catalog. Lines whose item no longer exists
// in the catalog, or whose quantity is below 1, are dropped rather
// than failing the restore. Observers are notified once at the end.
func (s *Store) Restore(catalog *menu.Catalog, saved []SavedLine) {
	s.order = s.order[:0]
	s.lines = make(map[string]*LineItem)

	for _, sl := range saved {
		if sl.Quantity < 1 {
			continue
		}
		item, ok := catalog.ByID(sl.ItemID)
		if !ok {
			continue
		}
		if _, dup := s.lines[item.ID]; dup {
			s.lines[item.ID].Quantity += sl.Quantity
			continue
		}
		s.lines[item.ID] = &LineItem{Item: item, Quantity: sl.Quantity}
		s.order = append(s.order, item.ID)
	}

	s.notify()
}
