package state

import (
	"github.com/listkeeper/backend/internal/domain/categories"
	"github.com/listkeeper/backend/internal/domain/item"
	"github.com/listkeeper/backend/internal/domain/shop"
)

// Read accessors. All return copies; consumers re-read after each
// mutation instead of holding references into the store.

// Items returns all catalog items.
func (s *Store) Items() []item.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Shops returns all shops.
func (s *Store) Shops() []shop.Shop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneShops(s.shops)
}

// ItemByID looks an item up by id.
func (s *Store) ItemByID(itemID string) (item.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.itemIndex(itemID)
	if idx < 0 {
		return item.Item{}, false
	}
	return cloneItem(s.items[idx]), true
}

// ShopByID looks a shop up by id.
func (s *Store) ShopByID(shopID string) (shop.Shop, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.shopIndex(shopID)
	if idx < 0 {
		return shop.Shop{}, false
	}
	return cloneShop(s.shops[idx]), true
}

// Selection returns the ids currently marked as needed.
func (s *Store) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.selection...)
}

// IsSelected reports whether an item id is marked as needed.
func (s *Store) IsSelected(itemID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsString(s.selection, itemID)
}

// HomeCategories returns the user-ordered home category list.
func (s *Store) HomeCategories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.homeCategories...)
}

// ItemsForShop returns the items with an availability entry at shopID,
// optionally narrowed to the current selection.
func (s *Store) ItemsForShop(shopID string, selectedOnly bool) []item.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.itemsForShopLocked(shopID, selectedOnly))
}

// GroupedHome returns the home view: items bucketed by home category
// in the user's order.
func (s *Store) GroupedHome() []categories.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return categories.GroupByHome(cloneItems(s.items), s.homeCategories)
}

// GroupedShop returns the shop view for shopID: items bucketed by shop
// category in the shop's order, Uncategorized last. The second result
// is false when the shop does not exist.
func (s *Store) GroupedShop(shopID string, selectedOnly bool) ([]categories.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.shopIndex(shopID)
	if idx < 0 {
		return nil, false
	}
	items := cloneItems(s.itemsForShopLocked(shopID, selectedOnly))
	return categories.GroupByShop(items, s.shops[idx]), true
}

func (s *Store) itemsForShopLocked(shopID string, selectedOnly bool) []item.Item {
	var out []item.Item
	for i := range s.items {
		if !s.items[i].AvailableAt(shopID) {
			continue
		}
		if selectedOnly && !containsString(s.selection, s.items[i].ID) {
			continue
		}
		out = append(out, s.items[i])
	}
	return out
}

// ── Copy helpers ────────────────────────────────────────────────────

func cloneItem(it item.Item) item.Item {
	it.ShopAvailability = append([]item.ShopAvailability(nil), it.ShopAvailability...)
	return it
}

func cloneItems(items []item.Item) []item.Item {
	if items == nil {
		return nil
	}
	out := make([]item.Item, len(items))
	for i := range items {
		out[i] = cloneItem(items[i])
	}
	return out
}

func cloneShop(sh shop.Shop) shop.Shop {
	sh.Categories = append([]string(nil), sh.Categories...)
	return sh
}

func cloneShops(shops []shop.Shop) []shop.Shop {
	if shops == nil {
		return nil
	}
	out := make([]shop.Shop, len(shops))
	for i := range shops {
		out[i] = cloneShop(shops[i])
	}
	return out
}
