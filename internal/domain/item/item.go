package item

import "github.com/listkeeper/backend/internal/id"

// ShopAvailability records that an item can be bought at a particular
// shop, optionally under a shop-specific category (typically an aisle).
// An empty ShopCategory places the item in the synthetic
// "Uncategorized" bucket for that shop.
//
// Availability entries are owned by their Item; at most one entry
// exists per shop.
type ShopAvailability struct {
	ShopID       string `yaml:"shopId" json:"shop_id"`
	ShopCategory string `yaml:"shopCategory,omitempty" json:"shop_category,omitempty"`
}

// Item is a catalog entry: something the household buys, grouped at
// home by storage location (HomeCategory) and mapped to zero or more
// shops through ShopAvailability.
type Item struct {
	ID               string             `yaml:"id" json:"id"`
	Name             string             `yaml:"name" json:"name"`
	HomeCategory     string             `yaml:"homeCategory" json:"home_category"`
	Notes            string             `yaml:"notes,omitempty" json:"notes,omitempty"`
	ShopAvailability []ShopAvailability `yaml:"shopAvailability" json:"shop_availability"`
}

// New creates an Item with a generated ID.
func New(name, homeCategory, notes string) *Item {
	return &Item{
		ID:               id.GenerateID(),
		Name:             name,
		HomeCategory:     homeCategory,
		Notes:            notes,
		ShopAvailability: []ShopAvailability{},
	}
}

// AvailabilityFor returns the availability entry for shopID, if any.
func (i *Item) AvailabilityFor(shopID string) (ShopAvailability, bool) {
	for _, a := range i.ShopAvailability {
		if a.ShopID == shopID {
			return a, true
		}
	}
	return ShopAvailability{}, false
}

// AvailableAt reports whether the item has an availability entry for shopID.
func (i *Item) AvailableAt(shopID string) bool {
	_, ok := i.AvailabilityFor(shopID)
	return ok
}

// SetAvailability adds or replaces the availability entry for the
// entry's shop. The one-entry-per-shop invariant is preserved: an
// existing entry for the same shop is replaced, never duplicated.
func (i *Item) SetAvailability(a ShopAvailability) {
	i.RemoveAvailability(a.ShopID)
	i.ShopAvailability = append(i.ShopAvailability, a)
}

// RemoveAvailability deletes the entry for shopID if present and
// reports whether anything changed.
func (i *Item) RemoveAvailability(shopID string) bool {
	for idx, a := range i.ShopAvailability {
		if a.ShopID == shopID {
			i.ShopAvailability = append(i.ShopAvailability[:idx], i.ShopAvailability[idx+1:]...)
			return true
		}
	}
	return false
}
