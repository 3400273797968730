// Package categories implements the category subsystem: grouping items
// into ordered buckets for the home and shop views, keeping the
// user-reorderable category lists in sync with the categories actually
// in use, and the adjacent-swap reorder operations.
package categories

import (
	"sort"
	"strings"

	"github.com/listkeeper/backend/internal/domain/item"
	"github.com/listkeeper/backend/internal/domain/shop"
)

// Uncategorized is the synthetic bucket for items assigned to a shop
// without an explicit shop category. The name is reserved: Normalize
// folds a user-supplied "Uncategorized" into the empty string, so the
// literal name can only ever denote this bucket, and the bucket always
// sorts last in a shop view.
const Uncategorized = "Uncategorized"

// Group is one bucket of items sharing a category name. Items keep
// their catalog insertion order within a bucket.
type Group struct {
	Name  string      `json:"name"`
	Items []item.Item `json:"items"`
}

// Normalize trims a shop category name and folds the reserved
// "Uncategorized" literal into the empty string.
func Normalize(category string) string {
	category = strings.TrimSpace(category)
	if category == Uncategorized {
		return ""
	}
	return category
}

// GroupByHome partitions items into buckets by exact HomeCategory and
// orders the buckets: names present in order first, by their index;
// names absent from order after all present ones, lexicographically.
// Only non-empty buckets are returned.
func GroupByHome(items []item.Item, order []string) []Group {
	groups := collect(items, func(it item.Item) (string, bool) {
		return it.HomeCategory, true
	})
	sortGroups(groups, order, "")
	return groups
}

// GroupByShop partitions items by their shop category at s. Only items
// with an availability entry for s participate; an empty category maps
// to the Uncategorized bucket. Ordering follows s.Categories with the
// same rules as GroupByHome, except that Uncategorized is pinned last
// regardless of any custom order.
func GroupByShop(items []item.Item, s shop.Shop) []Group {
	groups := collect(items, func(it item.Item) (string, bool) {
		avail, ok := it.AvailabilityFor(s.ID)
		if !ok {
			return "", false
		}
		name := Normalize(avail.ShopCategory)
		if name == "" {
			name = Uncategorized
		}
		return name, true
	})
	sortGroups(groups, s.Categories, Uncategorized)
	return groups
}

// collect buckets items by the key bucketOf yields, skipping items for
// which it reports false. Buckets appear in first-seen order; callers
// are expected to sort afterwards.
func collect(items []item.Item, bucketOf func(item.Item) (string, bool)) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, it := range items {
		name, ok := bucketOf(it)
		if !ok {
			continue
		}
		i, seen := index[name]
		if !seen {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// sortGroups orders groups by index in order, then lexicographically
// for names not in order. A non-empty last name is pinned to the end,
// even if it appears in order.
func sortGroups(groups []Group, order []string, last string) {
	rank := make(map[string]int, len(order))
	for i, name := range order {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Name, groups[j].Name
		if last != "" {
			if a == last {
				return false
			}
			if b == last {
				return true
			}
		}
		ra, inA := rank[a]
		rb, inB := rank[b]
		switch {
		case inA && inB:
			return ra < rb
		case inA:
			return true
		case inB:
			return false
		default:
			return a < b
		}
	})
}

// HomeCategoriesInUse returns the sorted set of distinct home
// categories across items.
func HomeCategoriesInUse(items []item.Item) []string {
	seen := make(map[string]bool)
	var names []string
	for _, it := range items {
		if !seen[it.HomeCategory] {
			seen[it.HomeCategory] = true
			names = append(names, it.HomeCategory)
		}
	}
	sort.Strings(names)
	return names
}

// ShopCategoriesInUse returns the sorted set of distinct explicit shop
// categories used by items at shopID. The synthetic Uncategorized
// bucket is never included; it exists without being listed.
func ShopCategoriesInUse(items []item.Item, shopID string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, it := range items {
		avail, ok := it.AvailabilityFor(shopID)
		if !ok {
			continue
		}
		name := Normalize(avail.ShopCategory)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
