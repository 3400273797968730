// Package state owns the canonical in-memory shopping-list state and
// the mutation surface that keeps items, shops, the selection and the
// category order lists consistent. Consumers hold an explicit *Store;
// there is no package-level instance.
package state

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/listkeeper/backend/internal/domain/categories"
	"github.com/listkeeper/backend/internal/domain/item"
	"github.com/listkeeper/backend/internal/domain/shop"
)

// SaveStatus tracks where the in-memory state stands relative to the
// backing document.
type SaveStatus string

const (
	StatusSaved   SaveStatus = "saved"
	StatusUnsaved SaveStatus = "unsaved"
	StatusSaving  SaveStatus = "saving"
	StatusError   SaveStatus = "error"
)

// Document is the persisted unit: the whole aggregate, loaded and
// saved atomically. There is no partial persistence.
type Document struct {
	Items          []item.Item
	Shops          []shop.Shop
	Selection      []string
	HomeCategories []string
}

// ItemUpdate carries a partial item edit. Nil fields are left
// untouched; the ID is immutable and not part of the update.
type ItemUpdate struct {
	Name         *string
	HomeCategory *string
	Notes        *string
}

// Store holds the canonical mutable state. All mutations are atomic
// from the caller's perspective; subscribers are notified after each
// effective mutation, outside the lock.
type Store struct {
	logger *slog.Logger

	mu             sync.RWMutex
	items          []item.Item
	shops          []shop.Shop
	selection      []string
	homeCategories []string
	status         SaveStatus

	subMu sync.Mutex
	subs  []func()
}

// New creates an empty Store in the saved state.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		logger: logger,
		status: StatusSaved,
	}
}

// Subscribe registers fn to run after every effective mutation.
// Callbacks run synchronously on the mutating goroutine and must not
// call back into mutation methods.
func (s *Store) Subscribe(fn func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	s.subMu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// ── Items ───────────────────────────────────────────────────────────

// AddItem creates an item, auto-selects it and reconciles the home
// category order. Name and home category must be non-empty after
// trimming; otherwise nothing happens.
func (s *Store) AddItem(name, homeCategory, notes string) (item.Item, bool) {
	name = strings.TrimSpace(name)
	homeCategory = strings.TrimSpace(homeCategory)
	if name == "" || homeCategory == "" {
		return item.Item{}, false
	}

	s.mu.Lock()
	it := item.New(name, homeCategory, strings.TrimSpace(notes))
	s.items = append(s.items, *it)
	s.selection = append(s.selection, it.ID)
	s.homeCategories = categories.Ensure(categories.HomeCategoriesInUse(s.items), s.homeCategories)
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
	return *it, true
}

// UpdateItem merges a partial edit into the item with the given id and
// reconciles the home category order in case the category changed.
// A miss is a silent no-op.
func (s *Store) UpdateItem(itemID string, upd ItemUpdate) bool {
	s.mu.Lock()
	idx := s.itemIndex(itemID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	it := &s.items[idx]
	if upd.Name != nil {
		if name := strings.TrimSpace(*upd.Name); name != "" {
			it.Name = name
		}
	}
	if upd.HomeCategory != nil {
		if cat := strings.TrimSpace(*upd.HomeCategory); cat != "" {
			it.HomeCategory = cat
		}
	}
	if upd.Notes != nil {
		it.Notes = strings.TrimSpace(*upd.Notes)
	}

	s.homeCategories = categories.Ensure(categories.HomeCategoriesInUse(s.items), s.homeCategories)
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
	return true
}

// DeleteItem removes the item and drops its id from the selection.
// A miss is a silent no-op.
func (s *Store) DeleteItem(itemID string) bool {
	s.mu.Lock()
	idx := s.itemIndex(itemID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.selection = removeString(s.selection, itemID)
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
	return true
}

// ── Shops ───────────────────────────────────────────────────────────

// AddShop creates a shop. The name must be non-empty after trimming.
func (s *Store) AddShop(name string) (shop.Shop, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return shop.Shop{}, false
	}

	s.mu.Lock()
	sh := shop.New(name)
	s.shops = append(s.shops, *sh)
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
	return *sh, true
}

// UpdateShop renames a shop. A miss is a silent no-op.
func (s *Store) UpdateShop(shopID, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	s.mu.Lock()
	idx := s.shopIndex(shopID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	s.shops[idx].Name = name
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
	return true
}

// DeleteShop removes a shop and cascades: every item's availability
// entry referencing it is stripped. A miss is a silent no-op.
func (s *Store) DeleteShop(shopID string) bool {
	s.mu.Lock()
	idx := s.shopIndex(shopID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	s.shops = append(s.shops[:idx], s.shops[idx+1:]...)
	for i := range s.items {
		s.items[i].RemoveAvailability(shopID)
	}
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
	return true
}

// ── Shop availability ───────────────────────────────────────────────

// SetItemShopAvailability adds or replaces the (item, shop) entry with
// the given category and reconciles that shop's category order. An
// empty category (or the reserved "Uncategorized" literal) places the
// item in the synthetic bucket. A missing item is a silent no-op; a
// missing shop still records the entry but has no order to reconcile.
func (s *Store) SetItemShopAvailability(itemID, shopID, category string) bool {
	s.mu.Lock()
	idx := s.itemIndex(itemID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}

	s.items[idx].SetAvailability(item.ShopAvailability{
		ShopID:       shopID,
		ShopCategory: categories.Normalize(category),
	})

	if shopIdx := s.shopIndex(shopID); shopIdx >= 0 {
		sh := &s.shops[shopIdx]
		sh.Categories = categories.Ensure(categories.ShopCategoriesInUse(s.items, shopID), sh.Categories)
	}

	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
	return true
}

// RemoveItemFromShop deletes the (item, shop) availability entry if
// present.
func (s *Store) RemoveItemFromShop(itemID, shopID string) bool {
	s.mu.Lock()
	idx := s.itemIndex(itemID)
	if idx < 0 || !s.items[idx].RemoveAvailability(shopID) {
		s.mu.Unlock()
		return false
	}
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
	return true
}

// ── Selection ───────────────────────────────────────────────────────

// ToggleItemSelection flips the needed flag for an item id.
func (s *Store) ToggleItemSelection(itemID string) {
	s.mu.Lock()
	if containsString(s.selection, itemID) {
		s.selection = removeString(s.selection, itemID)
	} else {
		s.selection = append(s.selection, itemID)
	}
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
}

// SelectItem marks an item as needed. Idempotent.
func (s *Store) SelectItem(itemID string) {
	s.mu.Lock()
	if containsString(s.selection, itemID) {
		s.mu.Unlock()
		return
	}
	s.selection = append(s.selection, itemID)
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
}

// DeselectItem clears the needed flag. Idempotent.
func (s *Store) DeselectItem(itemID string) {
	s.mu.Lock()
	if !containsString(s.selection, itemID) {
		s.mu.Unlock()
		return
	}
	s.selection = removeString(s.selection, itemID)
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
}

// ── Category ordering ───────────────────────────────────────────────

// MoveHomeCategoryUp moves a home category one position towards the
// front. No-op at the boundary or when the name is unknown.
func (s *Store) MoveHomeCategoryUp(name string) bool {
	return s.moveHomeCategory(name, categories.MoveUp)
}

// MoveHomeCategoryDown moves a home category one position towards the
// back.
func (s *Store) MoveHomeCategoryDown(name string) bool {
	return s.moveHomeCategory(name, categories.MoveDown)
}

func (s *Store) moveHomeCategory(name string, move func([]string, string) ([]string, bool)) bool {
	s.mu.Lock()
	order, moved := move(s.homeCategories, name)
	if !moved {
		s.mu.Unlock()
		return false
	}
	s.homeCategories = order
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
	return true
}

// MoveShopCategoryUp moves a category one position towards the front
// of the shop's order.
func (s *Store) MoveShopCategoryUp(shopID, name string) bool {
	return s.moveShopCategory(shopID, name, categories.MoveUp)
}

// MoveShopCategoryDown moves a category one position towards the back
// of the shop's order.
func (s *Store) MoveShopCategoryDown(shopID, name string) bool {
	return s.moveShopCategory(shopID, name, categories.MoveDown)
}

func (s *Store) moveShopCategory(shopID, name string, move func([]string, string) ([]string, bool)) bool {
	s.mu.Lock()
	idx := s.shopIndex(shopID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	order, moved := move(s.shops[idx].Categories, name)
	if !moved {
		s.mu.Unlock()
		return false
	}
	s.shops[idx].Categories = order
	s.status = StatusUnsaved
	s.mu.Unlock()

	s.notify()
	return true
}

// ── Persistence ─────────────────────────────────────────────────────

// Load replaces the whole state with a validated document and marks it
// saved. Both the home order and every shop's order are re-reconciled
// against the loaded items, in case the stored lists are stale or
// absent. Selection ids without a matching item are tolerated.
func (s *Store) Load(doc Document) {
	s.mu.Lock()
	s.items = cloneItems(doc.Items)
	s.shops = cloneShops(doc.Shops)
	s.selection = append([]string(nil), doc.Selection...)

	s.homeCategories = categories.Ensure(categories.HomeCategoriesInUse(s.items), doc.HomeCategories)
	for i := range s.shops {
		sh := &s.shops[i]
		sh.Categories = categories.Ensure(categories.ShopCategoriesInUse(s.items, sh.ID), sh.Categories)
	}

	s.status = StatusSaved
	s.mu.Unlock()

	s.notify()
}

// Reset clears everything and marks the store saved.
func (s *Store) Reset() {
	s.mu.Lock()
	s.items = nil
	s.shops = nil
	s.selection = nil
	s.homeCategories = nil
	s.status = StatusSaved
	s.mu.Unlock()

	s.notify()
}

// Snapshot returns a copy of the aggregate for serialization.
func (s *Store) Snapshot() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Document{
		Items:          cloneItems(s.items),
		Shops:          cloneShops(s.shops),
		Selection:      append([]string(nil), s.selection...),
		HomeCategories: append([]string(nil), s.homeCategories...),
	}
}

// ── Save status machine ─────────────────────────────────────────────

// Status returns the current save status.
func (s *Store) Status() SaveStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// BeginSave transitions unsaved (or error, for manual retries) to
// saving. It reports whether a save should proceed.
func (s *Store) BeginSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusUnsaved && s.status != StatusError {
		return false
	}
	s.status = StatusSaving
	return true
}

// FinishSave records the outcome of a save attempt. A failure lands in
// the error state. A success only transitions saving to saved: edits
// that arrived while the write was in flight have already flipped the
// status back to unsaved and must trigger another save.
func (s *Store) FinishSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusError
		return
	}
	if s.status == StatusSaving {
		s.status = StatusSaved
	}
}

// ── Internal helpers (callers hold s.mu) ────────────────────────────

func (s *Store) itemIndex(itemID string) int {
	for i := range s.items {
		if s.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (s *Store) shopIndex(shopID string) int {
	for i := range s.shops {
		if s.shops[i].ID == shopID {
			return i
		}
	}
	return -1
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func removeString(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
