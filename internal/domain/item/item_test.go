package item_test

import (
	"testing"

	"github.com/listkeeper/backend/internal/domain/item"
)

func TestNewItem(t *testing.T) {
	it := item.New("Milk", "Fridge", "semi-skimmed")

	if it.ID == "" {
		t.Error("expected non-empty ID")
	}
	if it.Name != "Milk" {
		t.Errorf("expected name %q, got %q", "Milk", it.Name)
	}
	if it.HomeCategory != "Fridge" {
		t.Errorf("expected home category %q, got %q", "Fridge", it.HomeCategory)
	}
	if len(it.ShopAvailability) != 0 {
		t.Errorf("expected no availability entries, got %d", len(it.ShopAvailability))
	}
}

func TestSetAvailability_ReplacesExistingEntry(t *testing.T) {
	it := item.New("Milk", "Fridge", "")

	it.SetAvailability(item.ShopAvailability{ShopID: "s1", ShopCategory: "Dairy"})
	it.SetAvailability(item.ShopAvailability{ShopID: "s1", ShopCategory: "Chilled"})

	if len(it.ShopAvailability) != 1 {
		t.Fatalf("expected one entry per shop, got %d", len(it.ShopAvailability))
	}

	got, ok := it.AvailabilityFor("s1")
	if !ok {
		t.Fatal("expected availability entry for s1")
	}
	if got.ShopCategory != "Chilled" {
		t.Errorf("expected replaced category %q, got %q", "Chilled", got.ShopCategory)
	}
}

func TestRemoveAvailability(t *testing.T) {
	it := item.New("Milk", "Fridge", "")
	it.SetAvailability(item.ShopAvailability{ShopID: "s1", ShopCategory: "Dairy"})
	it.SetAvailability(item.ShopAvailability{ShopID: "s2"})

	if !it.RemoveAvailability("s1") {
		t.Error("expected removal of existing entry to report true")
	}
	if it.AvailableAt("s1") {
		t.Error("expected s1 entry to be gone")
	}
	if !it.AvailableAt("s2") {
		t.Error("expected s2 entry to survive")
	}

	if it.RemoveAvailability("s1") {
		t.Error("expected removal of absent entry to report false")
	}
}
