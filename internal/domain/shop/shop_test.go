package shop_test

import (
	"testing"

	"github.com/listkeeper/backend/internal/domain/shop"
)

func TestNewShop(t *testing.T) {
	s := shop.New("Co-op")

	if s.Name != "Co-op" {
		t.Errorf("expected name %q, got %q", "Co-op", s.Name)
	}
	if s.ID == "" {
		t.Error("expected non-empty ID")
	}
	if s.Categories != nil {
		t.Error("expected no custom category order on a new shop")
	}
}

func TestNewShop_UniqueIDs(t *testing.T) {
	a := shop.New("A")
	b := shop.New("B")

	if a.ID == b.ID {
		t.Error("expected different IDs for different shops")
	}
}
