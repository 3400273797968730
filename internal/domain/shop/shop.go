package shop

import "github.com/listkeeper/backend/internal/id"

// Shop is a store the user buys from. Categories is the user-ordered
// list of shop categories (aisles) used to sort that shop's view; a
// nil or empty list means no custom order has been established yet.
//
// Names may linger in Categories after the last item using them is
// gone. Such tombstones are harmless and let a reused category
// reappear in its old position.
type Shop struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Categories []string `yaml:"categories,omitempty" json:"categories,omitempty"`
}

// New creates a Shop with a generated ID and no custom category order.
func New(name string) *Shop {
	return &Shop{
		ID:   id.GenerateID(),
		Name: name,
	}
}
