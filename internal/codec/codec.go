// Package codec translates between the in-memory aggregate and its
// on-disk YAML form. Decoding normalizes recognized legacy shapes into
// the canonical one before structural validation, so older files keep
// loading; encoding always emits the canonical shape.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/listkeeper/backend/internal/domain/item"
	"github.com/listkeeper/backend/internal/domain/shop"
	"github.com/listkeeper/backend/internal/state"
)

// ErrInvalid marks structural validation failures. The wrapped message
// names the offending entry; callers surface it verbatim and must not
// have mutated any state yet.
var ErrInvalid = errors.New("invalid document")

// document is the canonical on-disk shape.
type document struct {
	Items          []item.Item `yaml:"items"`
	Shops          []shop.Shop `yaml:"shops"`
	Selection      []string    `yaml:"selection"`
	HomeCategories []string    `yaml:"homeCategories,omitempty"`
}

// Encode serializes the aggregate to YAML.
func Encode(doc state.Document) (string, error) {
	out := document{
		Items:          doc.Items,
		Shops:          doc.Shops,
		Selection:      doc.Selection,
		HomeCategories: doc.HomeCategories,
	}
	if out.Items == nil {
		out.Items = []item.Item{}
	}
	if out.Shops == nil {
		out.Shops = []shop.Shop{}
	}
	if out.Selection == nil {
		out.Selection = []string{}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return buf.String(), nil
}

// Decode parses and validates a YAML document. It fails fast with a
// descriptive error and never returns a partially valid aggregate.
func Decode(text string) (state.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return state.Document{}, fmt.Errorf("parse document: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return state.Document{}, fmt.Errorf("%w: root must be a mapping", ErrInvalid)
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return state.Document{}, fmt.Errorf("%w: root must be a mapping", ErrInvalid)
	}

	var raw rawDocument
	if err := mapping.Decode(&raw); err != nil {
		return state.Document{}, fmt.Errorf("parse document: %w", err)
	}

	items, err := decodeItems(raw.Items)
	if err != nil {
		return state.Document{}, err
	}
	shops, err := decodeShops(raw.Shops)
	if err != nil {
		return state.Document{}, err
	}

	homeCategories := []string(raw.HomeCategories)
	if homeCategories == nil {
		// Legacy files stored the home order as {name, order} pairs
		// under a different key.
		homeCategories = []string(raw.HomeCategoryOrder)
	}

	return state.Document{
		Items:          items,
		Shops:          shops,
		Selection:      raw.Selection,
		HomeCategories: homeCategories,
	}, nil
}

// rawDocument defers items and shops to node-level decoding so that
// structural errors carry entry positions, and routes the
// shape-shifting fields through the migrating list types.
type rawDocument struct {
	Items             yaml.Node     `yaml:"items"`
	Shops             yaml.Node     `yaml:"shops"`
	Selection         selectionList `yaml:"selection"`
	HomeCategories    categoryList  `yaml:"homeCategories"`
	HomeCategoryOrder categoryList  `yaml:"homeCategoryOrder"`
}

func decodeItems(node yaml.Node) ([]item.Item, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: items must be a sequence", ErrInvalid)
	}

	items := make([]item.Item, 0, len(node.Content))
	for i, entry := range node.Content {
		var raw struct {
			ID               string    `yaml:"id"`
			Name             string    `yaml:"name"`
			HomeCategory     string    `yaml:"homeCategory"`
			Notes            string    `yaml:"notes"`
			ShopAvailability yaml.Node `yaml:"shopAvailability"`
		}
		if entry.Kind != yaml.MappingNode || entry.Decode(&raw) != nil {
			return nil, fmt.Errorf("%w: item at index %d: must be a mapping", ErrInvalid, i)
		}
		if raw.ID == "" {
			return nil, fmt.Errorf("%w: item at index %d: id is required", ErrInvalid, i)
		}
		if raw.Name == "" {
			return nil, fmt.Errorf("%w: item at index %d: name is required", ErrInvalid, i)
		}
		if raw.HomeCategory == "" {
			return nil, fmt.Errorf("%w: item at index %d: homeCategory is required", ErrInvalid, i)
		}

		availability, err := decodeAvailability(raw.ShopAvailability, i)
		if err != nil {
			return nil, err
		}

		items = append(items, item.Item{
			ID:               raw.ID,
			Name:             raw.Name,
			HomeCategory:     raw.HomeCategory,
			Notes:            raw.Notes,
			ShopAvailability: availability,
		})
	}
	return items, nil
}

func decodeAvailability(node yaml.Node, itemIndex int) ([]item.ShopAvailability, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: item at index %d: shopAvailability must be a sequence", ErrInvalid, itemIndex)
	}

	entries := make([]item.ShopAvailability, 0, len(node.Content))
	for j, entry := range node.Content {
		var a item.ShopAvailability
		if entry.Decode(&a) != nil {
			return nil, fmt.Errorf("%w: item at index %d: shopAvailability at index %d: must be a mapping", ErrInvalid, itemIndex, j)
		}
		if a.ShopID == "" {
			return nil, fmt.Errorf("%w: item at index %d: shopAvailability at index %d: shopId is required", ErrInvalid, itemIndex, j)
		}
		entries = append(entries, a)
	}
	return entries, nil
}

func decodeShops(node yaml.Node) ([]shop.Shop, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: shops must be a sequence", ErrInvalid)
	}

	shops := make([]shop.Shop, 0, len(node.Content))
	for i, entry := range node.Content {
		var raw struct {
			ID            string       `yaml:"id"`
			Name          string       `yaml:"name"`
			Categories    categoryList `yaml:"categories"`
			CategoryOrder categoryList `yaml:"categoryOrder"`
		}
		if entry.Kind != yaml.MappingNode || entry.Decode(&raw) != nil {
			return nil, fmt.Errorf("%w: shop at index %d: must be a mapping", ErrInvalid, i)
		}
		if raw.ID == "" {
			return nil, fmt.Errorf("%w: shop at index %d: id is required", ErrInvalid, i)
		}
		if raw.Name == "" {
			return nil, fmt.Errorf("%w: shop at index %d: name is required", ErrInvalid, i)
		}

		order := []string(raw.Categories)
		if order == nil {
			order = []string(raw.CategoryOrder)
		}

		shops = append(shops, shop.Shop{
			ID:         raw.ID,
			Name:       raw.Name,
			Categories: order,
		})
	}
	return shops, nil
}
