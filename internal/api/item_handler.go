package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/listkeeper/backend/internal/domain/item"
	"github.com/listkeeper/backend/internal/state"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateItemRequest struct {
	Name         string `json:"name" example:"Milk"`
	HomeCategory string `json:"home_category" example:"Fridge"`
	Notes        string `json:"notes,omitempty" example:"semi-skimmed"`
}

func (r *CreateItemRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.HomeCategory) == "" {
		return errors.New("home_category is required")
	}
	return nil
}

type UpdateItemRequest struct {
	Name         *string `json:"name,omitempty" example:"Oat milk"`
	HomeCategory *string `json:"home_category,omitempty" example:"Pantry"`
	Notes        *string `json:"notes,omitempty" example:""`
}

type ItemResponse struct {
	ID               string                  `json:"id"`
	Name             string                  `json:"name"`
	HomeCategory     string                  `json:"home_category"`
	Notes            string                  `json:"notes,omitempty"`
	ShopAvailability []item.ShopAvailability `json:"shop_availability"`
	Selected         bool                    `json:"selected"`
}

type SetAvailabilityRequest struct {
	Category string `json:"category" example:"Dairy"`
}

func (h *Handler) itemResponse(it item.Item) ItemResponse {
	return ItemResponse{
		ID:               it.ID,
		Name:             it.Name,
		HomeCategory:     it.HomeCategory,
		Notes:            it.Notes,
		ShopAvailability: it.ShopAvailability,
		Selected:         h.store.IsSelected(it.ID),
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createItem adds a catalog item.
// @Summary      Create an item
// @Description  Add an item to the catalog. New items are selected automatically.
// @Tags         Items
// @Accept       json
// @Produce      json
// @Param        body  body      CreateItemRequest  true  "Item to create"
// @Success      201   {object}  ItemResponse
// @Failure      400   {object}  map[string]string
// @Router       /items [post]
func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	it, ok := h.store.AddItem(req.Name, req.HomeCategory, req.Notes)
	if !ok {
		respondError(w, http.StatusBadRequest, "name and home_category are required")
		return
	}

	respondJSON(w, http.StatusCreated, h.itemResponse(it))
}

// listItems lists the whole catalog.
// @Summary      List items
// @Tags         Items
// @Produce      json
// @Success      200  {array}  ItemResponse
// @Router       /items [get]
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items := h.store.Items()
	response := make([]ItemResponse, len(items))
	for i, it := range items {
		response[i] = h.itemResponse(it)
	}
	respondJSON(w, http.StatusOK, response)
}

// getItem returns one item by id.
// @Summary      Get an item
// @Tags         Items
// @Produce      json
// @Param        itemID  path      string  true  "Item ID"
// @Success      200     {object}  ItemResponse
// @Failure      404     {object}  map[string]string
// @Router       /items/{itemID} [get]
func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	it, ok := h.store.ItemByID(r.PathValue("itemID"))
	if !ok {
		respondError(w, http.StatusNotFound, "item not found")
		return
	}
	respondJSON(w, http.StatusOK, h.itemResponse(it))
}

// updateItem merges a partial edit into an item. Editing an unknown id
// is accepted and does nothing; the UI may hold a stale reference.
// @Summary      Update an item
// @Tags         Items
// @Accept       json
// @Produce      json
// @Param        itemID  path      string             true  "Item ID"
// @Param        body    body      UpdateItemRequest  true  "Fields to change"
// @Success      200     {object}  map[string]bool
// @Failure      400     {object}  map[string]string
// @Router       /items/{itemID} [patch]
func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated := h.store.UpdateItem(r.PathValue("itemID"), state.ItemUpdate{
		Name:         req.Name,
		HomeCategory: req.HomeCategory,
		Notes:        req.Notes,
	})
	respondJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

// deleteItem removes an item and its selection entry.
// @Summary      Delete an item
// @Tags         Items
// @Param        itemID  path  string  true  "Item ID"
// @Success      204
// @Router       /items/{itemID} [delete]
func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteItem(r.PathValue("itemID"))
	w.WriteHeader(http.StatusNoContent)
}

// setItemShopAvailability assigns an item to a shop under a category.
// An empty category files the item under Uncategorized.
// @Summary      Set shop availability
// @Tags         Items
// @Accept       json
// @Param        itemID  path  string                  true  "Item ID"
// @Param        shopID  path  string                  true  "Shop ID"
// @Param        body    body  SetAvailabilityRequest  true  "Shop category"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Router       /items/{itemID}/shops/{shopID} [put]
func (h *Handler) setItemShopAvailability(w http.ResponseWriter, r *http.Request) {
	var req SetAvailabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	h.store.SetItemShopAvailability(r.PathValue("itemID"), r.PathValue("shopID"), req.Category)
	w.WriteHeader(http.StatusNoContent)
}

// removeItemFromShop drops an item's availability entry for a shop.
// @Summary      Remove shop availability
// @Tags         Items
// @Param        itemID  path  string  true  "Item ID"
// @Param        shopID  path  string  true  "Shop ID"
// @Success      204
// @Router       /items/{itemID}/shops/{shopID} [delete]
func (h *Handler) removeItemFromShop(w http.ResponseWriter, r *http.Request) {
	h.store.RemoveItemFromShop(r.PathValue("itemID"), r.PathValue("shopID"))
	w.WriteHeader(http.StatusNoContent)
}
