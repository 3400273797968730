package api

import "net/http"

type SelectionResponse struct {
	ItemIDs []string `json:"item_ids"`
}

// getSelection returns the ids of every item marked as needed.
// @Summary      Get the selection
// @Tags         Selection
// @Produce      json
// @Success      200  {object}  SelectionResponse
// @Router       /selection [get]
func (h *Handler) getSelection(w http.ResponseWriter, r *http.Request) {
	ids := h.store.Selection()
	if ids == nil {
		ids = []string{}
	}
	respondJSON(w, http.StatusOK, SelectionResponse{ItemIDs: ids})
}

// toggleSelection flips the needed flag for one item.
// @Summary      Toggle an item's selection
// @Tags         Selection
// @Produce      json
// @Param        itemID  path      string  true  "Item ID"
// @Success      200     {object}  map[string]bool
// @Router       /selection/{itemID}/toggle [post]
func (h *Handler) toggleSelection(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemID")
	h.store.ToggleItemSelection(itemID)
	respondJSON(w, http.StatusOK, map[string]bool{"selected": h.store.IsSelected(itemID)})
}

// selectItem marks an item as needed. Idempotent.
// @Summary      Select an item
// @Tags         Selection
// @Param        itemID  path  string  true  "Item ID"
// @Success      204
// @Router       /selection/{itemID} [put]
func (h *Handler) selectItem(w http.ResponseWriter, r *http.Request) {
	h.store.SelectItem(r.PathValue("itemID"))
	w.WriteHeader(http.StatusNoContent)
}

// deselectItem clears the needed flag. Idempotent.
// @Summary      Deselect an item
// @Tags         Selection
// @Param        itemID  path  string  true  "Item ID"
// @Success      204
// @Router       /selection/{itemID} [delete]
func (h *Handler) deselectItem(w http.ResponseWriter, r *http.Request) {
	h.store.DeselectItem(r.PathValue("itemID"))
	w.WriteHeader(http.StatusNoContent)
}
