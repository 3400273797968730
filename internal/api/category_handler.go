package api

import (
	"errors"
	"net/http"
	"strings"
)

type MoveCategoryRequest struct {
	Name      string `json:"name" example:"Dairy"`
	Direction string `json:"direction" enums:"up,down" example:"up"`
}

func (r *MoveCategoryRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Direction != "up" && r.Direction != "down" {
		return errors.New(`direction must be "up" or "down"`)
	}
	return nil
}

// homeView returns items grouped by home category in the user's order.
// @Summary      Home view
// @Description  Items bucketed by home category, in the user-chosen order.
// @Tags         Views
// @Produce      json
// @Success      200  {array}  categories.Group
// @Router       /home [get]
func (h *Handler) homeView(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.GroupedHome())
}

// shopView returns items grouped by shop category for one shop.
// With ?selected=true only the items currently marked as needed are
// included, which is the in-store shopping mode.
// @Summary      Shop view
// @Tags         Views
// @Produce      json
// @Param        shopID    path      string  true   "Shop ID"
// @Param        selected  query     bool    false  "Only selected items"
// @Success      200       {array}   categories.Group
// @Failure      404       {object}  map[string]string
// @Router       /shops/{shopID}/view [get]
func (h *Handler) shopView(w http.ResponseWriter, r *http.Request) {
	selectedOnly := r.URL.Query().Get("selected") == "true"

	groups, ok := h.store.GroupedShop(r.PathValue("shopID"), selectedOnly)
	if !ok {
		respondError(w, http.StatusNotFound, "shop not found")
		return
	}
	respondJSON(w, http.StatusOK, groups)
}

// listHomeCategories returns the home category order.
// @Summary      List home categories
// @Tags         Categories
// @Produce      json
// @Success      200  {array}  string
// @Router       /categories [get]
func (h *Handler) listHomeCategories(w http.ResponseWriter, r *http.Request) {
	names := h.store.HomeCategories()
	if names == nil {
		names = []string{}
	}
	respondJSON(w, http.StatusOK, names)
}

// moveHomeCategory swaps a home category with its neighbour. Moving
// past either end, or a name not in the order, does nothing.
// @Summary      Reorder a home category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Param        body  body      MoveCategoryRequest  true  "Category and direction"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Router       /categories/move [post]
func (h *Handler) moveHomeCategory(w http.ResponseWriter, r *http.Request) {
	var req MoveCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var moved bool
	if req.Direction == "up" {
		moved = h.store.MoveHomeCategoryUp(req.Name)
	} else {
		moved = h.store.MoveHomeCategoryDown(req.Name)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}

// moveShopCategory swaps a category with its neighbour in one shop's
// order.
// @Summary      Reorder a shop category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Param        shopID  path      string               true  "Shop ID"
// @Param        body    body      MoveCategoryRequest  true  "Category and direction"
// @Success      200     {object}  map[string]bool
// @Failure      400     {object}  map[string]string
// @Router       /shops/{shopID}/categories/move [post]
func (h *Handler) moveShopCategory(w http.ResponseWriter, r *http.Request) {
	var req MoveCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	shopID := r.PathValue("shopID")
	var moved bool
	if req.Direction == "up" {
		moved = h.store.MoveShopCategoryUp(shopID, req.Name)
	} else {
		moved = h.store.MoveShopCategoryDown(shopID, req.Name)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}
