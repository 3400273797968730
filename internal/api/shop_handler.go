package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/listkeeper/backend/internal/domain/shop"
)

type CreateShopRequest struct {
	Name string `json:"name" example:"Co-op"`
}

func (r *CreateShopRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type UpdateShopRequest struct {
	Name string `json:"name" example:"Corner shop"`
}

func (r *UpdateShopRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type ShopResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

func shopResponse(sh shop.Shop) ShopResponse {
	return ShopResponse{
		ID:         sh.ID,
		Name:       sh.Name,
		Categories: sh.Categories,
	}
}

// createShop adds a shop with an empty category order.
// @Summary      Create a shop
// @Tags         Shops
// @Accept       json
// @Produce      json
// @Param        body  body      CreateShopRequest  true  "Shop to create"
// @Success      201   {object}  ShopResponse
// @Failure      400   {object}  map[string]string
// @Router       /shops [post]
func (h *Handler) createShop(w http.ResponseWriter, r *http.Request) {
	var req CreateShopRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sh, ok := h.store.AddShop(req.Name)
	if !ok {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	respondJSON(w, http.StatusCreated, shopResponse(sh))
}

// listShops lists all shops.
// @Summary      List shops
// @Tags         Shops
// @Produce      json
// @Success      200  {array}  ShopResponse
// @Router       /shops [get]
func (h *Handler) listShops(w http.ResponseWriter, r *http.Request) {
	shops := h.store.Shops()
	response := make([]ShopResponse, len(shops))
	for i, sh := range shops {
		response[i] = shopResponse(sh)
	}
	respondJSON(w, http.StatusOK, response)
}

// getShop returns one shop by id.
// @Summary      Get a shop
// @Tags         Shops
// @Produce      json
// @Param        shopID  path      string  true  "Shop ID"
// @Success      200     {object}  ShopResponse
// @Failure      404     {object}  map[string]string
// @Router       /shops/{shopID} [get]
func (h *Handler) getShop(w http.ResponseWriter, r *http.Request) {
	sh, ok := h.store.ShopByID(r.PathValue("shopID"))
	if !ok {
		respondError(w, http.StatusNotFound, "shop not found")
		return
	}
	respondJSON(w, http.StatusOK, shopResponse(sh))
}

// updateShop renames a shop. Renaming an unknown id does nothing.
// @Summary      Rename a shop
// @Tags         Shops
// @Accept       json
// @Produce      json
// @Param        shopID  path      string             true  "Shop ID"
// @Param        body    body      UpdateShopRequest  true  "New name"
// @Success      200     {object}  map[string]bool
// @Failure      400     {object}  map[string]string
// @Router       /shops/{shopID} [patch]
func (h *Handler) updateShop(w http.ResponseWriter, r *http.Request) {
	var req UpdateShopRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	updated := h.store.UpdateShop(r.PathValue("shopID"), req.Name)
	respondJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

// deleteShop removes a shop; every item loses its availability entry
// for it.
// @Summary      Delete a shop
// @Tags         Shops
// @Param        shopID  path  string  true  "Shop ID"
// @Success      204
// @Router       /shops/{shopID} [delete]
func (h *Handler) deleteShop(w http.ResponseWriter, r *http.Request) {
	h.store.DeleteShop(r.PathValue("shopID"))
	w.WriteHeader(http.StatusNoContent)
}
