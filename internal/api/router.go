package api

import "net/http"

// RegisterRoutes mounts every API endpoint on mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Items
	mux.HandleFunc("POST /items", h.createItem)
	mux.HandleFunc("GET /items", h.listItems)
	mux.HandleFunc("GET /items/{itemID}", h.getItem)
	mux.HandleFunc("PATCH /items/{itemID}", h.updateItem)
	mux.HandleFunc("DELETE /items/{itemID}", h.deleteItem)

	// Shop availability, owned by the item
	mux.HandleFunc("PUT /items/{itemID}/shops/{shopID}", h.setItemShopAvailability)
	mux.HandleFunc("DELETE /items/{itemID}/shops/{shopID}", h.removeItemFromShop)

	// Shops
	mux.HandleFunc("POST /shops", h.createShop)
	mux.HandleFunc("GET /shops", h.listShops)
	mux.HandleFunc("GET /shops/{shopID}", h.getShop)
	mux.HandleFunc("PATCH /shops/{shopID}", h.updateShop)
	mux.HandleFunc("DELETE /shops/{shopID}", h.deleteShop)

	// Grouped views
	mux.HandleFunc("GET /home", h.homeView)
	mux.HandleFunc("GET /shops/{shopID}/view", h.shopView)

	// Category ordering
	mux.HandleFunc("GET /categories", h.listHomeCategories)
	mux.HandleFunc("POST /categories/move", h.moveHomeCategory)
	mux.HandleFunc("POST /shops/{shopID}/categories/move", h.moveShopCategory)

	// Selection
	mux.HandleFunc("GET /selection", h.getSelection)
	mux.HandleFunc("POST /selection/{itemID}/toggle", h.toggleSelection)
	mux.HandleFunc("PUT /selection/{itemID}", h.selectItem)
	mux.HandleFunc("DELETE /selection/{itemID}", h.deselectItem)

	// Document lifecycle
	mux.HandleFunc("GET /document", h.documentStatus)
	mux.HandleFunc("POST /document/open", h.openDocument)
	mux.HandleFunc("POST /document/new", h.createDocument)
	mux.HandleFunc("POST /document/save", h.saveDocument)
	mux.HandleFunc("GET /document/recent", h.recentDocuments)
}
