package handler

import (
	"net/http"

	"github.com/sakif/coffee-finder/internal/service"
)

// ShopHandler serves the public shop API.
type ShopHandler struct {
	shops *service.ShopService
}

func NewShopHandler(shops *service.ShopService) *ShopHandler {
	return &ShopHandler{shops: shops}
}

// HandleList returns every shop, or those matching ?q= by name or address.
//
// HTTP: GET /api/shops?q=cafe
func (h *ShopHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	shops, err := h.shops.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shops)
}

// HandleGet returns one shop.
//
// HTTP: GET /api/shops/{id}
func (h *ShopHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	shop, err := h.shops.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shop)
}
