package handler

import (
	"net/http"

	"github.com/sakif/coffee-finder/internal/auth"
	"github.com/sakif/coffee-finder/internal/service"
)

// FavoriteHandler serves favoriting. Its routes sit behind
// auth.RequireLogin or auth.RequireAuth, so a session is always present.
type FavoriteHandler struct {
	favorites *service.FavoriteService
}

func NewFavoriteHandler(favorites *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// HandleAdd favorites shop {id} for the current user and redirects home.
//
// HTTP: POST /favorite/{id}
func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeTextError(w, r, err)
		return
	}
	sess, _ := auth.SessionFromContext(r.Context())

	if _, err := h.favorites.Add(r.Context(), sess.UserID, id); err != nil {
		writeTextError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleList returns the current user's favorite shops.
//
// HTTP: GET /api/favorites
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())

	shops, err := h.favorites.List(r.Context(), sess.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shops)
}
