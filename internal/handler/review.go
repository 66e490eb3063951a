package handler

import (
	"net/http"

	"github.com/sakif/coffee-finder/internal/auth"
	"github.com/sakif/coffee-finder/internal/service"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// HandleAdd stores a review of shop {id} by the current user.
//
// HTTP: POST /review/{id}   form: rating, comment
func (h *ReviewHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeTextError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	sess, _ := auth.SessionFromContext(r.Context())

	_, err = h.reviews.Add(r.Context(), sess.UserID, id, r.PostFormValue("rating"), r.PostFormValue("comment"))
	if err != nil {
		writeTextError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleList returns the reviews of shop {id}, newest first.
//
// HTTP: GET /api/reviews/{id}
func (h *ReviewHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	reviews, err := h.reviews.List(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
