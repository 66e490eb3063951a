package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sakif/coffee-finder/internal/apperror"
	"github.com/sakif/coffee-finder/internal/model"
	"github.com/sakif/coffee-finder/internal/service"
)

// AdminHandler serves the shop management forms. Its routes sit behind
// auth.RequireAdmin.
type AdminHandler struct {
	shops *service.ShopService
	pages *Pages
}

func NewAdminHandler(shops *service.ShopService, pages *Pages) *AdminHandler {
	return &AdminHandler{shops: shops, pages: pages}
}

// HandleIndex lists all shops with the add form.
//
// HTTP: GET /admin
func (h *AdminHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, http.StatusOK, service.ShopForm{}, "")
}

// HandleAdd creates a shop. An invalid form re-renders the page with the
// error and status 400.
//
// HTTP: POST /admin/add
func (h *AdminHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	form, ok := readShopForm(w, r)
	if !ok {
		return
	}

	if _, err := h.shops.Create(r.Context(), form); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.renderIndex(w, r, http.StatusBadRequest, form, err.Error())
			return
		}
		writeTextError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// HandleEditPage renders the edit form for shop {id}.
//
// HTTP: GET /admin/edit/{id}
func (h *AdminHandler) HandleEditPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeTextError(w, r, err)
		return
	}

	shop, err := h.shops.Get(r.Context(), id)
	if err != nil {
		writeTextError(w, r, err)
		return
	}

	h.pages.Render(w, r, http.StatusOK, PageEditShop, pageData{
		Title:  "Edit " + shop.Name,
		ShopID: shop.ID,
		Form:   formFromShop(shop),
	})
}

// HandleEdit overwrites shop {id}: 404 when it does not exist, 400 with the
// form re-rendered when the input is invalid.
//
// HTTP: POST /admin/edit/{id}
func (h *AdminHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeTextError(w, r, err)
		return
	}
	form, ok := readShopForm(w, r)
	if !ok {
		return
	}

	if _, err := h.shops.Get(r.Context(), id); err != nil {
		writeTextError(w, r, err)
		return
	}

	if _, err := h.shops.Update(r.Context(), id, form); err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.pages.Render(w, r, http.StatusBadRequest, PageEditShop, pageData{
				Title:  "Edit shop",
				ShopID: id,
				Form:   form,
				Error:  err.Error(),
			})
			return
		}
		writeTextError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// HandleDelete removes shop {id} whether or not it exists.
//
// HTTP: POST /admin/delete/{id}
func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeTextError(w, r, err)
		return
	}

	if err := h.shops.Delete(r.Context(), id); err != nil {
		writeTextError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) renderIndex(w http.ResponseWriter, r *http.Request, status int, form service.ShopForm, msg string) {
	shops, err := h.shops.List(r.Context())
	if err != nil {
		writeTextError(w, r, err)
		return
	}
	h.pages.Render(w, r, status, PageAdmin, pageData{
		Title: "Manage shops",
		Shops: shops,
		Form:  form,
		Error: msg,
	})
}

func readShopForm(w http.ResponseWriter, r *http.Request) (service.ShopForm, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return service.ShopForm{}, false
	}
	return service.ShopForm{
		Name:        r.PostFormValue("name"),
		Address:     r.PostFormValue("address"),
		Lat:         r.PostFormValue("lat"),
		Lon:         r.PostFormValue("lon"),
		Description: r.PostFormValue("description"),
		Link:        r.PostFormValue("link"),
	}, true
}

func formFromShop(shop *model.Shop) service.ShopForm {
	return service.ShopForm{
		Name:        shop.Name,
		Address:     shop.Address,
		Lat:         strconv.FormatFloat(shop.Lat, 'f', -1, 64),
		Lon:         strconv.FormatFloat(shop.Lon, 'f', -1, 64),
		Description: shop.Description,
		Link:        shop.Link,
	}
}
