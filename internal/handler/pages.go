// Package handler contains the HTTP handlers: HTML pages, form posts that
// redirect, and the JSON API. Handlers parse the request, call a service and
// write the response; business rules live in the service package.
package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/sakif/coffee-finder/internal/auth"
	"github.com/sakif/coffee-finder/internal/model"
	"github.com/sakif/coffee-finder/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Pages.Render.
const (
	PageMap      = "map"
	PageLogin    = "login"
	PageAdmin    = "admin"
	PageEditShop = "edit_shop"
)

// pageData is the single view model shared by every page. Fields a page
// does not use stay zero.
type pageData struct {
	Title      string
	Email      string
	Admin      bool
	Error      string
	LoginEmail string
	GitHub     bool
	Shops      []model.Shop
	ShopID     int64
	Form       service.ShopForm
}

// Pages holds the parsed templates. Each page is parsed together with
// base.html, which wraps it via {{template "content" .}}, so every page gets
// its own template set.
type Pages struct {
	templates map[string]*template.Template
	logger    *slog.Logger
}

func NewPages(logger *slog.Logger) (*Pages, error) {
	pages := map[string][]string{
		PageMap:      {"templates/base.html", "templates/map.html"},
		PageLogin:    {"templates/base.html", "templates/login.html"},
		PageAdmin:    {"templates/base.html", "templates/shopfields.html", "templates/admin.html"},
		PageEditShop: {"templates/base.html", "templates/shopfields.html", "templates/edit_shop.html"},
	}

	p := &Pages{templates: make(map[string]*template.Template, len(pages)), logger: logger}
	for name, files := range pages {
		tmpl, err := template.ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing %s templates: %w", name, err)
		}
		p.templates[name] = tmpl
	}
	return p, nil
}

// Render executes page into a buffer first so a template error can still be
// answered with a clean 500.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	tmpl, ok := p.templates[page]
	if !ok {
		p.logger.Error("unknown page", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if sess, ok := auth.SessionFromContext(r.Context()); ok {
		data.Email = sess.Email
		data.Admin = sess.Admin
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		p.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// HandleMap serves the map page. The page itself loads shops from
// /api/shops.
func (p *Pages) HandleMap(w http.ResponseWriter, r *http.Request) {
	p.Render(w, r, http.StatusOK, PageMap, pageData{Title: "Coffee Finder"})
}
