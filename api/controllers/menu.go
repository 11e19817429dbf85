package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/PrasannaVit-21/chummaOrder/api/responses"
	menusvc "github.com/PrasannaVit-21/chummaOrder/internal/menu"
	pkgerrors "github.com/PrasannaVit-21/chummaOrder/pkg/errors"
	"github.com/PrasannaVit-21/chummaOrder/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// MenuList serves the browsable menu: in-stock items sorted by name,
// optionally narrowed by search text and category.
func MenuList(svc menusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		filters := menusvc.ListFilters{
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
		}

		items, err := svc.ListAvailable(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newMenuListResponse(items))
	}
}

// MenuCategories serves the distinct category names for the filter bar.
func MenuCategories(svc menusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}

// MenuDetail serves a single menu item.
func MenuDetail(svc menusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "menuItemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid menu item id"))
			return
		}

		item, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newMenuItemResponse(*item))
	}
}
