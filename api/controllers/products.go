package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adbroadcast/website-backend/api/responses"
	"github.com/adbroadcast/website-backend/api/validators"
	"github.com/adbroadcast/website-backend/internal/catalog"
	"github.com/adbroadcast/website-backend/internal/storefront"
	"github.com/adbroadcast/website-backend/pkg/enums"
	pkgerrors "github.com/adbroadcast/website-backend/pkg/errors"
	"github.com/adbroadcast/website-backend/pkg/logger"
)

const (
	maxFilterLen = 128
	maxQueryLen  = 200
	maxPage      = 10000
)

// ListProducts serves one page of the filtered shop grid.
func ListProducts(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		priceMode, err := enums.ParsePriceMode(r.URL.Query().Get("price"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price filter").
				WithDetails(map[string]any{"field": "price", "allowed": []string{"priced", "request"}}))
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, maxPage)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		session := storefront.NewSession(store, nil)
		result := session.ApplyFilters(catalog.Criteria{
			Category:  validators.ParseQueryString(r, "category", maxFilterLen),
			Brand:     validators.ParseQueryString(r, "brand", maxFilterLen),
			PriceMode: priceMode,
			Query:     validators.ParseQueryString(r, "q", maxQueryLen),
		})
		if page != 1 {
			if result, err = session.GoToPage(page); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, result)
	}
}

// ProductFilters returns the category and brand dropdown values.
func ProductFilters(store *catalog.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.Options())
	}
}

// GetProduct returns one product for the detail modal.
func GetProduct(store *catalog.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
		if err != nil || id < 0 {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}
		product, ok := store.Product(id)
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}
