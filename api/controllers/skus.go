package controllers

import (
	"math"
	"net/http"

	"github.com/angelmondragon/mystore/api/responses"
	"github.com/angelmondragon/mystore/api/validators"
	skusvc "github.com/angelmondragon/mystore/internal/skus"
	pkgerrors "github.com/angelmondragon/mystore/pkg/errors"
	"github.com/angelmondragon/mystore/pkg/logger"
	"github.com/angelmondragon/mystore/pkg/storeapi"
)

// ListSKUs answers GET /api/skus, optionally filtered by ?productId=.
func ListSKUs(svc skusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sku service unavailable"))
			return
		}

		productID, err := validators.ParseQueryInt(r, "productId", 0, 0, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		skus, err := svc.List(r.Context(), int64(productID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, skus)
	}
}

func CreateSKU(svc skusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sku service unavailable"))
			return
		}

		var payload storeapi.CreateSKURequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sku, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, sku)
	}
}
