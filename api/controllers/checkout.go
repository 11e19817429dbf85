package controllers

import (
	"net/http"

	"github.com/PrasannaVit-21/chummaOrder/api/responses"
	checkoutsvc "github.com/PrasannaVit-21/chummaOrder/internal/checkout"
	pkgerrors "github.com/PrasannaVit-21/chummaOrder/pkg/errors"
	"github.com/PrasannaVit-21/chummaOrder/pkg/logger"
)

// Checkout places an order from the caller's cart.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(*order))
	}
}
