package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/PrasannaVit-21/chummaOrder/api/responses"
	"github.com/PrasannaVit-21/chummaOrder/api/validators"
	sessionpkg "github.com/PrasannaVit-21/chummaOrder/internal/session"
	pkgerrors "github.com/PrasannaVit-21/chummaOrder/pkg/errors"
	"github.com/PrasannaVit-21/chummaOrder/pkg/logger"
	"github.com/PrasannaVit-21/chummaOrder/pkg/types"
	"github.com/go-chi/chi/v5"
)

type sessionStateResponse struct {
	Menu             []menuItemResponse `json:"menu"`
	Cart             cartResponse       `json:"cart"`
	Orders           []orderResponse    `json:"orders"`
	Toasts           []sessionpkg.Toast `json:"toasts"`
	CartOpen         bool               `json:"cart_open"`
	CartCount        int                `json:"cart_count"`
	CartTotalPaise   int                `json:"cart_total_paise"`
	CartTotalDisplay string             `json:"cart_total_display"`
}

func newSessionStateResponse(state sessionpkg.State) sessionStateResponse {
	total := sessionpkg.CartTotalPaise(state.Cart)
	return sessionStateResponse{
		Menu:             newMenuListResponse(state.Menu),
		Cart:             newCartResponse(state.Cart),
		Orders:           newOrderListResponse(state.Orders),
		Toasts:           state.Toasts,
		CartOpen:         state.CartOpen,
		CartCount:        sessionpkg.CartCount(state.Cart),
		CartTotalPaise:   total,
		CartTotalDisplay: types.FormatRupees(total),
	}
}

// SessionState serves a snapshot of the caller's live session, creating
// and hydrating the session on first use.
func SessionState(hub *sessionpkg.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionForRequest(hub, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := sess.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading session state"))
			return
		}
		if len(state.Menu) == 0 && len(state.Cart) == 0 && len(state.Orders) == 0 {
			if err := sess.Refresh(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "hydrating session"))
				return
			}
			if state, err = sess.Snapshot(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading session state"))
				return
			}
		}

		responses.WriteSuccess(w, newSessionStateResponse(state))
	}
}

// SessionRefresh reloads the caller's session from the database.
func SessionRefresh(hub *sessionpkg.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionForRequest(hub, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refreshing session"))
			return
		}

		state, err := sess.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading session state"))
			return
		}

		responses.WriteSuccess(w, newSessionStateResponse(state))
	}
}

type setCartOpenRequest struct {
	Open bool `json:"open"`
}

// SessionSetCartOpen toggles the cart drawer flag on the session.
func SessionSetCartOpen(hub *sessionpkg.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionForRequest(hub, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setCartOpenRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess.SetCartOpen(payload.Open)
		responses.WriteSuccess(w, map[string]bool{"cart_open": payload.Open})
	}
}

// SessionDismissToast removes a toast from the session.
func SessionDismissToast(hub *sessionpkg.Hub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessionForRequest(hub, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		toastID, err := uuid.Parse(chi.URLParam(r, "toastId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid toast id"))
			return
		}

		sess.DismissToast(toastID)
		responses.WriteSuccess(w, map[string]string{"status": "dismissed"})
	}
}

func sessionForRequest(hub *sessionpkg.Hub, r *http.Request) (*sessionpkg.Session, error) {
	if hub == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session hub unavailable")
	}
	userID, err := requireUserID(r)
	if err != nil {
		return nil, err
	}
	sess := hub.Get(userID)
	if sess == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session hub shutting down")
	}
	return sess, nil
}
