package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/api/responses"
	"github.com/angelmondragon/crewstock-backend/api/validators"
	"github.com/angelmondragon/crewstock-backend/internal/locationorders"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
	"github.com/angelmondragon/crewstock-backend/pkg/logger"
)

type upsertOrderRequest struct {
	Order *int `json:"order" validate:"required,min=-9007199254740991,max=9007199254740991"`
}

type replaceOrdersRequest struct {
	LocationIDs []uuid.UUID `json:"location_ids" validate:"required"`
}

func ListLocationOrders(svc locationorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location orders service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListLocationsWithOrders(r.Context(), who.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// UpsertLocationOrder sets the caller's order for one location. Negative values are accepted.
func UpsertLocationOrder(svc locationorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location orders service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		locationID, err := validators.ParseUUIDParam(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req upsertOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := svc.Upsert(r.Context(), who.UserID, locationID, *req.Order)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"id":          id,
			"location_id": locationID,
			"order":       *req.Order,
		})
	}
}

func RemoveLocationOrder(svc locationorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location orders service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		locationID, err := validators.ParseUUIDParam(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), who.UserID, locationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"location_id": locationID, "removed": true})
	}
}

// ReplaceLocationOrders assigns positions 0..n-1 to the submitted ids and
// returns the refreshed listing.
func ReplaceLocationOrders(svc locationorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "location orders service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req replaceOrdersRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ApplyReorder(r.Context(), who.UserID, req.LocationIDs); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListLocationsWithOrders(r.Context(), who.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
