package controllers

import (
	"net/http"

	"github.com/angelmondragon/crewstock-backend/api/responses"
	"github.com/angelmondragon/crewstock-backend/api/validators"
	"github.com/angelmondragon/crewstock-backend/internal/locations"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
	"github.com/angelmondragon/crewstock-backend/pkg/logger"
)

type locationNameRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

func ListLocations(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}
		rows, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, locations.FromModels(rows))
	}
}

func CreateLocation(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}
		var req locationNameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		location, err := svc.Create(r.Context(), req.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, locations.FromModel(location))
	}
}

func RenameLocation(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req locationNameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		location, err := svc.Rename(r.Context(), id, req.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, locations.FromModel(location))
	}
}

// RemoveLocation soft-deletes a location. Items keep pointing at it and fall
// into the "No location" group on the next listing.
func RemoveLocation(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "locationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "removed": true})
	}
}
