package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/api/responses"
	"github.com/angelmondragon/crewstock-backend/api/validators"
	"github.com/angelmondragon/crewstock-backend/internal/export"
	"github.com/angelmondragon/crewstock-backend/internal/inventory"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
	"github.com/angelmondragon/crewstock-backend/pkg/logger"
	"github.com/angelmondragon/crewstock-backend/pkg/types"
)

type createItemRequest struct {
	Name       *string    `json:"name" validate:"omitempty,max=200"`
	Qty        *int       `json:"qty"`
	LocationID *uuid.UUID `json:"location_id"`
}

type updateItemNameRequest struct {
	Name *string `json:"name" validate:"required,max=200"`
}

type updateItemQtyRequest struct {
	Qty *int `json:"qty" validate:"required,gte=0,max=9007199254740991"`
}

type updateItemLocationRequest struct {
	LocationID types.NullableUUID `json:"location_id"`
}

// ListInventory returns the caller's grouped view of active items.
func ListInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := listForCaller(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ExportInventory renders the same grouped view as an xlsx download.
func ExportInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := listForCaller(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload, err := export.Workbook(result)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render inventory export"))
			return
		}
		responses.WriteFile(w, export.ContentType, export.Filename(time.Now()), payload)
	}
}

func listForCaller(r *http.Request, svc inventory.Service) (*inventory.ListResult, error) {
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable")
	}
	who, err := callerFromRequest(r)
	if err != nil {
		return nil, err
	}
	location, err := inventory.ParseLocationFilter(r.URL.Query().Get("location"))
	if err != nil {
		return nil, err
	}
	return svc.List(r.Context(), inventory.ListParams{
		UserID: who.UserID,
		Filter: inventory.Filter{
			Search:   validators.ParseSearch(r, "search"),
			Location: location,
		},
	})
}

func CreateInventoryItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), editorFor(who), inventory.CreateInput{
			Name:       req.Name,
			Qty:        req.Qty,
			LocationID: req.LocationID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func UpdateInventoryItemName(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return itemMutation(svc, logg, func(r *http.Request, editor inventory.Editor, id uuid.UUID) (*inventory.ItemDTO, error) {
		var req updateItemNameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return svc.UpdateName(r.Context(), editor, id, *req.Name)
	})
}

func UpdateInventoryItemQty(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return itemMutation(svc, logg, func(r *http.Request, editor inventory.Editor, id uuid.UUID) (*inventory.ItemDTO, error) {
		var req updateItemQtyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return svc.UpdateQty(r.Context(), editor, id, *req.Qty)
	})
}

// UpdateInventoryItemLocation moves an item; an explicit null location_id clears it.
func UpdateInventoryItemLocation(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return itemMutation(svc, logg, func(r *http.Request, editor inventory.Editor, id uuid.UUID) (*inventory.ItemDTO, error) {
		var req updateItemLocationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		if !req.LocationID.Set {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
				WithDetails(map[string]string{"location_id": "is required (null clears the location)"})
		}
		return svc.UpdateLocation(r.Context(), editor, id, req.LocationID.ID)
	})
}

func RemoveInventoryItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), editorFor(who), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "removed": true})
	}
}

type itemMutator func(r *http.Request, editor inventory.Editor, id uuid.UUID) (*inventory.ItemDTO, error)

func itemMutation(svc inventory.Service, logg *logger.Logger, apply itemMutator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := apply(r, editorFor(who), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func editorFor(who caller) inventory.Editor {
	return inventory.Editor{UserID: who.UserID, Email: who.Email, Name: who.Name}
}
