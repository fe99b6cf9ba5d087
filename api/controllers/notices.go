package controllers

import (
	"net/http"

	"github.com/angelmondragon/crewstock-backend/api/responses"
	"github.com/angelmondragon/crewstock-backend/api/validators"
	"github.com/angelmondragon/crewstock-backend/internal/notices"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
	"github.com/angelmondragon/crewstock-backend/pkg/logger"
)

type noticeContentRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

func ListNotices(svc notices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notices service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), who.UserID, validators.ParseSearch(r, "search"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func GetNotice(svc notices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notices service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "noticeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notice, err := svc.Get(r.Context(), who.UserID, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, notice)
	}
}

func CreateNotice(svc notices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notices service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req noticeContentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notice, err := svc.Create(r.Context(), authorFor(who), req.Content)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, notice)
	}
}

// UpdateNotice rewrites a notice's content; only its author may do so.
func UpdateNotice(svc notices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notices service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "noticeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req noticeContentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notice, err := svc.Update(r.Context(), authorFor(who), id, req.Content)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, notice)
	}
}

func RemoveNotice(svc notices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notices service unavailable"))
			return
		}
		who, err := callerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "noticeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), authorFor(who), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "removed": true})
	}
}

func authorFor(who caller) notices.Author {
	return notices.Author{UserID: who.UserID, Email: who.Email, Name: who.Name}
}
