package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/crewstock-backend/api/middleware"
	pkgerrors "github.com/angelmondragon/crewstock-backend/pkg/errors"
)

type caller struct {
	UserID uuid.UUID
	Email  string
	Name   string
}

// callerFromRequest reads the identity seeded by the auth middleware.
func callerFromRequest(r *http.Request) (caller, error) {
	userID := middleware.UserUUIDFromContext(r.Context())
	if userID == uuid.Nil {
		return caller{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return caller{
		UserID: userID,
		Email:  middleware.EmailFromContext(r.Context()),
		Name:   middleware.NameFromContext(r.Context()),
	}, nil
}
