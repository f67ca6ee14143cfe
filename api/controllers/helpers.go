package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/partslane/backoffice-backend/api/middleware"
	"github.com/partslane/backoffice-backend/internal/orders"
	"github.com/partslane/backoffice-backend/pkg/enums"
	pkgerrors "github.com/partslane/backoffice-backend/pkg/errors"
)

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).
			WithDetails(map[string]any{"field": name})
	}
	return id, nil
}

func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).
			WithDetails(map[string]any{"field": name})
	}
	return &id, nil
}

// actorFromRequest rebuilds the workflow actor from the authenticated
// request context.
func actorFromRequest(r *http.Request) (orders.Actor, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil || userID == uuid.Nil {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return orders.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor role missing")
	}

	actor := orders.Actor{UserID: userID, Role: role}
	if raw := middleware.DepartmentIDFromContext(r.Context()); raw != "" {
		if departmentID, err := uuid.Parse(raw); err == nil {
			actor.DepartmentID = &departmentID
		}
	}
	return actor, nil
}
