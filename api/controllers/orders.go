package controllers

import (
	"net/http"
	"time"

	"github.com/partslane/backoffice-backend/api/responses"
	"github.com/partslane/backoffice-backend/api/validators"
	"github.com/partslane/backoffice-backend/internal/audit"
	"github.com/partslane/backoffice-backend/internal/orders"
	"github.com/partslane/backoffice-backend/pkg/enums"
	pkgerrors "github.com/partslane/backoffice-backend/pkg/errors"
	"github.com/partslane/backoffice-backend/pkg/logger"
	"github.com/partslane/backoffice-backend/pkg/pagination"
)

// OrdersCreate handles POST /orders.
func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orders.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), body, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"order": order})
	}
}

// OrdersSave handles PUT /orders/{orderID}.
func OrdersSave(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orders.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Save(r.Context(), orderID, body, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order": order})
	}
}

// OrdersGet handles GET /orders/{orderID}.
func OrdersGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), orderID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// OrdersList handles GET /orders.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, params, err := parseOrderListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderLogs handles GET /orders/{orderID}/logs.
func OrderLogs(svc audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters, err := parseLogQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrderLogs(r.Context(), orderID, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func parseOrderListQuery(r *http.Request) (orders.ListFilters, pagination.Params, error) {
	filters := orders.ListFilters{Query: r.URL.Query().Get("search")}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		filters.Status = &status
	}

	departmentID, err := queryUUID(r, "department_id")
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.DepartmentID = departmentID

	managerID, err := queryUUID(r, "manager_id")
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.ManagerID = managerID

	filters.DateFrom, err = queryTime(r, "from")
	if err != nil {
		return filters, pagination.Params{}, err
	}
	filters.DateTo, err = queryTime(r, "to")
	if err != nil {
		return filters, pagination.Params{}, err
	}

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return filters, pagination.Params{}, err
	}

	return filters, pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}, nil
}

func parseLogQuery(r *http.Request) (audit.LogFilters, error) {
	filters := audit.LogFilters{Search: r.URL.Query().Get("search")}

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return filters, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1_000_000)
	if err != nil {
		return filters, err
	}
	filters.Limit = limit
	filters.Offset = offset

	filters.From, err = queryTime(r, "from")
	if err != nil {
		return filters, err
	}
	filters.To, err = queryTime(r, "to")
	if err != nil {
		return filters, err
	}
	return filters, nil
}

func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name).
		WithDetails(map[string]any{"field": name})
}
