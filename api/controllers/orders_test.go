package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/partslane/backoffice-backend/api/middleware"
	"github.com/partslane/backoffice-backend/internal/orders"
	"github.com/partslane/backoffice-backend/pkg/db/models"
	"github.com/partslane/backoffice-backend/pkg/enums"
	pkgerrors "github.com/partslane/backoffice-backend/pkg/errors"
	"github.com/partslane/backoffice-backend/pkg/pagination"
)

type stubOrdersService struct {
	order      *models.Order
	detail     *orders.OrderDetail
	list       *orders.OrderList
	err        error
	savedInput orders.UpdateInput
	savedActor orders.Actor
	listedWith orders.ListFilters
}

func (s *stubOrdersService) Create(ctx context.Context, input orders.CreateInput, actor orders.Actor) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) Save(ctx context.Context, orderID uuid.UUID, input orders.UpdateInput, actor orders.Actor) (*models.Order, error) {
	s.savedInput = input
	s.savedActor = actor
	return s.order, s.err
}

func (s *stubOrdersService) Get(ctx context.Context, orderID uuid.UUID, actor orders.Actor) (*orders.OrderDetail, error) {
	return s.detail, s.err
}

func (s *stubOrdersService) List(ctx context.Context, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	s.listedWith = filters
	return s.list, s.err
}

func authedRequest(method, target string, body []byte, role enums.UserRole) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, string(role))
	return req.WithContext(ctx)
}

func withOrderID(req *http.Request, orderID uuid.UUID) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderID", orderID.String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestOrdersCreateSuccess(t *testing.T) {
	order := &models.Order{ID: uuid.New(), Status: enums.OrderStatusCreated, Version: 1}
	handler := OrdersCreate(&stubOrdersService{order: order}, nil)

	body := []byte(`{"contact_name":"Иван Петров","contact_phone":"+7 900 000-00-00","order_items":[{"sku":"A-1","title":"Деталь","price":"1000","quantity":1}]}`)
	req := authedRequest(http.MethodPost, "/api/v1/orders", body, enums.UserRoleManager)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Order struct {
				ID     uuid.UUID `json:"id"`
				Status string    `json:"status"`
			} `json:"order"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Order.ID != order.ID {
		t.Fatalf("expected order id %s got %s", order.ID, envelope.Data.Order.ID)
	}
	if envelope.Data.Order.Status != "created" {
		t.Fatalf("expected status created got %s", envelope.Data.Order.Status)
	}
}

func TestOrdersCreateMissingActor(t *testing.T) {
	handler := OrdersCreate(&stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestOrdersCreateValidationErrorPassthrough(t *testing.T) {
	fields := []orders.FieldError{{Key: "contactPhone", Label: "Контактный телефон"}}
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeValidation, "required fields missing").WithDetails(fields)}
	handler := OrdersCreate(svc, nil)

	req := authedRequest(http.MethodPost, "/api/v1/orders", []byte(`{"order_items":[]}`), enums.UserRoleManager)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Details []struct {
				Label string `json:"label"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", envelope.Error.Code)
	}
	if len(envelope.Error.Details) != 1 || envelope.Error.Details[0].Label != "Контактный телефон" {
		t.Fatalf("expected field labels in details, got %+v", envelope.Error.Details)
	}
}

func TestOrdersSavePassesVersionAndActor(t *testing.T) {
	order := &models.Order{ID: uuid.New(), Status: enums.OrderStatusConfirmed, Version: 2}
	svc := &stubOrdersService{order: order}
	handler := OrdersSave(svc, nil)

	body := []byte(`{"status":"confirmed","version":1}`)
	req := withOrderID(authedRequest(http.MethodPut, "/api/v1/orders/"+order.ID.String(), body, enums.UserRoleManager), order.ID)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.savedInput.Status != enums.OrderStatusConfirmed {
		t.Fatalf("expected status confirmed got %s", svc.savedInput.Status)
	}
	if svc.savedInput.Version == nil || *svc.savedInput.Version != 1 {
		t.Fatalf("expected version 1 got %v", svc.savedInput.Version)
	}
	if svc.savedActor.Role != enums.UserRoleManager {
		t.Fatalf("expected manager actor got %s", svc.savedActor.Role)
	}
}

func TestOrdersSaveInvalidOrderID(t *testing.T) {
	handler := OrdersSave(&stubOrdersService{}, nil)

	req := authedRequest(http.MethodPut, "/api/v1/orders/not-a-uuid", []byte(`{"status":"confirmed"}`), enums.UserRoleManager)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderID", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrdersSaveVersionConflict(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeConflict, "order was modified").
		WithDetails(map[string]int{"expected": 3, "provided": 2})}
	handler := OrdersSave(svc, nil)

	orderID := uuid.New()
	body := []byte(`{"status":"confirmed","version":2}`)
	req := withOrderID(authedRequest(http.MethodPut, "/api/v1/orders/"+orderID.String(), body, enums.UserRoleManager), orderID)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestOrdersListParsesFilters(t *testing.T) {
	svc := &stubOrdersService{list: &orders.OrderList{Orders: []models.Order{}}}
	handler := OrdersList(svc, nil)

	deptID := uuid.New()
	req := authedRequest(http.MethodGet, "/api/v1/orders?status=booked&department_id="+deptID.String()+"&search=петров&limit=10", nil, enums.UserRoleViewer)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.listedWith.Status == nil || *svc.listedWith.Status != enums.OrderStatusBooked {
		t.Fatalf("expected booked filter got %v", svc.listedWith.Status)
	}
	if svc.listedWith.DepartmentID == nil || *svc.listedWith.DepartmentID != deptID {
		t.Fatalf("expected department filter got %v", svc.listedWith.DepartmentID)
	}
	if svc.listedWith.Query != "петров" {
		t.Fatalf("expected search query got %q", svc.listedWith.Query)
	}
}

func TestOrdersListRejectsUnknownStatus(t *testing.T) {
	handler := OrdersList(&stubOrdersService{}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/orders?status=shipped", nil, enums.UserRoleViewer)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
