package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/Shravanik22/MediLink/internal/order"
	"github.com/Shravanik22/MediLink/internal/repository"
	server_mocks "github.com/Shravanik22/MediLink/internal/server/mocks"
)

type serverFixture struct {
	orders     *server_mocks.MockOrderService
	users      *server_mocks.MockUserAuthenticator
	inventory  *server_mocks.MockInventoryReader
	events     *server_mocks.MockEventSource
	complaints *server_mocks.MockComplaintService
	health     *server_mocks.MockHealthService
	srv        *Server
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	mc := gomock.NewController(t)

	f := &serverFixture{
		orders:     server_mocks.NewMockOrderService(mc),
		users:      server_mocks.NewMockUserAuthenticator(mc),
		inventory:  server_mocks.NewMockInventoryReader(mc),
		events:     server_mocks.NewMockEventSource(mc),
		complaints: server_mocks.NewMockComplaintService(mc),
		health:     server_mocks.NewMockHealthService(mc),
	}
	f.srv = New(f.orders, f.users, f.inventory, f.events, f.complaints, f.health, zap.NewNop())
	return f
}

func requestAs(t *testing.T, actor order.Actor, method, target, body string, vars map[string]string) *http.Request {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(context.WithValue(req.Context(), actorKey, actor))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func TestHandleCreateOrder(t *testing.T) {
	t.Parallel()
	kiosk := order.Actor{ID: "KIOSK-1", Role: order.RoleKiosk}

	t.Run("created order returns 201 with details", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Create(gomock.Any(), "KIOSK-1", gomock.Any()).DoAndReturn(
			func(_ context.Context, kioskID string, in order.CreateInput) (*order.Details, error) {
				assert.Equal(t, "Asha Rao", in.PatientName)
				assert.True(t, in.IsEmergency)
				require.Len(t, in.Items, 1)
				assert.Equal(t, "MED-1", in.Items[0].MedicineID)
				return &order.Details{
					Order: &repository.Order{ID: "ORD-AB12CD", KioskID: kioskID, Status: "pending"},
				}, nil
			})

		body := `{
			"patientDetails": {"name": "Asha Rao", "phone": "9876500001", "age": 62},
			"medicines": [{"medicineId": "MED-1", "quantity": 2}],
			"paymentMode": "COD",
			"isEmergency": true
		}`
		req := requestAs(t, kiosk, http.MethodPost, "/api/orders", body, nil)
		rec := httptest.NewRecorder()

		f.srv.handleCreateOrder(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var resp struct {
			Order struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"order"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ORD-AB12CD", resp.Order.ID)
		assert.Equal(t, "pending", resp.Order.Status)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		req := requestAs(t, kiosk, http.MethodPost, "/api/orders", "{not json", nil)
		rec := httptest.NewRecorder()

		f.srv.handleCreateOrder(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Create(gomock.Any(), "KIOSK-1", gomock.Any()).
			Return(nil, order.ErrValidation)

		req := requestAs(t, kiosk, http.MethodPost, "/api/orders", "", nil)
		rec := httptest.NewRecorder()

		f.srv.handleCreateOrder(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetOrder(t *testing.T) {
	t.Parallel()

	t.Run("kiosk reads its own order", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Get(gomock.Any(), "ORD-1").Return(&order.Details{
			Order: &repository.Order{ID: "ORD-1", KioskID: "KIOSK-1"},
		}, nil)

		req := requestAs(t, order.Actor{ID: "KIOSK-1", Role: order.RoleKiosk},
			http.MethodGet, "/api/orders/ORD-1", "", map[string]string{"id": "ORD-1"})
		rec := httptest.NewRecorder()

		f.srv.handleGetOrder(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("kiosk is refused another kiosk's order", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Get(gomock.Any(), "ORD-1").Return(&order.Details{
			Order: &repository.Order{ID: "ORD-1", KioskID: "KIOSK-2"},
		}, nil)

		req := requestAs(t, order.Actor{ID: "KIOSK-1", Role: order.RoleKiosk},
			http.MethodGet, "/api/orders/ORD-1", "", map[string]string{"id": "ORD-1"})
		rec := httptest.NewRecorder()

		f.srv.handleGetOrder(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("chemist reads any order", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Get(gomock.Any(), "ORD-1").Return(&order.Details{
			Order: &repository.Order{ID: "ORD-1", KioskID: "KIOSK-2"},
		}, nil)

		req := requestAs(t, order.Actor{ID: "CHEM-1", Role: order.RoleChemist},
			http.MethodGet, "/api/orders/ORD-1", "", map[string]string{"id": "ORD-1"})
		rec := httptest.NewRecorder()

		f.srv.handleGetOrder(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing order maps to 404", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Get(gomock.Any(), "ORD-404").Return(nil, order.ErrNotFound)

		req := requestAs(t, order.Actor{ID: "CHEM-1", Role: order.RoleChemist},
			http.MethodGet, "/api/orders/ORD-404", "", map[string]string{"id": "ORD-404"})
		rec := httptest.NewRecorder()

		f.srv.handleGetOrder(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleUpdateOrderStatus(t *testing.T) {
	t.Parallel()
	chemist := order.Actor{ID: "CHEM-1", Role: order.RoleChemist}

	t.Run("valid transition returns the updated order", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Transition(gomock.Any(), chemist, "ORD-1", order.StatusOutForDelivery, "rider assigned", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ order.Actor, _ string, _ order.Status, _ string, patch *order.DeliveryPatch) (*repository.Order, error) {
				require.NotNil(t, patch)
				require.NotNil(t, patch.TrackingID)
				assert.Equal(t, "TRK-9", *patch.TrackingID)
				return &repository.Order{ID: "ORD-1", Status: "out_for_delivery"}, nil
			})

		body := `{"status": "out_for_delivery", "comment": "rider assigned", "deliveryDetails": {"trackingId": "TRK-9"}}`
		req := requestAs(t, chemist, http.MethodPatch, "/api/orders/ORD-1/status", body, map[string]string{"id": "ORD-1"})
		rec := httptest.NewRecorder()

		f.srv.handleUpdateOrderStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown status returns 400 without hitting the service", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		body := `{"status": "shipped"}`
		req := requestAs(t, chemist, http.MethodPatch, "/api/orders/ORD-1/status", body, map[string]string{"id": "ORD-1"})
		rec := httptest.NewRecorder()

		f.srv.handleUpdateOrderStatus(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid state maps to 409", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Transition(gomock.Any(), chemist, "ORD-1", order.StatusDelivered, "", gomock.Any()).
			Return(nil, order.ErrInvalidState)

		body := `{"status": "delivered"}`
		req := requestAs(t, chemist, http.MethodPatch, "/api/orders/ORD-1/status", body, map[string]string{"id": "ORD-1"})
		rec := httptest.NewRecorder()

		f.srv.handleUpdateOrderStatus(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("version conflict maps to 409", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Transition(gomock.Any(), chemist, "ORD-1", order.StatusPacked, "", gomock.Any()).
			Return(nil, order.ErrVersionConflict)

		body := `{"status": "packed"}`
		req := requestAs(t, chemist, http.MethodPatch, "/api/orders/ORD-1/status", body, map[string]string{"id": "ORD-1"})
		rec := httptest.NewRecorder()

		f.srv.handleUpdateOrderStatus(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unexpected error maps to 500", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Transition(gomock.Any(), chemist, "ORD-1", order.StatusPacked, "", gomock.Any()).
			Return(nil, errors.New("connection refused"))

		body := `{"status": "packed"}`
		req := requestAs(t, chemist, http.MethodPatch, "/api/orders/ORD-1/status", body, map[string]string{"id": "ORD-1"})
		rec := httptest.NewRecorder()

		f.srv.handleUpdateOrderStatus(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandleRateOrder(t *testing.T) {
	t.Parallel()
	kiosk := order.Actor{ID: "KIOSK-1", Role: order.RoleKiosk}

	t.Run("rating is recorded", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Rate(gomock.Any(), "KIOSK-1", "ORD-1", 5, "quick delivery").Return(nil)

		body := `{"score": 5, "review": "quick delivery"}`
		req := requestAs(t, kiosk, http.MethodPost, "/api/orders/ORD-1/rate", body, map[string]string{"id": "ORD-1"})
		rec := httptest.NewRecorder()

		f.srv.handleRateOrder(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("double rating maps to 409", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.orders.EXPECT().Rate(gomock.Any(), "KIOSK-1", "ORD-1", 4, "").Return(order.ErrInvalidState)

		body := `{"score": 4}`
		req := requestAs(t, kiosk, http.MethodPost, "/api/orders/ORD-1/rate", body, map[string]string{"id": "ORD-1"})
		rec := httptest.NewRecorder()

		f.srv.handleRateOrder(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	called := false
	handler := func(w http.ResponseWriter, r *http.Request) {
		called = true
		respondJSON(w, http.StatusOK, nil)
	}

	f := newServerFixture(t)

	t.Run("matching role passes through", func(t *testing.T) {
		req := requestAs(t, order.Actor{ID: "CHEM-1", Role: order.RoleChemist},
			http.MethodGet, "/api/orders/chemist", "", nil)
		rec := httptest.NewRecorder()

		f.srv.requireRole(handler, order.RoleChemist, order.RoleAdmin)(rec, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role is refused with the role list", func(t *testing.T) {
		called = false
		req := requestAs(t, order.Actor{ID: "KIOSK-1", Role: order.RoleKiosk},
			http.MethodGet, "/api/orders/chemist", "", nil)
		rec := httptest.NewRecorder()

		f.srv.requireRole(handler, order.RoleChemist, order.RoleAdmin)(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "chemist, admin")
	})

	t.Run("missing actor is unauthorized", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/orders/chemist", nil)
		rec := httptest.NewRecorder()

		f.srv.requireRole(handler, order.RoleChemist)(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestBasicAuthMiddleware(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, "CHEM-1", actor.ID)
		respondJSON(w, http.StatusOK, nil)
	})

	t.Run("valid credentials attach the actor", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.users.EXPECT().Authenticate(gomock.Any(), "chem@medilink.local", "secret").Return(&repository.User{
			ID: "CHEM-1", Role: "chemist", AccountStatus: "active",
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/chemist", nil)
		req.SetBasicAuth("chem@medilink.local", "secret")
		rec := httptest.NewRecorder()

		f.srv.basicAuthMiddleware(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing credentials return 401", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/chemist", nil)
		rec := httptest.NewRecorder()

		f.srv.basicAuthMiddleware(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("bad credentials return 401", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.users.EXPECT().Authenticate(gomock.Any(), "chem@medilink.local", "wrong").
			Return(nil, repository.ErrObjectNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/chemist", nil)
		req.SetBasicAuth("chem@medilink.local", "wrong")
		rec := httptest.NewRecorder()

		f.srv.basicAuthMiddleware(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("suspended account returns 403", func(t *testing.T) {
		t.Parallel()
		f := newServerFixture(t)

		f.users.EXPECT().Authenticate(gomock.Any(), "chem@medilink.local", "secret").Return(&repository.User{
			ID: "CHEM-1", Role: "chemist", AccountStatus: "suspended",
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/chemist", nil)
		req.SetBasicAuth("chem@medilink.local", "secret")
		rec := httptest.NewRecorder()

		f.srv.basicAuthMiddleware(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandleLowStock(t *testing.T) {
	t.Parallel()
	f := newServerFixture(t)

	f.inventory.EXPECT().GetLowStock(gomock.Any(), "CHEM-1").Return([]*repository.Medicine{
		{ID: "MED-1", Name: "Paracetamol", StockQuantity: 3, LowStockThreshold: 10},
	}, nil)

	req := requestAs(t, order.Actor{ID: "CHEM-1", Role: order.RoleChemist},
		http.MethodGet, "/api/medicines/low-stock", "", nil)
	rec := httptest.NewRecorder()

	f.srv.handleLowStock(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Paracetamol")
}
