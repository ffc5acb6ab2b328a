//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=server_mocks
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Shravanik22/MediLink/internal/complaint"
	"github.com/Shravanik22/MediLink/internal/health"
	"github.com/Shravanik22/MediLink/internal/notify"
	"github.com/Shravanik22/MediLink/internal/order"
	"github.com/Shravanik22/MediLink/internal/repository"
)

type OrderService interface {
	Create(ctx context.Context, kioskID string, in order.CreateInput) (*order.Details, error)
	Get(ctx context.Context, orderID string) (*order.Details, error)
	Transition(ctx context.Context, actor order.Actor, orderID string, target order.Status, comment string, patch *order.DeliveryPatch) (*repository.Order, error)
	Accept(ctx context.Context, chemistID, orderID string) (*repository.Order, error)
	Cancel(ctx context.Context, actor order.Actor, orderID string) error
	Rate(ctx context.Context, kioskID, orderID string, score int, review string) error
	MarkPaid(ctx context.Context, actor order.Actor, orderID string) error
	ListForKiosk(ctx context.Context, kioskID string) ([]*repository.Order, error)
	ListForChemist(ctx context.Context, chemistID string) ([]*repository.Order, error)
}

type UserAuthenticator interface {
	Authenticate(ctx context.Context, email, password string) (*repository.User, error)
}

type InventoryReader interface {
	GetLowStock(ctx context.Context, chemistID string) ([]*repository.Medicine, error)
}

type EventSource interface {
	Subscribe(actorID string) (<-chan notify.Event, func())
}

type ComplaintService interface {
	Create(ctx context.Context, userID string, in complaint.CreateInput) (*repository.Complaint, error)
	List(ctx context.Context) ([]*repository.Complaint, error)
	Resolve(ctx context.Context, adminID, complaintID string, in complaint.ResolveInput) (*repository.Complaint, error)
}

type HealthService interface {
	Record(ctx context.Context, kioskID string, in health.RecordInput) (*repository.HealthMetric, error)
	History(ctx context.Context, kioskID string) ([]*repository.HealthMetric, error)
	Analytics(ctx context.Context) ([]*repository.BMICategoryStat, error)
}

type Server struct {
	orders       OrderService
	users        UserAuthenticator
	inventory    InventoryReader
	events       EventSource
	complaints   ComplaintService
	health       HealthService
	AuditManager *AuditManager
	logger       *zap.Logger
	server       *http.Server
}

func New(orders OrderService, users UserAuthenticator, inventory InventoryReader, events EventSource, complaints ComplaintService, healthSvc HealthService, logger *zap.Logger) *Server {
	auditManager := NewAuditManager(2, 5, 500*time.Millisecond)
	return &Server{
		orders:       orders,
		users:        users,
		inventory:    inventory,
		events:       events,
		complaints:   complaints,
		health:       healthSvc,
		AuditManager: auditManager,
		logger:       logger,
	}
}

func (s *Server) Run(ctx context.Context, port string) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:        ":" + port,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: the /api/events stream stays open indefinitely.
		IdleTimeout: 60 * time.Second,
	}

	s.AuditManager.Start(ctx)

	s.logger.Info("server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	s.AuditManager.Shutdown(ctx)
	s.logger.Info("server shutdown completed")

	return nil
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.basicAuthMiddleware)
	api.Use(s.auditLogMiddleware)

	api.HandleFunc("/orders", s.requireRole(s.handleCreateOrder, order.RoleKiosk)).Methods(http.MethodPost)
	api.HandleFunc("/orders/kiosk", s.requireRole(s.handleKioskOrders, order.RoleKiosk)).Methods(http.MethodGet)
	api.HandleFunc("/orders/chemist", s.requireRole(s.handleChemistOrders, order.RoleChemist)).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/accept", s.requireRole(s.handleAcceptOrder, order.RoleChemist)).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/status", s.requireRole(s.handleUpdateOrderStatus, order.RoleChemist, order.RoleAdmin)).Methods(http.MethodPatch)
	api.HandleFunc("/orders/{id}/cancel", s.handleCancelOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/rate", s.requireRole(s.handleRateOrder, order.RoleKiosk)).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/pay", s.handleMarkPaid).Methods(http.MethodPost)
	api.HandleFunc("/medicines/low-stock", s.requireRole(s.handleLowStock, order.RoleChemist)).Methods(http.MethodGet)
	api.HandleFunc("/complaints", s.handleCreateComplaint).Methods(http.MethodPost)
	api.HandleFunc("/complaints", s.requireRole(s.handleListComplaints, order.RoleAdmin)).Methods(http.MethodGet)
	api.HandleFunc("/complaints/{id}/resolve", s.requireRole(s.handleResolveComplaint, order.RoleAdmin)).Methods(http.MethodPatch)
	api.HandleFunc("/health/metrics", s.requireRole(s.handleRecordHealthMetric, order.RoleKiosk)).Methods(http.MethodPost)
	api.HandleFunc("/health/history", s.handleHealthHistory).Methods(http.MethodGet)
	api.HandleFunc("/health/analytics", s.requireRole(s.handleHealthAnalytics, order.RoleAdmin)).Methods(http.MethodGet)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	return router
}
