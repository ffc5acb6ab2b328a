//go:generate mockgen -source ./controller.go -destination=./mocks/controller.go -package=order_mocks
package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shravanik22/MediLink/internal/cache"
	"github.com/Shravanik22/MediLink/internal/db"
	"github.com/Shravanik22/MediLink/internal/metrics"
	"github.com/Shravanik22/MediLink/internal/notify"
	"github.com/Shravanik22/MediLink/internal/repository"
)

const auditTopic = "order_audit"

type OrderRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, order *repository.Order) error
	AddItemsTx(ctx context.Context, tx db.Tx, items []repository.OrderItem) error
	GetByID(ctx context.Context, id string) (*repository.Order, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Order, error)
	GetItems(ctx context.Context, orderID string) ([]repository.OrderItem, error)
	UpdateTx(ctx context.Context, tx db.Tx, order *repository.Order) error
	ClaimTx(ctx context.Context, tx db.Tx, orderID, chemistID string) (bool, error)
	SetRatingTx(ctx context.Context, tx db.Tx, orderID string, score int, review string) error
	GetByKiosk(ctx context.Context, kioskID string) ([]*repository.Order, error)
	GetForChemist(ctx context.Context, chemistID string) ([]*repository.Order, error)
}

type HistoryRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, entry *repository.HistoryEntry) error
	GetByOrderID(ctx context.Context, orderID string) ([]*repository.HistoryEntry, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*repository.User, error)
	GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.User, error)
	UpdateRatingTx(ctx context.Context, tx db.Tx, id string, rating float64, reviewCount int) error
}

// MedicineReader supplies medicine name and price at order creation. The
// controller never mutates stock; inventory is advisory.
type MedicineReader interface {
	GetByID(ctx context.Context, id string) (*repository.Medicine, error)
}

type OutboxRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, task *repository.OutboxTask) error
}

type Actor struct {
	ID   string
	Role Role
}

type CreateItemInput struct {
	MedicineID string
	Quantity   int
}

type CreateInput struct {
	PatientName      string
	PatientPhone     string
	PatientAge       *int
	PatientEmail     string
	PatientAddress   string
	PrescriptionPath string
	PaymentMode      string
	IsEmergency      bool
	Items            []CreateItemInput
}

// DeliveryPatch is shallow-merged into the order: only non-nil fields
// overwrite, last write wins per field.
type DeliveryPatch struct {
	EstimatedTime *string
	TrackingID    *string
	OTP           *string
}

type Details struct {
	Order   *repository.Order          `json:"order"`
	Items   []repository.OrderItem     `json:"items"`
	History []*repository.HistoryEntry `json:"history"`
}

// Controller validates and applies order lifecycle operations. Order writes
// and their history entries share one transaction; notification side effects
// are fire-and-forget and never fail the request.
type Controller struct {
	db        db.DB
	orders    OrderRepository
	history   HistoryRepository
	users     UserRepository
	medicines MedicineReader
	outbox    OutboxRepository
	cache     *cache.OrderCache
	gateway   notify.Gateway
	logger    *zap.Logger
}

func NewController(
	database db.DB,
	orders OrderRepository,
	history HistoryRepository,
	users UserRepository,
	medicines MedicineReader,
	outbox OutboxRepository,
	orderCache *cache.OrderCache,
	gateway notify.Gateway,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		db:        database,
		orders:    orders,
		history:   history,
		users:     users,
		medicines: medicines,
		outbox:    outbox,
		cache:     orderCache,
		gateway:   gateway,
		logger:    logger,
	}
}

func newOrderCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "ORD-" + strings.ToUpper(raw[:6])
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (c *Controller) Create(ctx context.Context, kioskID string, in CreateInput) (*Details, error) {
	if strings.TrimSpace(in.PatientName) == "" || strings.TrimSpace(in.PatientPhone) == "" {
		return nil, fmt.Errorf("%w: patient name and phone are required", ErrValidation)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one medicine line item is required", ErrValidation)
	}
	mode, err := ParsePaymentMode(in.PaymentMode)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ord := &repository.Order{
		ID:               newOrderCode(),
		KioskID:          kioskID,
		PatientName:      in.PatientName,
		PatientPhone:     in.PatientPhone,
		PatientAge:       in.PatientAge,
		PatientEmail:     optional(in.PatientEmail),
		PatientAddress:   optional(in.PatientAddress),
		PrescriptionPath: optional(in.PrescriptionPath),
		PaymentMode:      string(mode),
		PaymentStatus:    PaymentUnpaid,
		Status:           string(StatusPending),
		IsEmergency:      in.IsEmergency,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	total := 0
	items := make([]repository.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrValidation)
		}
		med, err := c.medicines.GetByID(ctx, it.MedicineID)
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: unknown medicine %s", ErrValidation, it.MedicineID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up medicine %s: %w", it.MedicineID, err)
		}
		items = append(items, repository.OrderItem{
			OrderID:    ord.ID,
			MedicineID: med.ID,
			Name:       med.Name,
			Quantity:   it.Quantity,
			UnitPrice:  med.Price,
		})
		total += it.Quantity * med.Price
	}
	ord.TotalAmount = total

	entry := &repository.HistoryEntry{
		OrderID:   ord.ID,
		Status:    string(StatusPending),
		Comment:   "order placed",
		ChangedAt: now,
	}

	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := c.orders.CreateTx(ctx, tx, ord); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err := c.orders.AddItemsTx(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to add order items: %w", err)
	}
	if err := c.history.CreateTx(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("failed to record order history: %w", err)
	}
	if err := c.enqueueAudit(ctx, tx, repository.OrderAuditPayload{
		Timestamp: now,
		OrderID:   ord.ID,
		ActorID:   kioskID,
		Role:      string(RoleKiosk),
		Action:    "order_created",
		NewStatus: string(StatusPending),
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("create_order").Inc()
		return nil, fmt.Errorf("failed to commit order creation: %w", err)
	}

	c.cache.Set(ord)
	metrics.OrdersCreatedTotal.Inc()

	c.gateway.Broadcast(notify.Event{
		Kind:        notify.EventNewOrder,
		OrderID:     ord.ID,
		Status:      ord.Status,
		IsEmergency: ord.IsEmergency,
		At:          now,
	})
	if ord.IsEmergency {
		metrics.EmergencyOrdersTotal.Inc()
		c.gateway.Broadcast(notify.Event{
			Kind:        notify.EventEmergencyAlert,
			OrderID:     ord.ID,
			IsEmergency: true,
			Message:     fmt.Sprintf("urgent: emergency order %s received", ord.ID),
			At:          now,
		})
	}

	return &Details{Order: ord, Items: items, History: []*repository.HistoryEntry{entry}}, nil
}

func (c *Controller) Transition(ctx context.Context, actor Actor, orderID string, target Status, comment string, patch *DeliveryPatch) (*repository.Order, error) {
	if actor.Role != RoleChemist && actor.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: role %s may not change order status", ErrPermission, actor.Role)
	}

	now := time.Now().UTC()

	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	ord, err := c.orders.GetByIDTx(ctx, tx, orderID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	current := Status(ord.Status)
	if !CanTransition(current, target) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrInvalidState, current, target)
	}

	oldStatus := ord.Status
	ord.Status = string(target)
	if patch != nil {
		if patch.EstimatedTime != nil {
			ord.EstimatedTime = patch.EstimatedTime
		}
		if patch.TrackingID != nil {
			ord.TrackingID = patch.TrackingID
		}
		if patch.OTP != nil {
			ord.OTP = patch.OTP
		}
		ord.DeliveryUpdated = &now
	}
	ord.UpdatedAt = now

	if err := c.orders.UpdateTx(ctx, tx, ord); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if comment == "" {
		comment = "order " + string(target)
	}
	if err := c.history.CreateTx(ctx, tx, &repository.HistoryEntry{
		OrderID:   ord.ID,
		Status:    string(target),
		Comment:   comment,
		ChangedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to record order history: %w", err)
	}
	if err := c.enqueueAudit(ctx, tx, repository.OrderAuditPayload{
		Timestamp: now,
		OrderID:   ord.ID,
		ActorID:   actor.ID,
		Role:      string(actor.Role),
		Action:    "status_change",
		OldStatus: oldStatus,
		NewStatus: ord.Status,
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("transition").Inc()
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	c.cache.Set(ord)
	metrics.OrderTransitionsTotal.WithLabelValues(ord.Status).Inc()
	c.notifyKiosk(ord, now)

	return ord, nil
}

// Accept is the chemist claim of an unassigned pending order. The conditional
// update guarantees exactly one of two racing chemists wins.
func (c *Controller) Accept(ctx context.Context, chemistID, orderID string) (*repository.Order, error) {
	chemist, err := c.users.GetByID(ctx, chemistID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: unknown chemist", ErrPermission)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chemist: %w", err)
	}
	if chemist.Role != string(RoleChemist) || !chemist.Verified || chemist.AccountStatus != "active" {
		return nil, fmt.Errorf("%w: chemist is not eligible to accept orders", ErrPermission)
	}

	now := time.Now().UTC()

	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	claimed, err := c.orders.ClaimTx(ctx, tx, orderID, chemistID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim order: %w", err)
	}
	if !claimed {
		if _, err := c.orders.GetByIDTx(ctx, tx, orderID); errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrNotFound
		} else if err != nil {
			return nil, fmt.Errorf("failed to get order: %w", err)
		}
		return nil, fmt.Errorf("%w: order is already assigned or not pending", ErrInvalidState)
	}

	ord, err := c.orders.GetByIDTx(ctx, tx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get claimed order: %w", err)
	}

	if err := c.history.CreateTx(ctx, tx, &repository.HistoryEntry{
		OrderID:   ord.ID,
		Status:    string(StatusAccepted),
		Comment:   "order accepted by chemist",
		ChangedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("failed to record order history: %w", err)
	}
	if err := c.enqueueAudit(ctx, tx, repository.OrderAuditPayload{
		Timestamp: now,
		OrderID:   ord.ID,
		ActorID:   chemistID,
		Role:      string(RoleChemist),
		Action:    "accepted",
		OldStatus: string(StatusPending),
		NewStatus: string(StatusAccepted),
	}); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("accept").Inc()
		return nil, fmt.Errorf("failed to commit accept: %w", err)
	}

	c.cache.Set(ord)
	metrics.OrderTransitionsTotal.WithLabelValues(string(StatusAccepted)).Inc()
	c.notifyKiosk(ord, now)

	return ord, nil
}

func (c *Controller) Cancel(ctx context.Context, actor Actor, orderID string) error {
	now := time.Now().UTC()

	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	ord, err := c.orders.GetByIDTx(ctx, tx, orderID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	if actor.Role == RoleKiosk && ord.KioskID != actor.ID {
		return fmt.Errorf("%w: kiosks may only cancel their own orders", ErrPermission)
	}
	if !Status(ord.Status).Cancellable() {
		return fmt.Errorf("%w: order is already in fulfilment phase and cannot be cancelled", ErrInvalidState)
	}

	oldStatus := ord.Status
	ord.Status = string(StatusCancelled)
	if ord.PaymentStatus == PaymentPaid {
		ord.PaymentStatus = PaymentRefunded
	}
	ord.UpdatedAt = now

	if err := c.orders.UpdateTx(ctx, tx, ord); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return ErrVersionConflict
		}
		return fmt.Errorf("failed to update order: %w", err)
	}
	if err := c.history.CreateTx(ctx, tx, &repository.HistoryEntry{
		OrderID:   ord.ID,
		Status:    string(StatusCancelled),
		Comment:   "cancelled by " + string(actor.Role),
		ChangedAt: now,
	}); err != nil {
		return fmt.Errorf("failed to record order history: %w", err)
	}
	if err := c.enqueueAudit(ctx, tx, repository.OrderAuditPayload{
		Timestamp: now,
		OrderID:   ord.ID,
		ActorID:   actor.ID,
		Role:      string(actor.Role),
		Action:    "cancelled",
		OldStatus: oldStatus,
		NewStatus: ord.Status,
	}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("cancel").Inc()
		return fmt.Errorf("failed to commit cancel: %w", err)
	}

	c.cache.Delete(ord.ID)
	metrics.OrderTransitionsTotal.WithLabelValues(string(StatusCancelled)).Inc()
	c.notifyKiosk(ord, now)

	return nil
}

// Rate records a one-time post-delivery rating and folds the score into the
// chemist's running mean. Re-rating is rejected.
func (c *Controller) Rate(ctx context.Context, kioskID, orderID string, score int, review string) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("%w: score must be between 1 and 5", ErrValidation)
	}

	now := time.Now().UTC()

	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	ord, err := c.orders.GetByIDTx(ctx, tx, orderID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	if ord.KioskID != kioskID {
		return fmt.Errorf("%w: kiosks may only rate their own orders", ErrPermission)
	}
	if Status(ord.Status) != StatusDelivered {
		return fmt.Errorf("%w: only delivered orders can be reviewed", ErrInvalidState)
	}
	if ord.RatingScore != nil {
		return fmt.Errorf("%w: order has already been rated", ErrInvalidState)
	}

	if err := c.orders.SetRatingTx(ctx, tx, ord.ID, score, review); err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}

	if ord.ChemistID != nil {
		chemist, err := c.users.GetByIDTx(ctx, tx, *ord.ChemistID)
		if err != nil {
			return fmt.Errorf("failed to get chemist: %w", err)
		}
		newCount := chemist.ReviewCount + 1
		newRating := (chemist.Rating*float64(chemist.ReviewCount) + float64(score)) / float64(newCount)
		if err := c.users.UpdateRatingTx(ctx, tx, chemist.ID, newRating, newCount); err != nil {
			return fmt.Errorf("failed to update chemist rating: %w", err)
		}
	}

	if err := c.enqueueAudit(ctx, tx, repository.OrderAuditPayload{
		Timestamp: now,
		OrderID:   ord.ID,
		ActorID:   kioskID,
		Role:      string(RoleKiosk),
		Action:    "rated",
	}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("rate").Inc()
		return fmt.Errorf("failed to commit rating: %w", err)
	}

	ord.RatingScore = &score
	ord.RatingReview = optional(review)
	ord.UpdatedAt = now
	c.cache.Set(ord)

	metrics.RatingsRecordedTotal.Inc()
	return nil
}

func (c *Controller) MarkPaid(ctx context.Context, actor Actor, orderID string) error {
	now := time.Now().UTC()

	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	ord, err := c.orders.GetByIDTx(ctx, tx, orderID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	if ord.PaymentStatus != PaymentUnpaid {
		return fmt.Errorf("%w: order is not awaiting payment", ErrInvalidState)
	}

	ord.PaymentStatus = PaymentPaid
	ord.UpdatedAt = now
	if err := c.orders.UpdateTx(ctx, tx, ord); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return ErrVersionConflict
		}
		return fmt.Errorf("failed to update order: %w", err)
	}
	if err := c.enqueueAudit(ctx, tx, repository.OrderAuditPayload{
		Timestamp: now,
		OrderID:   ord.ID,
		ActorID:   actor.ID,
		Role:      string(actor.Role),
		Action:    "paid",
	}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("mark_paid").Inc()
		return fmt.Errorf("failed to commit payment update: %w", err)
	}

	c.cache.Set(ord)
	return nil
}

func (c *Controller) Get(ctx context.Context, orderID string) (*Details, error) {
	ord, ok := c.cache.Get(orderID)
	if !ok {
		var err error
		ord, err = c.orders.GetByID(ctx, orderID)
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get order: %w", err)
		}
		c.cache.Set(ord)
	}

	items, err := c.orders.GetItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	history, err := c.history.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order history: %w", err)
	}

	return &Details{Order: ord, Items: items, History: history}, nil
}

func (c *Controller) ListForKiosk(ctx context.Context, kioskID string) ([]*repository.Order, error) {
	orders, err := c.orders.GetByKiosk(ctx, kioskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kiosk orders: %w", err)
	}
	return orders, nil
}

func (c *Controller) ListForChemist(ctx context.Context, chemistID string) ([]*repository.Order, error) {
	orders, err := c.orders.GetForChemist(ctx, chemistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chemist orders: %w", err)
	}
	return orders, nil
}

func (c *Controller) enqueueAudit(ctx context.Context, tx db.Tx, payload repository.OrderAuditPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal audit payload: %w", err)
	}
	if err := c.outbox.CreateTx(ctx, tx, &repository.OutboxTask{
		Payload: raw,
		Topic:   auditTopic,
	}); err != nil {
		return fmt.Errorf("failed to enqueue audit task: %w", err)
	}
	return nil
}

func (c *Controller) notifyKiosk(ord *repository.Order, at time.Time) {
	c.gateway.SendTo(ord.KioskID, notify.Event{
		Kind:    notify.EventOrderUpdate,
		OrderID: ord.ID,
		Status:  ord.Status,
		At:      at,
	})
}
