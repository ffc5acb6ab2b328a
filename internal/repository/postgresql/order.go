package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/Shravanik22/MediLink/internal/db"
	"github.com/Shravanik22/MediLink/internal/repository"
)

type OrderRepo struct {
	db db.DB
}

func NewOrderRepo(db db.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) CreateTx(ctx context.Context, tx db.Tx, order *repository.Order) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO orders (
            id, kiosk_id, chemist_id,
            patient_name, patient_phone, patient_age, patient_email, patient_address,
            prescription_path, total_amount, payment_mode, payment_status,
            status, is_emergency, version, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
    `, order.ID, order.KioskID, order.ChemistID,
		order.PatientName, order.PatientPhone, order.PatientAge, order.PatientEmail, order.PatientAddress,
		order.PrescriptionPath, order.TotalAmount, order.PaymentMode, order.PaymentStatus,
		order.Status, order.IsEmergency, order.Version, order.CreatedAt, order.UpdatedAt)
	return err
}

func (r *OrderRepo) AddItemsTx(ctx context.Context, tx db.Tx, items []repository.OrderItem) error {
	for _, item := range items {
		_, err := tx.Exec(ctx, `
            INSERT INTO order_items (order_id, medicine_id, name, quantity, unit_price)
            VALUES ($1, $2, $3, $4, $5)
        `, item.OrderID, item.MedicineID, item.Name, item.Quantity, item.UnitPrice)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*repository.Order, error) {
	var order repository.Order
	err := r.db.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) GetByIDTx(ctx context.Context, tx db.Tx, id string) (*repository.Order, error) {
	var order repository.Order
	err := tx.Get(ctx, &order, "SELECT * FROM orders WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) GetItems(ctx context.Context, orderID string) ([]repository.OrderItem, error) {
	var items []repository.OrderItem
	err := r.db.Select(ctx, &items, `
        SELECT * FROM order_items WHERE order_id = $1 ORDER BY id ASC
    `, orderID)
	return items, err
}

// UpdateTx persists a mutated order with a compare-and-swap on version, so a
// racing transition fails with ErrVersionConflict instead of silently
// overwriting.
func (r *OrderRepo) UpdateTx(ctx context.Context, tx db.Tx, order *repository.Order) error {
	tag, err := tx.Exec(ctx, `
        UPDATE orders
        SET
            chemist_id = $1,
            status = $2,
            payment_status = $3,
            estimated_time = $4,
            tracking_id = $5,
            otp = $6,
            delivery_updated_at = $7,
            version = version + 1,
            updated_at = $8
        WHERE id = $9 AND version = $10
    `, order.ChemistID, order.Status, order.PaymentStatus,
		order.EstimatedTime, order.TrackingID, order.OTP, order.DeliveryUpdated,
		order.UpdatedAt, order.ID, order.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrVersionConflict
	}
	order.Version++
	return nil
}

// ClaimTx assigns an unassigned pending order to a chemist. The WHERE clause
// guarantees exactly one of two racing chemists wins.
func (r *OrderRepo) ClaimTx(ctx context.Context, tx db.Tx, orderID, chemistID string) (bool, error) {
	tag, err := tx.Exec(ctx, `
        UPDATE orders
        SET chemist_id = $1, status = 'accepted', version = version + 1, updated_at = $2
        WHERE id = $3 AND chemist_id IS NULL AND status = 'pending'
    `, chemistID, time.Now().UTC(), orderID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepo) SetRatingTx(ctx context.Context, tx db.Tx, orderID string, score int, review string) error {
	_, err := tx.Exec(ctx, `
        UPDATE orders
        SET rating_score = $1, rating_review = $2, updated_at = $3
        WHERE id = $4 AND rating_score IS NULL
    `, score, review, time.Now().UTC(), orderID)
	return err
}

func (r *OrderRepo) GetByKiosk(ctx context.Context, kioskID string) ([]*repository.Order, error) {
	var orders []*repository.Order
	err := r.db.Select(ctx, &orders, `
        SELECT * FROM orders
        WHERE kiosk_id = $1
        ORDER BY created_at DESC
    `, kioskID)
	return orders, err
}

// GetForChemist returns orders assigned to the chemist plus unassigned
// pending orders, emergencies first.
func (r *OrderRepo) GetForChemist(ctx context.Context, chemistID string) ([]*repository.Order, error) {
	var orders []*repository.Order
	err := r.db.Select(ctx, &orders, `
        SELECT * FROM orders
        WHERE chemist_id = $1 OR (chemist_id IS NULL AND status = 'pending')
        ORDER BY is_emergency DESC, created_at DESC
    `, chemistID)
	return orders, err
}

func (r *OrderRepo) GetAllActiveOrders(ctx context.Context) ([]*repository.Order, error) {
	var orders []*repository.Order
	err := r.db.Select(ctx, &orders, `
        SELECT * FROM orders
        WHERE status NOT IN ('rejected', 'cancelled', 'completed')
        ORDER BY created_at ASC
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to get all active orders: %w", err)
	}
	return orders, nil
}
