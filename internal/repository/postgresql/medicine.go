package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/Shravanik22/MediLink/internal/db"
	"github.com/Shravanik22/MediLink/internal/repository"
)

// MedicineRepo is read-only from the order flow's perspective: the controller
// denormalizes name and price into line items and never mutates stock.
type MedicineRepo struct {
	db db.DB
}

func NewMedicineRepo(db db.DB) *MedicineRepo {
	return &MedicineRepo{db: db}
}

func (r *MedicineRepo) GetByID(ctx context.Context, id string) (*repository.Medicine, error) {
	var med repository.Medicine
	err := r.db.Get(ctx, &med, "SELECT * FROM medicines WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &med, nil
}

func (r *MedicineRepo) GetLowStock(ctx context.Context, chemistID string) ([]*repository.Medicine, error) {
	var meds []*repository.Medicine
	err := r.db.Select(ctx, &meds, `
        SELECT * FROM medicines
        WHERE chemist_id = $1 AND stock_quantity <= low_stock_threshold
        ORDER BY stock_quantity ASC
    `, chemistID)
	return meds, err
}
