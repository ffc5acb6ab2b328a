package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"github.com/Shravanik22/MediLink/internal/db"
	"github.com/Shravanik22/MediLink/internal/repository"
)

type ComplaintRepo struct {
	db db.DB
}

func NewComplaintRepo(db db.DB) *ComplaintRepo {
	return &ComplaintRepo{db: db}
}

func (r *ComplaintRepo) Create(ctx context.Context, complaint *repository.Complaint) error {
	query := `
        INSERT INTO complaints (id, title, description, user_id, order_id, status, priority, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.db.Exec(ctx, query,
		complaint.ID,
		complaint.Title,
		complaint.Description,
		complaint.UserID,
		complaint.OrderID,
		complaint.Status,
		complaint.Priority,
		complaint.CreatedAt,
		complaint.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert complaint: %w", err)
	}
	return nil
}

func (r *ComplaintRepo) GetByID(ctx context.Context, id string) (*repository.Complaint, error) {
	var complaint repository.Complaint
	err := r.db.Get(ctx, &complaint, "SELECT * FROM complaints WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &complaint, nil
}

func (r *ComplaintRepo) Update(ctx context.Context, complaint *repository.Complaint) error {
	query := `
        UPDATE complaints
        SET
            status = $2,
            resolution = $3,
            resolved_by = $4,
            resolved_at = $5,
            updated_at = $6
        WHERE id = $1
    `
	cmdTag, err := r.db.Exec(ctx, query,
		complaint.ID,
		complaint.Status,
		complaint.Resolution,
		complaint.ResolvedBy,
		complaint.ResolvedAt,
		complaint.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update complaint %s: %w", complaint.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return repository.ErrObjectNotFound
	}
	return nil
}

func (r *ComplaintRepo) List(ctx context.Context) ([]*repository.Complaint, error) {
	var complaints []*repository.Complaint
	err := r.db.Select(ctx, &complaints, "SELECT * FROM complaints ORDER BY created_at DESC")
	return complaints, err
}
