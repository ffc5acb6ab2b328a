package postgresql

import (
	"context"
	"fmt"

	"github.com/Shravanik22/MediLink/internal/db"
	"github.com/Shravanik22/MediLink/internal/repository"
)

type HealthMetricRepo struct {
	db db.DB
}

func NewHealthMetricRepo(db db.DB) *HealthMetricRepo {
	return &HealthMetricRepo{db: db}
}

func (r *HealthMetricRepo) Create(ctx context.Context, metric *repository.HealthMetric) error {
	query := `
        INSERT INTO health_metrics
            (kiosk_id, patient_name, patient_age, height_cm, weight_kg, bmi, bmi_category,
             bp_systolic, bp_diastolic, sugar_level, heart_rate, risk_flag, recorded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id
    `
	row := r.db.ExecQueryRow(ctx, query,
		metric.KioskID,
		metric.PatientName,
		metric.PatientAge,
		metric.HeightCM,
		metric.WeightKG,
		metric.BMI,
		metric.BMICategory,
		metric.BPSystolic,
		metric.BPDiastolic,
		metric.SugarLevel,
		metric.HeartRate,
		metric.RiskFlag,
		metric.RecordedAt,
	)
	if err := row.Scan(&metric.ID); err != nil {
		return fmt.Errorf("failed to insert health metric: %w", err)
	}
	return nil
}

func (r *HealthMetricRepo) GetByKiosk(ctx context.Context, kioskID string) ([]*repository.HealthMetric, error) {
	var metrics []*repository.HealthMetric
	err := r.db.Select(ctx, &metrics, `
        SELECT * FROM health_metrics
        WHERE kiosk_id = $1
        ORDER BY recorded_at DESC
    `, kioskID)
	return metrics, err
}

func (r *HealthMetricRepo) Analytics(ctx context.Context) ([]*repository.BMICategoryStat, error) {
	var stats []*repository.BMICategoryStat
	err := r.db.Select(ctx, &stats, `
        SELECT bmi_category, COUNT(*) AS count, AVG(sugar_level) AS avg_sugar
        FROM health_metrics
        GROUP BY bmi_category
        ORDER BY bmi_category
    `)
	return stats, err
}
