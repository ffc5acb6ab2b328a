//go:generate mockgen -source ./controller.go -destination=./mocks/controller.go -package=health_mocks
package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Shravanik22/MediLink/internal/metrics"
	"github.com/Shravanik22/MediLink/internal/notify"
	"github.com/Shravanik22/MediLink/internal/repository"
)

type Repository interface {
	Create(ctx context.Context, metric *repository.HealthMetric) error
	GetByKiosk(ctx context.Context, kioskID string) ([]*repository.HealthMetric, error)
	Analytics(ctx context.Context) ([]*repository.BMICategoryStat, error)
}

type RecordInput struct {
	PatientName string
	PatientAge  *int
	HeightCM    float64
	WeightKG    float64
	BPSystolic  int
	BPDiastolic int
	SugarLevel  int
	HeartRate   int
}

// Controller records kiosk screening readings. BMI, category and risk flag
// are derived here so stored rows are self-contained; a High reading pushes
// an alert back to the recording kiosk.
type Controller struct {
	records Repository
	gateway notify.Gateway
	logger  *zap.Logger
}

func NewController(records Repository, gateway notify.Gateway, logger *zap.Logger) *Controller {
	return &Controller{records: records, gateway: gateway, logger: logger}
}

func (c *Controller) Record(ctx context.Context, kioskID string, in RecordInput) (*repository.HealthMetric, error) {
	if strings.TrimSpace(in.PatientName) == "" {
		return nil, fmt.Errorf("%w: patient name is required", ErrValidation)
	}
	if in.HeightCM <= 0 || in.WeightKG <= 0 {
		return nil, fmt.Errorf("%w: height and weight must be positive", ErrValidation)
	}
	if in.BPSystolic <= 0 || in.BPDiastolic <= 0 {
		return nil, fmt.Errorf("%w: blood pressure readings must be positive", ErrValidation)
	}

	bmi := BMI(in.HeightCM, in.WeightKG)
	category := BMICategory(bmi)
	risk := RiskFlag(in.BPSystolic, in.SugarLevel, category)

	now := time.Now().UTC()
	metric := &repository.HealthMetric{
		KioskID:     kioskID,
		PatientName: in.PatientName,
		PatientAge:  in.PatientAge,
		HeightCM:    in.HeightCM,
		WeightKG:    in.WeightKG,
		BMI:         bmi,
		BMICategory: category,
		BPSystolic:  in.BPSystolic,
		BPDiastolic: in.BPDiastolic,
		SugarLevel:  in.SugarLevel,
		HeartRate:   in.HeartRate,
		RiskFlag:    risk,
		RecordedAt:  now,
	}

	if err := c.records.Create(ctx, metric); err != nil {
		return nil, fmt.Errorf("failed to record health metric: %w", err)
	}

	metrics.HealthReadingsTotal.WithLabelValues(risk).Inc()

	if risk == RiskHigh {
		c.gateway.SendTo(kioskID, notify.Event{
			Kind: notify.EventHealthAlert,
			Message: fmt.Sprintf("Risk detected: BP %d/%d, Sugar %d. Please consult a doctor.",
				in.BPSystolic, in.BPDiastolic, in.SugarLevel),
			At: now,
		})
		c.logger.Warn("high risk screening reading",
			zap.String("kiosk_id", kioskID),
			zap.Int("bp_systolic", in.BPSystolic),
			zap.Int("sugar_level", in.SugarLevel),
		)
	}

	return metric, nil
}

func (c *Controller) History(ctx context.Context, kioskID string) ([]*repository.HealthMetric, error) {
	records, err := c.records.GetByKiosk(ctx, kioskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get screening history: %w", err)
	}
	return records, nil
}

func (c *Controller) Analytics(ctx context.Context) ([]*repository.BMICategoryStat, error) {
	stats, err := c.records.Analytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate screening analytics: %w", err)
	}
	return stats, nil
}
