//go:generate mockgen -source ./controller.go -destination=./mocks/controller.go -package=complaint_mocks
package complaint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Shravanik22/MediLink/internal/metrics"
	"github.com/Shravanik22/MediLink/internal/repository"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Repository interface {
	Create(ctx context.Context, complaint *repository.Complaint) error
	GetByID(ctx context.Context, id string) (*repository.Complaint, error)
	Update(ctx context.Context, complaint *repository.Complaint) error
	List(ctx context.Context) ([]*repository.Complaint, error)
}

type CreateInput struct {
	Title       string
	Description string
	OrderID     string
	Priority    string
}

type ResolveInput struct {
	Status     string
	Resolution string
}

// Controller manages the complaint ticket lifecycle. Tickets open at "open"
// and only admins move them forward; resolution details are recorded on the
// resolved and closed states.
type Controller struct {
	complaints Repository
	logger     *zap.Logger
}

func NewController(complaints Repository, logger *zap.Logger) *Controller {
	return &Controller{complaints: complaints, logger: logger}
}

func newComplaintCode() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "CMP-" + strings.ToUpper(raw[:6])
}

func (c *Controller) Create(ctx context.Context, userID string, in CreateInput) (*repository.Complaint, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}

	now := time.Now().UTC()
	ticket := &repository.Complaint{
		ID:          newComplaintCode(),
		Title:       in.Title,
		Description: in.Description,
		UserID:      userID,
		Status:      StatusOpen,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.OrderID != "" {
		ticket.OrderID = &in.OrderID
	}

	if err := c.complaints.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	metrics.ComplaintsCreatedTotal.Inc()
	c.logger.Info("complaint created",
		zap.String("complaint_id", ticket.ID),
		zap.String("priority", ticket.Priority),
	)
	return ticket, nil
}

func (c *Controller) List(ctx context.Context) ([]*repository.Complaint, error) {
	complaints, err := c.complaints.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}

// Resolve moves a ticket to in-progress, resolved or closed. Reopening is not
// supported and terminal tickets stay put.
func (c *Controller) Resolve(ctx context.Context, adminID, complaintID string, in ResolveInput) (*repository.Complaint, error) {
	switch in.Status {
	case StatusInProgress, StatusResolved, StatusClosed:
	default:
		return nil, fmt.Errorf("%w: unknown target status %q", ErrValidation, in.Status)
	}

	ticket, err := c.complaints.GetByID(ctx, complaintID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}

	if ticket.Status == StatusResolved || ticket.Status == StatusClosed {
		return nil, fmt.Errorf("%w: complaint is already %s", ErrValidation, ticket.Status)
	}

	now := time.Now().UTC()
	ticket.Status = in.Status
	ticket.UpdatedAt = now
	if in.Resolution != "" {
		ticket.Resolution = &in.Resolution
	}
	if in.Status == StatusResolved || in.Status == StatusClosed {
		ticket.ResolvedBy = &adminID
		ticket.ResolvedAt = &now
	}

	if err := c.complaints.Update(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}

	return ticket, nil
}
