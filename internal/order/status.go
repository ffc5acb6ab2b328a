package order

import "fmt"

type Status string

const (
	StatusPending        Status = "pending"
	StatusAccepted       Status = "accepted"
	StatusPacked         Status = "packed"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCompleted      Status = "completed"
	StatusRejected       Status = "rejected"
	StatusCancelled      Status = "cancelled"
)

type Role string

const (
	RoleKiosk   Role = "kiosk"
	RoleChemist Role = "chemist"
	RoleAdmin   Role = "admin"
)

type PaymentMode string

const (
	PaymentCOD  PaymentMode = "COD"
	PaymentUPI  PaymentMode = "UPI"
	PaymentCard PaymentMode = "CARD"
)

const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// transitions is the explicit state machine: only listed (from -> to) pairs
// are permitted. Missing states are terminal.
var transitions = map[Status][]Status{
	StatusPending:        {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:       {StatusPacked, StatusCancelled},
	StatusPacked:         {StatusOutForDelivery},
	StatusOutForDelivery: {StatusDelivered},
	StatusDelivered:      {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Cancellable reports whether an order may still be cancelled, i.e. it has
// not entered the fulfilment phase.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusAccepted
}

func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusAccepted, StatusPacked, StatusOutForDelivery,
		StatusDelivered, StatusCompleted, StatusRejected, StatusCancelled:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, raw)
	}
}

func ParsePaymentMode(raw string) (PaymentMode, error) {
	if raw == "" {
		return PaymentCOD, nil
	}
	switch m := PaymentMode(raw); m {
	case PaymentCOD, PaymentUPI, PaymentCard:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown payment mode %q", ErrValidation, raw)
	}
}
