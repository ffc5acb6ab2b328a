package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to accepted", StatusPending, StatusAccepted, true},
		{"pending to rejected", StatusPending, StatusRejected, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to packed skips accept", StatusPending, StatusPacked, false},
		{"pending to delivered skips everything", StatusPending, StatusDelivered, false},
		{"accepted to packed", StatusAccepted, StatusPacked, true},
		{"accepted to cancelled", StatusAccepted, StatusCancelled, true},
		{"accepted to rejected", StatusAccepted, StatusRejected, false},
		{"packed to out_for_delivery", StatusPacked, StatusOutForDelivery, true},
		{"packed to cancelled", StatusPacked, StatusCancelled, false},
		{"out_for_delivery to delivered", StatusOutForDelivery, StatusDelivered, true},
		{"delivered to completed", StatusDelivered, StatusCompleted, true},
		{"delivered back to pending", StatusDelivered, StatusPending, false},
		{"completed is terminal", StatusCompleted, StatusPending, false},
		{"rejected is terminal", StatusRejected, StatusAccepted, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"unknown status", Status("bogus"), StatusAccepted, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusOutForDelivery.Terminal())
}

func TestCancellable(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusPending.Cancellable())
	assert.True(t, StatusAccepted.Cancellable())
	assert.False(t, StatusPacked.Cancellable())
	assert.False(t, StatusOutForDelivery.Cancellable())
	assert.False(t, StatusDelivered.Cancellable())
	assert.False(t, StatusCancelled.Cancellable())
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	s, err := ParseStatus("out_for_delivery")
	assert.NoError(t, err)
	assert.Equal(t, StatusOutForDelivery, s)

	_, err = ParseStatus("shipped")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestParsePaymentMode(t *testing.T) {
	t.Parallel()

	m, err := ParsePaymentMode("")
	assert.NoError(t, err)
	assert.Equal(t, PaymentCOD, m)

	m, err = ParsePaymentMode("UPI")
	assert.NoError(t, err)
	assert.Equal(t, PaymentUPI, m)

	_, err = ParsePaymentMode("barter")
	assert.ErrorIs(t, err, ErrValidation)
}
