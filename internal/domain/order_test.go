package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackNumber(t *testing.T) {
	id := "3f2b9c1e-7a4d-4e2f-9b1a-0c5d6e7f8a9b"
	assert.Equal(t, "3F2B9C1E", TrackNumber(id))
	assert.Equal(t, TrackNumber(id), TrackNumber(id))
	assert.Equal(t, "AB", TrackNumber("ab"))
	assert.Len(t, TrackNumber(id), TrackNumberLength)
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusAccepted, StatusPreparing, StatusProcessing} {
		assert.True(t, s.Valid(), s)
	}
	for _, s := range []OrderStatus{"completed", "cancelled", "", "shipped"} {
		assert.False(t, s.Valid(), s)
	}
	assert.True(t, OutcomeCompleted.Valid())
	assert.True(t, OutcomeCancelled.Valid())
	assert.False(t, ArchivedOutcome("pending").Valid())
}

func TestOrder_BeforeCreateRejectsArchivalStatus(t *testing.T) {
	o := &Order{Status: OrderStatus(OutcomeCompleted)}
	err := o.BeforeCreate(nil)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	o.Status = StatusPending
	assert.NoError(t, o.BeforeCreate(nil))
}

func TestNewHistoryRecord_CopiesOrder(t *testing.T) {
	o := &Order{
		ID:            "order-1",
		UserID:        "user-1",
		Items:         []CartLine{{ID: "p1", Price: 300, Quantity: 2}},
		TotalPrice:    600,
		CustomerName:  "Анна",
		CustomerPhone: "+79990000000",
		DeliveryDate:  "2026-10-20",
		Comment:       "без орехов",
		Status:        StatusPreparing,
		TrackNumber:   "ORDER1",
	}
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	rec := NewHistoryRecord("hist-1", o, OutcomeCompleted, at)
	o.Items[0].Quantity = 5

	assert.Equal(t, "order-1", rec.OrderID)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, int64(600), rec.TotalPrice)
	assert.Equal(t, 2, rec.Items[0].Quantity)
	assert.Equal(t, "без орехов", rec.Comment)
	assert.Equal(t, OutcomeCompleted, rec.Outcome)
	assert.Equal(t, at, rec.CompletedAt)
}

func TestParseOperatorCommand(t *testing.T) {
	const id = "3f2b9c1e-7a4d-4e2f-9b1a-0c5d6e7f8a9b"
	tests := []struct {
		data    string
		want    OperatorCommand
		wantErr bool
	}{
		{data: "accept_" + id, want: OperatorCommand{Action: ActionAccept, OrderID: id}},
		{data: "cancel_" + id, want: OperatorCommand{Action: ActionCancel, OrderID: id}},
		{data: "delivered_" + id, want: OperatorCommand{Action: ActionDelivered, OrderID: id}},
		{data: "refund_" + id, wantErr: true},
		{data: "accept_", wantErr: true},
		{data: "accept", wantErr: true},
		{data: "accept_not-a-uuid", wantErr: true},
		{data: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, err := ParseOperatorCommand(tt.data)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedCallback)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, ErrOrderNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrIdentifierNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrCodeExpired, ErrCodeInvalid)
	assert.False(t, errors.Is(ErrInvalidCredentials, ErrNotFound))

	verr := NewValidationError("phone", "bad")
	assert.ErrorIs(t, verr, ErrValidation)
	assert.Contains(t, verr.Error(), "phone: bad")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Готовится", StatusLabel(string(StatusPreparing)))
	assert.Equal(t, "Отменён", StatusLabel(string(OutcomeCancelled)))
	assert.Equal(t, "weird", StatusLabel("weird"))
}
