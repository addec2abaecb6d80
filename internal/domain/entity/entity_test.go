package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/suministros-api/internal/domain/entity"
)

func TestRequestStatus_SoloDesdePending(t *testing.T) {
	assert.True(t, entity.RequestPending.CanTransition(entity.RequestApproved))
	assert.True(t, entity.RequestPending.CanTransition(entity.RequestDenied))
	assert.False(t, entity.RequestPending.CanTransition(entity.RequestPending))

	for _, from := range []entity.RequestStatus{entity.RequestApproved, entity.RequestDenied} {
		for _, to := range []entity.RequestStatus{entity.RequestPending, entity.RequestApproved, entity.RequestDenied} {
			assert.False(t, from.CanTransition(to), "%s -> %s no debe permitirse", from, to)
		}
	}
	assert.False(t, entity.RequestStatus("CANCELLED").IsValid())
}

func TestSupply_StockBajo(t *testing.T) {
	s := &entity.Supply{Quantity: 5, MinimumThreshold: 5}
	assert.True(t, s.IsLowStock(), "quantity == minimumThreshold es stock bajo")

	s.Quantity = 8
	assert.False(t, s.IsLowStock())
	assert.True(t, s.IsNearLowStock(5))
	assert.False(t, s.IsNearLowStock(2))
}

func TestNotificationScope(t *testing.T) {
	assert.True(t, entity.Broadcast.IsBroadcast())
	assert.Equal(t, "user-42", entity.UserScope("42").Room())
}
