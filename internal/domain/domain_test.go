package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"SUPER_ADMIN", "ADMIN", "STAFF"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, role.String())
	}

	_, err := ParseRole("MANAGER")
	assert.Error(t, err)
}

func TestParsePaymentType(t *testing.T) {
	_, err := ParsePaymentType("CASH")
	assert.NoError(t, err)
	_, err = ParsePaymentType("CARD")
	assert.NoError(t, err)
	_, err = ParsePaymentType("CRYPTO")
	assert.Error(t, err)
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
}

func TestCartTotal(t *testing.T) {
	empty := &Cart{}
	assert.True(t, empty.Total().IsZero())
	assert.True(t, empty.IsEmpty())

	cart := &Cart{Lines: []CartLine{
		{ProductID: "p1", UnitPrice: decimal.RequireFromString("8.99"), Quantity: 2},
		{ProductID: "p2", UnitPrice: decimal.RequireFromString("3.99"), Quantity: 1},
	}}
	assert.True(t, cart.Total().Equal(decimal.RequireFromString("21.97")), "got %s", cart.Total())

	// Pure: repeated calls agree.
	assert.True(t, cart.Total().Equal(cart.Total()))
}
