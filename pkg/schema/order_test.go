package schema

import (
	"testing"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderPlacedV1(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		vMarshal := OrderPlacedV1{
			OrderID:    "testOrderID",
			BuyerName:  "testName",
			BuyerEmail: "buyer@example.com",
			Street:     "1 Test St",
			City:       "Testville",
			State:      "TX",
			ZIP:        "75001",
			Items: []OrderItemV1{
				{ProductID: "p1", Name: "Holo Charizard", Quantity: 2},
				{ProductID: "p2", Name: "Graded Pikachu", Quantity: 1},
			},
			Asset:           "CARDS",
			AmountBaseUnits: "756000000000",
			TotalCents:      3780,
			ShippingCents:   0,
			TxHash:          "0xabc",
			PlacedAt:        1700000000,
		}

		var orderSchema avro.Schema

		require.NotPanics(t, func() {
			orderSchema = OrderPlacedV1Avro()
		})

		data, err := avro.Marshal(orderSchema, vMarshal)
		require.NoError(t, err)

		var vUnmarshal OrderPlacedV1
		err = avro.Unmarshal(orderSchema, data, &vUnmarshal)
		require.NoError(t, err)

		assert.Equal(t, vMarshal, vUnmarshal)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		orderSchema := OrderPlacedV1Avro()

		data, err := avro.Marshal(orderSchema, OrderPlacedV1{OrderID: "o1"})
		require.NoError(t, err)

		var v OrderPlacedV1
		require.NoError(t, avro.Unmarshal(orderSchema, data, &v))
		assert.Equal(t, "o1", v.OrderID)
		assert.Empty(t, v.Items)
	})
}
