package schema

import "github.com/hamba/avro/v2"

const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "orders",
	"name": "order_placed",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "buyer_name", "type": "string"},
		{"name": "buyer_email", "type": "string"},
		{"name": "street", "type": "string"},
		{"name": "city", "type": "string"},
		{"name": "state", "type": "string"},
		{"name": "zip", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_item",
				"fields": [
					{"name": "product_id", "type": "string"},
					{"name": "name", "type": "string"},
					{"name": "quantity", "type": "int"}
				]
			}
		}},
		{"name": "asset", "type": "string"},
		{"name": "amount_base_units", "type": "string"},
		{"name": "total_cents", "type": "long"},
		{"name": "shipping_cents", "type": "long"},
		{"name": "tx_hash", "type": "string"},
		{"name": "placed_at", "type": "long"}
	]
}`

type (
	OrderPlacedV1 struct {
		OrderID         string        `avro:"order_id"`
		BuyerName       string        `avro:"buyer_name"`
		BuyerEmail      string        `avro:"buyer_email"`
		Street          string        `avro:"street"`
		City            string        `avro:"city"`
		State           string        `avro:"state"`
		ZIP             string        `avro:"zip"`
		Items           []OrderItemV1 `avro:"items"`
		Asset           string        `avro:"asset"`
		AmountBaseUnits string        `avro:"amount_base_units"`
		TotalCents      int64         `avro:"total_cents"`
		ShippingCents   int64         `avro:"shipping_cents"`
		TxHash          string        `avro:"tx_hash"`
		PlacedAt        int64         `avro:"placed_at"`
	}

	OrderItemV1 struct {
		ProductID string `avro:"product_id"`
		Name      string `avro:"name"`
		Quantity  int    `avro:"quantity"`
	}
)

// OrderPlacedV1Avro parses the v1 schema. Panics on malformed schema text,
// which is a developer mistake.
func OrderPlacedV1Avro() avro.Schema {
	return avro.MustParse(OrderPlacedSchemaTextV1)
}
