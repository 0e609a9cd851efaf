package model

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// metadata keys attached to every payment intent
const (
	MetadataOrderID           = "order_id"
	MetadataCustomerEmail     = "customer_email"
	MetadataCustomerName      = "customer_name"
	MetadataFulfillmentMethod = "fulfillment_method"
	MetadataSeedCount         = "seed_count"
)

// PaymentEvent is a verified gateway event reduced to what reconciliation needs.
type PaymentEvent struct {
	ID       string
	Type     string
	IntentID string
	Metadata map[string]string
}

func (e *PaymentEvent) OrderID() string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[MetadataOrderID]
}
