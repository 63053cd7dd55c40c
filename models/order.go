package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is one of a closed, case-sensitive literal set. The mixed
// casing is part of the wire format.
type OrderStatus string

const (
	StatusNotProcess OrderStatus = "Not Process"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancel     OrderStatus = "cancel"
)

// OrderStatuses lists every accepted literal. Transitions are flat: any
// status may replace any other.
var OrderStatuses = []OrderStatus{
	StatusNotProcess,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancel,
}

// Valid reports whether s is one of the accepted literals.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TransactionOptions mirrors the gateway's submission options.
type TransactionOptions struct {
	SubmitForSettlement bool `bson:"submitForSettlement" json:"submitForSettlement"`
}

// Transaction holds the parameters the gateway was called with.
type Transaction struct {
	Amount             string             `bson:"amount" json:"amount"`
	PaymentMethodNonce string             `bson:"paymentMethodNonce" json:"paymentMethodNonce"`
	Options            TransactionOptions `bson:"options" json:"options"`
	Type               string             `bson:"type" json:"type"`
}

// TransactionParams wraps the transaction for the stored payment blob.
type TransactionParams struct {
	Transaction Transaction `bson:"transaction" json:"transaction"`
}

// PaymentResult is the gateway's answer, stored verbatim on the order.
type PaymentResult struct {
	Success bool              `bson:"success" json:"success"`
	Message string            `bson:"message" json:"message"`
	Params  TransactionParams `bson:"params" json:"params"`
	Errors  string            `bson:"errors,omitempty" json:"errors,omitempty"`
}

// Order references its buyer and products; the products list must never be
// empty, which the store layer enforces before insert.
type Order struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id,omitempty"`
	Products  []primitive.ObjectID `bson:"products" json:"products"`
	Payment   PaymentResult        `bson:"payment" json:"payment"`
	Buyer     primitive.ObjectID   `bson:"buyer" json:"buyer"`
	Status    OrderStatus          `bson:"status" json:"status"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// BuyerRef is the populated buyer: id and name only.
type BuyerRef struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
}

// PopulatedOrder is the read-side order: product snapshots without photo
// bytes and the buyer's name resolved.
type PopulatedOrder struct {
	ID        primitive.ObjectID `json:"_id"`
	Products  []CatalogProduct   `json:"products"`
	Payment   PaymentResult      `json:"payment"`
	Buyer     BuyerRef           `json:"buyer"`
	Status    OrderStatus        `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
