package payment

import (
	"context"

	"go-storefront/models"
)

// Gateway is the payment collaborator: tokenization for the client and sale
// submission at checkout. Implementations must return a PaymentResult that
// can be stored on the order as-is, even when the sale fails.
type Gateway interface {
	ClientToken(ctx context.Context) (string, error)
	Sale(ctx context.Context, nonce string, amount float64) (models.PaymentResult, error)
}
