package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/braintree-go/braintree-go"

	"go-storefront/models"
)

// Braintree submits transactions through the Braintree SDK.
type Braintree struct {
	bt *braintree.Braintree
}

// NewBraintree builds a gateway for the named environment ("sandbox" or
// "production").
func NewBraintree(env, merchantID, publicKey, privateKey string) (*Braintree, error) {
	environment, err := braintree.EnvironmentFromName(env)
	if err != nil {
		return nil, fmt.Errorf("braintree environment %q: %w", env, err)
	}
	return &Braintree{
		bt: braintree.New(environment, merchantID, publicKey, privateKey),
	}, nil
}

func (g *Braintree) ClientToken(ctx context.Context) (string, error) {
	return g.bt.ClientToken().Generate(ctx)
}

func (g *Braintree) Sale(ctx context.Context, nonce string, amount float64) (models.PaymentResult, error) {
	cents := int64(math.Round(amount * 100))
	decimal := braintree.NewDecimal(cents, 2)

	result := models.PaymentResult{
		Params: models.TransactionParams{
			Transaction: models.Transaction{
				Amount:             decimal.String(),
				PaymentMethodNonce: nonce,
				Options:            models.TransactionOptions{SubmitForSettlement: true},
				Type:               "sale",
			},
		},
	}

	tx, err := g.bt.Transaction().Create(ctx, &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             decimal,
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	})
	if err != nil {
		result.Success = false
		result.Message = err.Error()
		result.Errors = err.Error()
		return result, err
	}

	result.Success = true
	result.Message = string(tx.Status)
	return result, nil
}
