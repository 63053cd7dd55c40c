package config

import (
	"github.com/kelseyhightower/envconfig"
)

// App holds everything the server reads from the environment. A .env file,
// if present, is loaded by main before this runs.
type App struct {
	Port     string `envconfig:"PORT" default:"8080"`
	MongoURL string `envconfig:"MONGO_URL" default:"mongodb://localhost:27017"`
	DBName   string `envconfig:"DB_NAME" default:"storefront"`

	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// Email is optional; with no token the server simply sends nothing.
	PostmarkToken string `envconfig:"POSTMARK_API_TOKEN"`
	EmailSender   string `envconfig:"EMAIL_SENDER"`

	BraintreeEnv        string `envconfig:"BRAINTREE_ENV" default:"sandbox"`
	BraintreeMerchantID string `envconfig:"BRAINTREE_MERCHANT_ID"`
	BraintreePublicKey  string `envconfig:"BRAINTREE_PUBLIC_KEY"`
	BraintreePrivateKey string `envconfig:"BRAINTREE_PRIVATE_KEY"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
