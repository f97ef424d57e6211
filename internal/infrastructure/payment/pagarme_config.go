package payment

import "errors"

const pagarmeDefaultBaseURL = "https://api.pagar.me/1"

// PagarmeConfig contains configuration for the Pagarme REST API
type PagarmeConfig struct {
	// APIKey authenticates every request
	APIKey string
	// APIBaseURL overrides the production endpoint, mainly for tests
	APIBaseURL string
}

// Errors for configuration validation
var (
	ErrPagarmeMissingAPIKey = errors.New("pagarme: missing API key")
)

// Validate validates the configuration and fills defaults
func (c *PagarmeConfig) Validate() error {
	if c.APIKey == "" {
		return ErrPagarmeMissingAPIKey
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = pagarmeDefaultBaseURL
	}
	return nil
}
