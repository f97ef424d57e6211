package ecommerce

import "errors"

const mercadoLivreDefaultBaseURL = "https://api.mercadolibre.com"

// MercadoLivreConfig contains configuration for the Mercado Livre API
type MercadoLivreConfig struct {
	// AccessToken is the OAuth access token for the seller account
	AccessToken string
	// SellerID is the numeric seller account ID
	SellerID string
	// APIBaseURL overrides the production endpoint, mainly for tests
	APIBaseURL string
	// TimeoutSeconds bounds each HTTP call; defaults to 30
	TimeoutSeconds int
}

// Errors for configuration validation
var (
	ErrMercadoLivreMissingAccessToken = errors.New("mercadolivre: missing access token")
	ErrMercadoLivreMissingSellerID    = errors.New("mercadolivre: missing seller ID")
)

// Validate validates the configuration and fills defaults
func (c *MercadoLivreConfig) Validate() error {
	if c.AccessToken == "" {
		return ErrMercadoLivreMissingAccessToken
	}
	if c.SellerID == "" {
		return ErrMercadoLivreMissingSellerID
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = mercadoLivreDefaultBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
