package ecommerce

import "errors"

// maxResponseSize is the maximum allowed response size from a
// marketplace API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Transport errors shared by all connectors
var (
	ErrMarketplaceUnavailable   = errors.New("marketplace unavailable")
	ErrMarketplaceRequestFailed = errors.New("marketplace request failed")
)
