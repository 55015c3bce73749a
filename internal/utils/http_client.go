package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient wraps resty.Client for talking to the vault server.
// Embedding *resty.Client exposes the full resty API directly while
// leaving room for application-specific behavior on top.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().Get(baseURL + "/api/vault/profile")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates and returns a new HTTPClient instance
// with a default-configured underlying resty.Client.
//
// Each call returns an independent client instance with its own
// configuration, connection pool, and state.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().
//	    SetHeader("Accept", "application/json").
//	    Get(baseURL + "/api/ledger/records")
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
