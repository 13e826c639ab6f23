package sap

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
)

var (
	// ErrCustomerNotFound means the directory answered and does not know the account.
	ErrCustomerNotFound = errors.New("sap: customer not found")
	// ErrDirectoryUnavailable means the directory could not be reached or
	// answered with a server error.
	ErrDirectoryUnavailable = errors.New("sap: directory unavailable")
)

type ClientConfig struct {
	RootURL string `json:"root_url" yaml:"root_url"`
	APIKey  string `json:"api_key" yaml:"api_key"`
	Timeout int    `json:"timeout" yaml:"timeout"`
}

// Client queries the external SAP customer directory.
type Client struct {
	rootURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(configs ClientConfig) *Client {
	return &Client{
		rootURL: configs.RootURL,
		apiKey:  configs.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(configs.Timeout) * time.Second,
		},
	}
}

// FindCustomer looks up a distributor account by company, country and account number.
func (c *Client) FindCustomer(companyCode string, countryCode string, accountNumber string) (*umTypes.SapCustomer, error) {
	reqURL := fmt.Sprintf("%s/customers/%s?companyCode=%s&countryCode=%s",
		c.rootURL,
		url.PathEscape(accountNumber),
		url.QueryEscape(companyCode),
		url.QueryEscape(countryCode),
	)

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("SAP directory request failed", slog.String("error", err.Error()))
		return nil, ErrDirectoryUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrCustomerNotFound
	case resp.StatusCode != http.StatusOK:
		slog.Error("unexpected SAP directory response", slog.Int("status", resp.StatusCode))
		return nil, ErrDirectoryUnavailable
	}

	var customer umTypes.SapCustomer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		slog.Error("error decoding SAP directory response", slog.String("error", err.Error()))
		return nil, ErrDirectoryUnavailable
	}
	return &customer, nil
}
