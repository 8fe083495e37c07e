package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"go-currency-ledger"
)

const ApiUrlBase = "https://openexchangerates.org/api"

// Service is a source of current exchange rates, all expressed against one base currency.
type Service interface {
	Rates(ctx context.Context) (ledger.Rates, error)
}

// service openexchangerates.org API
type service struct {
	// url base API url
	url string

	// appID API credential
	appID string

	// client for HTTP requests
	client http.Client
}

// NewService constructs a valid Service for the openexchangerates.org API.
// An empty baseURL uses ApiUrlBase.
func NewService(baseURL string, appID string, timeout time.Duration) Service {
	if baseURL == "" {
		baseURL = ApiUrlBase
	}
	return &service{
		url:   baseURL,
		appID: appID,
		client: http.Client{
			Timeout: timeout,
		},
	}
}

// Rates loads the latest rates. Anything but a 200 with a non-empty rate table is a failure.
func (s *service) Rates(ctx context.Context) (ledger.Rates, error) {
	type Response struct {
		Base      string
		Timestamp int64
		Rates     map[string]decimal.Decimal // maps currency codes to rates
	}

	u := fmt.Sprintf("%v/latest.json?app_id=%v", s.url, url.QueryEscape(s.appID))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building http request: %w", err)
	}
	httpResponse, err := s.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http get: unexpected status %v", httpResponse.Status)
	}

	bytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}

	var response Response
	err = json.Unmarshal(bytes, &response)
	if err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	if len(response.Rates) == 0 {
		return nil, fmt.Errorf("decoding json: no rates in response")
	}

	rates := ledger.Rates{}
	for k, v := range response.Rates {
		rates[ledger.Currency(k)] = v
	}
	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("bad rate value: %w", err)
	}

	return rates, nil
}
