package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// CurrencyConverter converts an amount in USD to the gateway settlement
// currency. The initiator and the IPN handler both go through this
// interface so tests can plug in a fixed rate.
type CurrencyConverter interface {
	ConvertUSDToVND(amount float64) (float64, error)
}

// ExchangeRateService resolves USD -> VND through an external FX HTTP API.
type ExchangeRateService struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

var (
	currencyService *ExchangeRateService
	currencyOnce    sync.Once
)

// GetCurrencyService returns singleton instance of ExchangeRateService
func GetCurrencyService() *ExchangeRateService {
	currencyOnce.Do(func() {
		endpoint := os.Getenv("EXCHANGE_RATE_URL")
		if endpoint == "" {
			endpoint = "https://api.exchangerate.host/convert"
		}
		currencyService = &ExchangeRateService{
			endpoint: endpoint,
			apiKey:   os.Getenv("EXCHANGE_RATE_API_KEY"),
			httpClient: &http.Client{
				Timeout: 10 * time.Second,
			},
		}
	})
	return currencyService
}

// NewExchangeRateService creates a converter against a specific endpoint.
func NewExchangeRateService(endpoint, apiKey string) *ExchangeRateService {
	return &ExchangeRateService{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ConvertUSDToVND asks the FX API to convert the given USD amount.
func (s *ExchangeRateService) ConvertUSDToVND(amount float64) (float64, error) {
	url := fmt.Sprintf("%s?from=USD&to=VND&amount=%.2f", s.endpoint, amount)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return 0, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error making request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("exchange rate API error: %s", string(body))
	}

	var rateResp struct {
		Success bool    `json:"success"`
		Result  float64 `json:"result"`
	}
	if err := json.Unmarshal(body, &rateResp); err != nil {
		return 0, fmt.Errorf("error unmarshaling response: %v", err)
	}

	if rateResp.Result <= 0 {
		return 0, fmt.Errorf("exchange rate API returned no result")
	}

	return rateResp.Result, nil
}
