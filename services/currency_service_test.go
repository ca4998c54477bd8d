package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConvertUSDToVND(t *testing.T) {
	tests := []struct {
		name           string
		mockResponse   string
		mockStatusCode int
		want           float64
		wantErr        bool
	}{
		{
			name:           "successful conversion",
			mockResponse:   `{"success": true, "result": 2512500.0}`,
			mockStatusCode: http.StatusOK,
			want:           2512500.0,
		},
		{
			name:           "api error status",
			mockResponse:   `{"error": "rate limit"}`,
			mockStatusCode: http.StatusTooManyRequests,
			wantErr:        true,
		},
		{
			name:           "zero result",
			mockResponse:   `{"success": false, "result": 0}`,
			mockStatusCode: http.StatusOK,
			wantErr:        true,
		},
		{
			name:           "malformed body",
			mockResponse:   `{not json`,
			mockStatusCode: http.StatusOK,
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("from"); got != "USD" {
					t.Errorf("from = %q, want USD", got)
				}
				if got := r.URL.Query().Get("to"); got != "VND" {
					t.Errorf("to = %q, want VND", got)
				}
				w.WriteHeader(tt.mockStatusCode)
				w.Write([]byte(tt.mockResponse))
			}))
			defer srv.Close()

			svc := NewExchangeRateService(srv.URL, "")
			got, err := svc.ConvertUSDToVND(100.0)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ConvertUSDToVND() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ConvertUSDToVND() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvertUSDToVNDSendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("apikey"); got != "secret-key" {
			t.Errorf("apikey header = %q, want %q", got, "secret-key")
		}
		w.Write([]byte(`{"success": true, "result": 25000}`))
	}))
	defer srv.Close()

	svc := NewExchangeRateService(srv.URL, "secret-key")
	if _, err := svc.ConvertUSDToVND(1.0); err != nil {
		t.Fatalf("ConvertUSDToVND() error = %v", err)
	}
}
