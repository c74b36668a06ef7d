package currency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const feedBody = `幣別,匯率,現金,即期,遠期10天,遠期30天,遠期60天,遠期90天,遠期120天,遠期150天,遠期180天,匯率,現金,即期,遠期10天,遠期30天,遠期60天,遠期90天,遠期120天,遠期150天,遠期180天
USD,本行買入,31.95500,32.28000,32.26100,32.22100,32.16500,32.11300,32.06100,32.01500,31.96900,本行賣出,32.62500,32.38000,32.35300,32.31500,32.26300,32.21500,32.16900,32.12900,32.08900
HKD,本行買入,3.95800,4.08100,4.07800,4.07300,4.06700,4.06200,4.05700,4.05300,4.04900,本行賣出,4.16300,4.14100,4.13900,4.13600,4.13200,4.12900,4.12700,4.12500,4.12400
EUR,本行買入,37.09000,37.71500,37.70200,37.68200,37.66400,37.65100,37.63500,37.62700,37.61600,本行賣出,38.26000,38.11500,38.10500,38.09200,38.08400,38.08200,38.07800,38.08400,38.08600
JPY,本行買入,0.19970,0.20490,0.20480,0.20460,0.20440,0.20420,0.20400,0.20390,0.20370,本行賣出,0.21080,0.20890,0.20880,0.20870,0.20850,0.20840,0.20830,0.20830,0.20820
`

// TestClient_Quotes verifies that the requested rows are parsed with the
// cash-sell column in position 12.
func TestClient_Quotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	quotes, err := client.Quotes(context.Background(), "USD", "EUR", "JPY")
	if err != nil {
		t.Fatalf("Quotes() error = %v", err)
	}

	tests := []struct {
		code     string
		cashSell string
		cashBuy  string
	}{
		{"USD", "32.62500", "31.95500"},
		{"EUR", "38.26000", "37.09000"},
		{"JPY", "0.21080", "0.19970"},
	}
	for _, tt := range tests {
		q, ok := quotes[tt.code]
		if !ok {
			t.Fatalf("Quotes() missing %s", tt.code)
		}
		if q.CashSell != tt.cashSell {
			t.Errorf("%s CashSell = %q, want %q", tt.code, q.CashSell, tt.cashSell)
		}
		if q.CashBuy != tt.cashBuy {
			t.Errorf("%s CashBuy = %q, want %q", tt.code, q.CashBuy, tt.cashBuy)
		}
	}
	if _, ok := quotes["HKD"]; ok {
		t.Error("Quotes() returned unrequested currency HKD")
	}
}

// TestClient_Quotes_MissingCurrency verifies that a requested code absent
// from the feed is an error, not a partial result.
func TestClient_Quotes_MissingCurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	if _, err := client.Quotes(context.Background(), "USD", "XXX"); err == nil {
		t.Fatal("Quotes() error = nil, want missing-currency error")
	}
}

// TestFetcher_Rates_Success verifies the happy path produces the three
// cash-sell quote strings with no error marker.
func TestFetcher_Rates_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	f := NewFetcher(NewClient(server.URL, 2*time.Second), nil)
	got := f.Rates(context.Background())

	if got.Error != "" {
		t.Fatalf("Rates() Error = %q, want empty", got.Error)
	}
	if got.USD != "32.62500" || got.EUR != "38.26000" || got.JPY != "0.21080" {
		t.Errorf("Rates() = %+v, want cash-sell quotes", got)
	}
}

// TestFetcher_Rates_Fallbacks verifies every failure path resolves to the
// documented marker and never to an error or partial value.
func TestFetcher_Rates_Fallbacks(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not,a,rate\nfeed"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			f := NewFetcher(NewClient(server.URL, 2*time.Second), nil)
			got := f.Rates(context.Background())
			if got.Error != FailureMarker {
				t.Errorf("Rates() Error = %q, want %q", got.Error, FailureMarker)
			}
			if got.USD != "" || got.EUR != "" || got.JPY != "" {
				t.Errorf("Rates() carried partial quotes on failure: %+v", got)
			}
		})
	}
}

// TestFetcher_Rates_NetworkFailure verifies a connection failure degrades to
// the marker.
func TestFetcher_Rates_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	f := NewFetcher(NewClient(server.URL, time.Second), nil)
	if got := f.Rates(context.Background()); got.Error != FailureMarker {
		t.Errorf("Rates() Error = %q, want %q", got.Error, FailureMarker)
	}
}

// TestFetcher_Rates_NotConfigured verifies a nil client yields the
// not-configured marker.
func TestFetcher_Rates_NotConfigured(t *testing.T) {
	f := NewFetcher(nil, nil)
	if got := f.Rates(context.Background()); got.Error != NotConfiguredMarker {
		t.Errorf("Rates() Error = %q, want %q", got.Error, NotConfiguredMarker)
	}
}
