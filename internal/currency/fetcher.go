package currency

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/siweifamily/dashboard/internal/models"
	"github.com/siweifamily/dashboard/internal/observability"
)

// Failure markers rendered in place of the quotes. The feed contract is
// total: callers always get a displayable CurrencyRates value.
const (
	FailureMarker       = "匯率讀取失敗"
	NotConfiguredMarker = "匯率來源未設定"
)

// Fetcher turns the raw feed into the dashboard's CurrencyRates value. The
// displayed rate is the cash-sell column, matching what the original rate
// widget showed.
type Fetcher struct {
	client *Client
	logger *zap.Logger
}

// NewFetcher creates a Fetcher. client may be nil when no rate source is
// configured; Rates then yields the not-configured marker.
func NewFetcher(client *Client, logger *zap.Logger) *Fetcher {
	return &Fetcher{client: client, logger: logger}
}

// Rates fetches the USD/EUR/JPY cash-sell quotes. Any failure resolves to
// the fixed marker; this method never returns an error.
func (f *Fetcher) Rates(ctx context.Context) models.CurrencyRates {
	if f.client == nil {
		return models.CurrencyRates{Error: NotConfiguredMarker}
	}

	start := time.Now()
	quotes, err := f.client.Quotes(ctx, "USD", "EUR", "JPY")
	seconds := time.Since(start).Seconds()
	if err != nil {
		observability.RecordFeedFetch("currency", true, seconds)
		if f.logger != nil {
			f.logger.Warn("currency fetch failed", zap.Error(err))
		}
		return models.CurrencyRates{Error: FailureMarker}
	}

	observability.RecordFeedFetch("currency", false, seconds)
	return models.CurrencyRates{
		USD: quotes["USD"].CashSell,
		EUR: quotes["EUR"].CashSell,
		JPY: quotes["JPY"].CashSell,
	}
}
