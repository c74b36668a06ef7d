// Package currency reads spot exchange quotes from the Bank of Taiwan
// daily CSV feed.
package currency

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"
)

const DefaultFeedURL = "https://rate.bot.com.tw/xrt/flcsv/0/day"

// Quote is one currency row of the feed. All four rates are kept verbatim
// as strings; the feed publishes them with trailing zeros that the page
// displays as-is.
type Quote struct {
	Currency string
	CashBuy  string
	SpotBuy  string
	CashSell string
	SpotSell string
}

// Client fetches and parses the CSV feed.
type Client struct {
	feedURL    string
	httpClient *http.Client
}

// NewClient creates a currency feed client. url falls back to the Bank of
// Taiwan endpoint when empty.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultFeedURL
	}
	return &Client{
		feedURL: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Feed row layout: column 0 is the currency code, columns 1 and 11 are the
// literal 本行買入/本行賣出 captions, 2/3 are cash/spot buy and 12/13 are
// cash/spot sell.
const (
	colCashBuy  = 2
	colSpotBuy  = 3
	colCashSell = 12
	colSpotSell = 13
	minColumns  = 14
)

// Quotes fetches the feed and returns the rows for the requested currency
// codes. A requested code absent from the feed is an error; callers degrade
// to the failure marker, never to a partial set.
func (c *Client) Quotes(ctx context.Context, codes ...string) (map[string]Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rate feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed: HTTP %d", resp.StatusCode)
	}

	wanted := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		wanted[code] = struct{}{}
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	quotes := make(map[string]Quote, len(codes))
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		if len(record) < minColumns {
			continue
		}
		if _, ok := wanted[record[0]]; !ok {
			continue
		}
		quotes[record[0]] = Quote{
			Currency: record[0],
			CashBuy:  record[colCashBuy],
			SpotBuy:  record[colSpotBuy],
			CashSell: record[colCashSell],
			SpotSell: record[colSpotSell],
		}
	}

	for code := range wanted {
		if _, ok := quotes[code]; !ok {
			return nil, fmt.Errorf("rate feed: currency %s not found", code)
		}
	}
	return quotes, nil
}
