// Package fuel scrapes the CPC fuel-grade prices from gas.goodlife.tw.
package fuel

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/siweifamily/dashboard/internal/models"
	"github.com/siweifamily/dashboard/internal/observability"
)

const (
	DefaultPageURL = "https://gas.goodlife.tw/"

	// FailureMarker replaces the whole structure on any fetch or parse
	// failure.
	FailureMarker = "油價連線失敗"

	// missingPrice is the per-grade placeholder for grades absent from the
	// scraped page.
	missingPrice = "--"

	// The price list sits inside the element with this id.
	priceContainerID = "cpc"

	// The page rejects default Go user agents; a browser-like one is enough.
	userAgent = "Mozilla/5.0"
)

// Scraper fetches and parses the fuel price page. The contract is total:
// Prices always returns a displayable FuelPrices value.
type Scraper struct {
	pageURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewScraper creates a Scraper. pageURL falls back to gas.goodlife.tw when
// empty.
func NewScraper(pageURL string, timeout time.Duration, logger *zap.Logger) *Scraper {
	if pageURL == "" {
		pageURL = DefaultPageURL
	}
	return &Scraper{
		pageURL: pageURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Prices fetches the page and extracts the 92/95/98 grade prices. A grade
// not found keeps "--"; any failure yields the global marker.
func (s *Scraper) Prices(ctx context.Context) models.FuelPrices {
	start := time.Now()
	prices, err := s.scrape(ctx)
	seconds := time.Since(start).Seconds()
	if err != nil {
		observability.RecordFeedFetch("fuel", true, seconds)
		if s.logger != nil {
			s.logger.Warn("fuel scrape failed", zap.Error(err))
		}
		return models.FuelPrices{Error: FailureMarker}
	}
	observability.RecordFeedFetch("fuel", false, seconds)
	return prices
}

func (s *Scraper) scrape(ctx context.Context) (models.FuelPrices, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL, nil)
	if err != nil {
		return models.FuelPrices{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.FuelPrices{}, fmt.Errorf("fetch fuel page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.FuelPrices{}, fmt.Errorf("fuel page: HTTP %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return models.FuelPrices{}, fmt.Errorf("parse fuel page: %w", err)
	}

	container := findByID(doc, priceContainerID)
	if container == nil {
		return models.FuelPrices{}, fmt.Errorf("fuel page: element #%s not found", priceContainerID)
	}

	prices := models.FuelPrices{
		Grade92: missingPrice,
		Grade95: missingPrice,
		Grade98: missingPrice,
	}
	for _, item := range listItems(container) {
		text := strings.TrimSpace(nodeText(item))
		price := priceAfterColon(text)
		if strings.Contains(text, "92") {
			prices.Grade92 = price
		}
		if strings.Contains(text, "95") {
			prices.Grade95 = price
		}
		if strings.Contains(text, "98") {
			prices.Grade98 = price
		}
	}
	return prices, nil
}

// priceAfterColon returns the trimmed substring after the last colon, or
// the whole trimmed text when no colon is present.
func priceAfterColon(text string) string {
	if i := strings.LastIndex(text, ":"); i >= 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return strings.TrimSpace(text)
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func listItems(n *html.Node) []*html.Node {
	var items []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "li" {
			items = append(items, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return items
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
