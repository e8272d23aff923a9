package fetch

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"optrack/internal/pricing"
)

// Quoter fetches the latest market data for one option contract, addressed
// by its OCC symbol.
type Quoter interface {
	OptionQuote(ctx context.Context, occSymbol string) (pricing.Quote, error)
}

// alpacaQuoter implements Quoter against the Alpaca option market-data API.
type alpacaQuoter struct {
	client *marketdata.Client
	feed   marketdata.OptionFeed
}

// NewAlpacaQuoter creates a Quoter backed by Alpaca. feed selects the option
// feed ("indicative" or "opra", subscription permitting).
func NewAlpacaQuoter(apiKey, apiSecret, dataURL, feed string) Quoter {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}

	return &alpacaQuoter{
		client: marketdata.NewClient(opts),
		feed:   marketdata.OptionFeed(feed),
	}
}

// OptionQuote returns the latest quote and trade for the contract in one
// snapshot call. A contract the feed does not know yields an error; the job
// decides how to degrade.
func (q *alpacaQuoter) OptionQuote(ctx context.Context, occSymbol string) (pricing.Quote, error) {
	if ctx.Err() != nil {
		return pricing.Quote{}, ctx.Err()
	}

	snap, err := q.client.GetOptionSnapshot(occSymbol, marketdata.GetOptionSnapshotRequest{
		Feed: q.feed,
	})
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("GetOptionSnapshot %s: %w", occSymbol, err)
	}
	if snap == nil {
		return pricing.Quote{}, fmt.Errorf("no snapshot for %s", occSymbol)
	}

	var out pricing.Quote
	if lq := snap.LatestQuote; lq != nil && (lq.BidPrice > 0 || lq.AskPrice > 0) {
		out.Bid = lq.BidPrice
		out.Ask = lq.AskPrice
		out.HasBidAsk = true
	}
	if lt := snap.LatestTrade; lt != nil && lt.Price > 0 {
		out.Last = lt.Price
		out.HasLast = true
	}
	if !out.HasBidAsk && !out.HasLast {
		return pricing.Quote{}, fmt.Errorf("snapshot for %s has no quote or trade", occSymbol)
	}
	return out, nil
}
