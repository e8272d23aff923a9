// Package pricing computes daily mark prices for option contracts and the
// OCC symbology used to query them.
package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Quote carries the raw market data for one contract. HasBidAsk is true only
// when both sides of the book were present; HasLast when a last trade price
// is known.
type Quote struct {
	Bid, Ask, Last float64
	HasBidAsk      bool
	HasLast        bool
}

// markDiscount is subtracted from the midpoint (or last price) so a stale or
// wide quote marks conservatively.
var markDiscount = decimal.NewFromFloat(0.05)

// Mark computes the per-contract mark price: max((bid+ask)/2 − 0.05, 0.00),
// falling back to max(last − 0.05, 0.00) when the book is one-sided or
// empty, and 0.00 when no data is available at all. The result carries
// exactly two decimal places.
func Mark(q Quote) decimal.Decimal {
	var px decimal.Decimal
	switch {
	case q.HasBidAsk:
		bid := decimal.NewFromFloat(q.Bid)
		ask := decimal.NewFromFloat(q.Ask)
		px = bid.Add(ask).Div(decimal.NewFromInt(2)).Sub(markDiscount)
	case q.HasLast:
		px = decimal.NewFromFloat(q.Last).Sub(markDiscount)
	default:
		return decimal.Zero.Round(2)
	}

	if px.IsNegative() {
		px = decimal.Zero
	}
	return px.Round(2)
}

// ContractValue is price × contracts × 100 (one contract controls 100
// shares), rounded to cents.
func ContractValue(price decimal.Decimal, contracts int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(contracts))).Mul(decimal.NewFromInt(100)).Round(2)
}

// OCCSymbol builds the OCC option symbol for the contract, e.g.
// AAPL250919C00200000 for the AAPL 2025-09-19 200 call. Strike is encoded as
// price × 1000 in eight digits. typ is "call"/"put" (any prefix casing).
func OCCSymbol(underlying string, expiry time.Time, typ string, strike float64) string {
	cp := "P"
	if strings.HasPrefix(strings.ToLower(typ), "c") {
		cp = "C"
	}
	milli := decimal.NewFromFloat(strike).Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
	return fmt.Sprintf("%s%s%s%08d", strings.ToUpper(underlying), expiry.Format("060102"), cp, milli)
}

// SymbolKey builds the human-readable composite identifier written to the
// log, e.g. "AAPL 2025-09-19 C 200". The first token is the underlying; the
// dashboard derives its filter from it.
func SymbolKey(underlying string, expiry time.Time, typ string, strike float64) string {
	cp := "P"
	if strings.HasPrefix(strings.ToLower(typ), "c") {
		cp = "C"
	}
	return fmt.Sprintf("%s %s %s %s", strings.ToUpper(underlying),
		expiry.Format("2006-01-02"), cp, decimal.NewFromFloat(strike).String())
}
