package fetch

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"optrack/internal/pricing"
	"optrack/internal/tracklog"
	"optrack/internal/util"
)

// Job prices the configured positions and appends one day's snapshots to the
// logs. The whole day is built in memory first and appended in one batch per
// log, so a failing run leaves no partial day behind.
type Job struct {
	dir         tracklog.Dir
	quoter      Quoter
	positions   []Position
	maxAttempts int
	limiter     *util.RateLimiter
	log         *slog.Logger
	now         func() time.Time
}

// NewJob creates a snapshot job. rateLimitPerMin paces quote calls;
// maxAttempts bounds per-contract retries.
func NewJob(dir tracklog.Dir, quoter Quoter, positions []Position, maxAttempts, rateLimitPerMin int, log *slog.Logger) *Job {
	if log == nil {
		log = slog.Default()
	}
	return &Job{
		dir:         dir,
		quoter:      quoter,
		positions:   positions,
		maxAttempts: maxAttempts,
		limiter:     util.NewRateLimiter(rateLimitPerMin),
		log:         log.With("job", "snapshot"),
		now:         time.Now,
	}
}

// Name returns the job identifier used in scheduler logs.
func (j *Job) Name() string { return "snapshot" }

// Run executes one snapshot pass: one history row per position (a failed
// quote keeps its row with a 0.00 mark so missing contracts stay visible),
// one portfolio total row, then the last-run stamp. The date key is the
// current UTC calendar date.
func (j *Job) Run(ctx context.Context) error {
	now := j.now().UTC()
	date := now.Format("2006-01-02")

	rows := make([]tracklog.Record, 0, len(j.positions))
	totalValue := decimal.Zero
	totalCost := decimal.Zero

	for _, pos := range j.positions {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := j.limiter.Wait(ctx); err != nil {
			return err
		}

		expiry, err := pos.ExpiryTime()
		if err != nil {
			// LoadPositions validates expiries; reaching this means the
			// positions slice was built by hand.
			return err
		}
		occ := pricing.OCCSymbol(pos.Underlying, expiry, pos.Type, pos.Strike)

		var quote pricing.Quote
		err = util.Retry(ctx, j.maxAttempts, time.Second, func() error {
			var qerr error
			quote, qerr = j.quoter.OptionQuote(ctx, occ)
			return qerr
		})

		price := decimal.Zero
		if err != nil {
			j.log.Warn("quote unavailable, marking 0.00", "symbol", occ, "error", err)
		} else {
			price = pricing.Mark(quote)
		}

		value := pricing.ContractValue(price, pos.Contracts)
		cost := pricing.ContractValue(decimal.NewFromFloat(pos.CostPerContract), pos.Contracts)
		pnl := value.Sub(cost)
		pnlPct := decimal.Zero
		if cost.IsPositive() {
			pnlPct = pnl.Div(cost).Mul(decimal.NewFromInt(100))
		}

		totalValue = totalValue.Add(value)
		totalCost = totalCost.Add(cost)

		rows = append(rows, tracklog.Record{
			tracklog.ColDate:            date,
			tracklog.ColSymbolKey:       pricing.SymbolKey(pos.Underlying, expiry, pos.Type, pos.Strike),
			tracklog.ColUnderlying:      pos.Underlying,
			tracklog.ColExpiry:          pos.Expiry,
			tracklog.ColType:            normalizedType(pos.Type),
			tracklog.ColStrike:          decimal.NewFromFloat(pos.Strike).StringFixed(2),
			tracklog.ColContracts:       strconv.Itoa(pos.Contracts),
			tracklog.ColCostPerContract: decimal.NewFromFloat(pos.CostPerContract).StringFixed(2),
			tracklog.ColPrice:           price.StringFixed(2),
			tracklog.ColValue:           value.StringFixed(2),
			tracklog.ColPnL:             pnl.StringFixed(2),
			tracklog.ColPnLPct:          pnlPct.StringFixed(2),
		})
	}

	if err := j.dir.AppendPositions(rows); err != nil {
		return err
	}

	totalPnL := totalValue.Sub(totalCost)
	portfolioRow := tracklog.Record{
		tracklog.ColDate:           date,
		tracklog.ColTotalValue:     totalValue.StringFixed(2),
		tracklog.ColTotalCostBasis: totalCost.StringFixed(2),
		tracklog.ColTotalPnL:       totalPnL.StringFixed(2),
	}
	if err := j.dir.AppendPortfolio([]tracklog.Record{portfolioRow}); err != nil {
		return err
	}

	if err := j.dir.WriteLastRun(now); err != nil {
		return err
	}

	j.log.Info("snapshot appended",
		"date", date,
		"positions", len(rows),
		"total_value", totalValue.StringFixed(2),
		"total_pnl", totalPnL.StringFixed(2),
	)
	return nil
}

func normalizedType(typ string) string {
	if len(typ) > 0 && (typ[0] == 'c' || typ[0] == 'C') {
		return "call"
	}
	return "put"
}
