// Package report builds the periodic HTML portfolio report from the snapshot
// logs and delivers it over SMTP.
package report

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"optrack/internal/series"
	"optrack/internal/tracklog"
)

// DayStat is one dated percent-return sample, used for best/worst day.
type DayStat struct {
	Date      string
	PctReturn float64
}

// UnderlyingStat carries the latest derived figures for one underlying.
type UnderlyingStat struct {
	Underlying string
	Stats      series.HeaderStats
}

// Summary is everything the report template needs, derived once from the
// logs. Zero-valued Has* flags mean the corresponding section renders a
// placeholder instead of a number.
type Summary struct {
	GeneratedAt time.Time
	Days        int

	Stats series.HeaderStats

	// PeriodChange is the percent-point move of the portfolio return over
	// the trailing window: today's return minus the return on the last day
	// at least Days ago.
	PeriodChange    float64
	HasPeriodChange bool

	BestDay       DayStat
	WorstDay      DayStat
	MeanDailyPct  float64
	HasDailyStats bool

	Latest        []tracklog.Record
	LatestDate    string
	PerUnderlying []UnderlyingStat
}

// Build derives a Summary from the parsed logs. days sets the trailing
// comparison window. Empty logs produce a Summary whose sections all carry
// placeholders; Build never fails.
func Build(positions, portfolio []tracklog.Record, days int, now time.Time) Summary {
	points := series.ComputeSeriesAll(portfolio)

	s := Summary{
		GeneratedAt: now,
		Days:        days,
		Stats:       series.Project(points),
		Latest:      series.LatestPositions(positions),
	}
	if len(s.Latest) > 0 {
		s.LatestDate = s.Latest[0][tracklog.ColDate]
	}

	if len(points) > 0 {
		s.PeriodChange, s.HasPeriodChange = periodChange(points, days)

		pcts := make([]float64, len(points))
		for i, p := range points {
			pcts[i] = p.PctReturn
		}
		s.BestDay = DayStat{
			Date:      points[floats.MaxIdx(pcts)].Date,
			PctReturn: floats.Max(pcts),
		}
		s.WorstDay = DayStat{
			Date:      points[floats.MinIdx(pcts)].Date,
			PctReturn: floats.Min(pcts),
		}
		s.MeanDailyPct = stat.Mean(pcts, nil)
		s.HasDailyStats = true
	}

	for _, u := range series.Underlyings(positions) {
		upts := series.ComputeSeriesUnderlying(positions, u)
		s.PerUnderlying = append(s.PerUnderlying, UnderlyingStat{
			Underlying: u,
			Stats:      series.Project(upts),
		})
	}
	sort.Slice(s.PerUnderlying, func(i, j int) bool {
		return s.PerUnderlying[i].Underlying < s.PerUnderlying[j].Underlying
	})

	return s
}

// periodChange finds the last point dated at least `days` before the latest
// point and returns the difference of the two percent returns. There is no
// comparison point when the series does not reach back that far.
func periodChange(points []series.Point, days int) (float64, bool) {
	latest := points[len(points)-1]
	latestDay, err := time.Parse("2006-01-02", latest.Date)
	if err != nil {
		return 0, false
	}
	cutoff := latestDay.AddDate(0, 0, -days).Format("2006-01-02")

	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Date <= cutoff {
			return latest.PctReturn - points[i].PctReturn, true
		}
	}
	return 0, false
}
