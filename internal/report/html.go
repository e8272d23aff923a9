package report

import (
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
)

// Money renders a dollar amount with thousands separators, or "-" for a
// value that does not parse as a finite number.
func Money(raw string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return moneyFloat(v)
}

func moneyFloat(v float64) string {
	s := fmt.Sprintf("%.2f", math.Abs(v))
	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// Pct renders a raw percent field to two decimals, or "-" when it does not
// parse.
func Pct(raw string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", v)
}

var reportTmpl = template.Must(template.New("report").Option("missingkey=zero").Funcs(template.FuncMap{
	"money":      Money,
	"moneyf":     moneyFloat,
	"pct":        Pct,
	"pctf":       func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	"signedPctf": func(v float64) template.HTML { return template.HTML(fmt.Sprintf("%+.2f%%", v)) },
}).Parse(reportHTML))

// RenderHTML renders the summary as a self-contained HTML email body.
func RenderHTML(s Summary, siteURL string) (string, error) {
	var b strings.Builder
	data := struct {
		Summary
		SiteURL string
	}{Summary: s, SiteURL: siteURL}
	if err := reportTmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return b.String(), nil
}

const reportHTML = `<!doctype html>
<html><body style="font-family:-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;color:#0b1221;background:#ffffff;margin:0;padding:16px;">
<div style="max-width:720px;margin:0 auto;">
  <h2 style="margin:0 0 4px 0;">Options Tracker &mdash; Update ({{.GeneratedAt.Format "2006-01-02"}})</h2>
  <div style="color:#6b7280;margin-bottom:12px;">Marked value via midpoint &minus; $0.05 (delayed quotes)</div>

  <div style="background:#f8fafc;border-radius:12px;padding:14px 16px;margin-bottom:12px;">
    <table role="presentation" style="width:100%;border-collapse:collapse">
      <tr>
        <td style="padding:6px 0;width:33%;">
          <div style="color:#6b7280;font-size:13px;">Total value</div>
          <div style="font-weight:700;font-size:22px;">{{moneyf .Stats.TotalValue}}</div>
        </td>
        <td style="padding:6px 0;width:33%;">
          <div style="color:#6b7280;font-size:13px;">Total return ($)</div>
          <div style="font-weight:700;font-size:22px;">{{moneyf .Stats.TotalPnL}}</div>
        </td>
        <td style="padding:6px 0;width:33%;">
          <div style="color:#6b7280;font-size:13px;">Total return (%)</div>
          <div style="font-weight:700;font-size:22px;">{{.Stats.FormatPct}}{{if .HasPeriodChange}} <span style="color:#6b7280;font-size:12px;">(&Delta; {{.Days}}d: {{signedPctf .PeriodChange}})</span>{{end}}</div>
        </td>
      </tr>
    </table>
  </div>

  {{if .HasDailyStats}}
  <div style="background:#f8fafc;border-radius:12px;padding:14px 16px;margin-bottom:12px;">
    <strong>Daily returns</strong>
    <table role="presentation" style="width:100%;border-collapse:collapse;margin-top:8px;">
      <tr>
        <td style="padding:4px 0;color:#6b7280;font-size:13px;">Best day</td>
        <td style="padding:4px 0;text-align:right;">{{.BestDay.Date}} ({{pctf .BestDay.PctReturn}})</td>
      </tr>
      <tr>
        <td style="padding:4px 0;color:#6b7280;font-size:13px;">Worst day</td>
        <td style="padding:4px 0;text-align:right;">{{.WorstDay.Date}} ({{pctf .WorstDay.PctReturn}})</td>
      </tr>
      <tr>
        <td style="padding:4px 0;color:#6b7280;font-size:13px;">Mean daily return</td>
        <td style="padding:4px 0;text-align:right;">{{pctf .MeanDailyPct}}</td>
      </tr>
    </table>
  </div>
  {{end}}

  {{if .PerUnderlying}}
  <div style="background:#f8fafc;border-radius:12px;padding:14px 16px;margin-bottom:12px;">
    <strong>By underlying</strong>
    <table style="width:100%;border-collapse:collapse;margin-top:8px;">
      <thead><tr>
        <th align="left" style="padding:8px;border-bottom:1px solid #e5e7eb;">Symbol</th>
        <th align="right" style="padding:8px;border-bottom:1px solid #e5e7eb;">Value</th>
        <th align="right" style="padding:8px;border-bottom:1px solid #e5e7eb;">P&amp;L</th>
        <th align="right" style="padding:8px;border-bottom:1px solid #e5e7eb;">Return</th>
      </tr></thead>
      <tbody>
      {{range .PerUnderlying}}
      <tr>
        <td style="padding:8px;border-bottom:1px solid #e5e7eb;">{{.Underlying}}</td>
        <td style="padding:8px;border-bottom:1px solid #e5e7eb;text-align:right;">{{moneyf .Stats.TotalValue}}</td>
        <td style="padding:8px;border-bottom:1px solid #e5e7eb;text-align:right;">{{moneyf .Stats.TotalPnL}}</td>
        <td style="padding:8px;border-bottom:1px solid #e5e7eb;text-align:right;">{{.Stats.FormatPct}}</td>
      </tr>
      {{end}}
      </tbody>
    </table>
  </div>
  {{end}}

  <div style="background:#f8fafc;border-radius:12px;padding:14px 16px;margin-top:12px;">
    <strong>Latest positions{{if .LatestDate}} ({{.LatestDate}}){{end}}</strong>
    {{if .Latest}}
    <table style="width:100%;border-collapse:collapse;margin-top:8px;">
      <thead><tr>
        <th align="left"  style="padding:8px;border-bottom:1px solid #e5e7eb;">Symbol</th>
        <th align="right" style="padding:8px;border-bottom:1px solid #e5e7eb;">Contracts</th>
        <th align="right" style="padding:8px;border-bottom:1px solid #e5e7eb;">Price</th>
        <th align="right" style="padding:8px;border-bottom:1px solid #e5e7eb;">Value</th>
        <th align="right" style="padding:8px;border-bottom:1px solid #e5e7eb;">P&amp;L</th>
        <th align="right" style="padding:8px;border-bottom:1px solid #e5e7eb;">P&amp;L %</th>
      </tr></thead>
      <tbody>
      {{range .Latest}}
      <tr>
        <td style="padding:8px;border-bottom:1px solid #e5e7eb;">{{.symbolKey}}</td>
        <td style="padding:8px;border-bottom:1px solid #e5e7eb;text-align:right;">{{.contracts}}</td>
        <td style="padding:8px;border-bottom:1px solid #e5e7eb;text-align:right;">{{money .price}}</td>
        <td style="padding:8px;border-bottom:1px solid #e5e7eb;text-align:right;">{{money .value}}</td>
        <td style="padding:8px;border-bottom:1px solid #e5e7eb;text-align:right;">{{money .pnl}}</td>
        <td style="padding:8px;border-bottom:1px solid #e5e7eb;text-align:right;">{{pct .pnl_pct}}</td>
      </tr>
      {{end}}
      </tbody>
    </table>
    {{else}}
    <div style="color:#6b7280;margin-top:8px;">No positions recorded yet.</div>
    {{end}}
  </div>

  <div style="color:#6b7280;font-size:12px;margin-top:12px;">Sent automatically by the options tracker.{{if .SiteURL}} <a href="{{.SiteURL}}" style="color:#6b7280;">Dashboard</a>{{end}}</div>
</div>
</body></html>`
