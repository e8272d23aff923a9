package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"optrack/internal/series"
	"optrack/internal/tracklog"
	"optrack/internal/view"
)

// DashboardServer serves the dashboard HTTP API over the snapshot logs. The
// logs are loaded once at startup; /api/reload re-reads them on demand.
type DashboardServer struct {
	dir        tracklog.Dir
	controller *view.Controller
	webDir     string
	log        *slog.Logger
}

// NewDashboardServer creates a server over the given data directory. webDir,
// when non-empty and present on disk, is served as the static dashboard
// page. The controller starts in the whole-portfolio state.
func NewDashboardServer(dir tracklog.Dir, controller *view.Controller, webDir string, log *slog.Logger) *DashboardServer {
	if log == nil {
		log = slog.Default()
	}
	return &DashboardServer{
		dir:        dir,
		controller: controller,
		webDir:     webDir,
		log:        log.With("component", "httpapi"),
	}
}

// RegisterRoutes registers all API routes on the given mux.
func (s *DashboardServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/view", s.handleView)
	mux.HandleFunc("GET /api/series", s.handleSeriesAll)
	mux.HandleFunc("GET /api/series/{underlying}", s.handleSeriesUnderlying)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/positions/latest", s.handleLatest)
	mux.HandleFunc("GET /api/underlyings", s.handleUnderlyings)
	mux.HandleFunc("GET /api/lastrun", s.handleLastRun)
	mux.HandleFunc("POST /api/reload", s.handleReload)

	if s.webDir != "" {
		if _, err := os.Stat(s.webDir); err == nil {
			mux.Handle("GET /", http.FileServer(http.Dir(s.webDir)))
		} else {
			s.log.Warn("web dir not found, static page disabled", "dir", s.webDir)
		}
	}
}

// Handler returns an http.Handler with CORS middleware applied.
func (s *DashboardServer) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// handleView applies the filter named by the "underlying" query parameter
// (empty = whole portfolio) and returns the full render payload.
func (s *DashboardServer) handleView(w http.ResponseWriter, r *http.Request) {
	var v view.View
	if u := r.URL.Query().Get("underlying"); u != "" {
		v = s.controller.ApplyFilter(u)
	} else {
		v = s.controller.ResetFilter()
	}
	writeJSON(w, convertView(v))
}

func (s *DashboardServer) handleSeriesAll(w http.ResponseWriter, r *http.Request) {
	v := s.controller.ResetFilter()
	writeJSON(w, SeriesResponse{
		Label:   v.Label,
		Points:  emptyToSlice(v.Series),
		AxisMin: v.AxisMin,
		AxisMax: v.AxisMax,
	})
}

func (s *DashboardServer) handleSeriesUnderlying(w http.ResponseWriter, r *http.Request) {
	v := s.controller.ApplyFilter(r.PathValue("underlying"))
	writeJSON(w, SeriesResponse{
		Label:   v.Label,
		Points:  emptyToSlice(v.Series),
		AxisMin: v.AxisMin,
		AxisMax: v.AxisMax,
	})
}

func (s *DashboardServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	var v view.View
	if u := r.URL.Query().Get("underlying"); u != "" {
		v = s.controller.ApplyFilter(u)
	} else {
		v = s.controller.ResetFilter()
	}
	writeJSON(w, convertStats(v.Stats))
}

func (s *DashboardServer) handleLatest(w http.ResponseWriter, r *http.Request) {
	v := s.controller.Current()
	writeJSON(w, convertLatest(v.Latest))
}

func (s *DashboardServer) handleUnderlyings(w http.ResponseWriter, r *http.Request) {
	v := s.controller.Current()
	u := v.Underlyings
	if u == nil {
		u = []string{}
	}
	writeJSON(w, UnderlyingsResponse{Underlyings: u})
}

func (s *DashboardServer) handleLastRun(w http.ResponseWriter, r *http.Request) {
	t, ok := s.dir.LastRun()
	if !ok {
		writeJSON(w, LastRunResponse{Recorded: false})
		return
	}
	writeJSON(w, LastRunResponse{Recorded: true, LastRun: t.UTC().Format(time.RFC3339)})
}

// handleReload re-reads both logs (concurrently, same as startup) and swaps
// them into the controller without disturbing the active filter.
func (s *DashboardServer) handleReload(w http.ResponseWriter, r *http.Request) {
	positions, portfolio := s.dir.LoadAll(r.Context())
	s.controller.Replace(positions, portfolio)
	s.log.Info("logs reloaded", "positions", len(positions), "portfolio", len(portfolio))
	writeJSON(w, ReloadResponse{Positions: len(positions), Portfolio: len(portfolio)})
}

// ---------------------------------------------------------------------------
// Conversions
// ---------------------------------------------------------------------------

func convertStats(st series.HeaderStats) StatsJSON {
	out := StatsJSON{
		TotalValue: st.TotalValue,
		TotalPnL:   st.TotalPnL,
		PctDisplay: st.FormatPct(),
	}
	if st.HasReturn {
		pct := st.PctReturn
		out.PctReturn = &pct
	}
	return out
}

func convertLatest(rows []tracklog.Record) []PositionJSON {
	out := make([]PositionJSON, 0, len(rows))
	for _, rec := range rows {
		out = append(out, PositionJSON{
			Date:            rec[tracklog.ColDate],
			SymbolKey:       rec[tracklog.ColSymbolKey],
			Underlying:      rec[tracklog.ColUnderlying],
			Expiry:          rec[tracklog.ColExpiry],
			Type:            rec[tracklog.ColType],
			Strike:          rec[tracklog.ColStrike],
			Contracts:       rec[tracklog.ColContracts],
			CostPerContract: rec[tracklog.ColCostPerContract],
			Price:           rec[tracklog.ColPrice],
			Value:           rec[tracklog.ColValue],
			PnL:             rec[tracklog.ColPnL],
			PnLPct:          rec[tracklog.ColPnLPct],
		})
	}
	return out
}

func convertView(v view.View) ViewResponse {
	u := v.Underlyings
	if u == nil {
		u = []string{}
	}
	return ViewResponse{
		Filter:      v.Filter,
		Label:       v.Label,
		Points:      emptyToSlice(v.Series),
		AxisMin:     v.AxisMin,
		AxisMax:     v.AxisMax,
		Stats:       convertStats(v.Stats),
		Latest:      convertLatest(v.Latest),
		Underlyings: u,
	}
}

func emptyToSlice(points []series.Point) []series.Point {
	if points == nil {
		return []series.Point{}
	}
	return points
}
