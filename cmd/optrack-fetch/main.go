package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"optrack/internal/config"
	"optrack/internal/fetch"
	"optrack/internal/schedule"
	"optrack/internal/tracklog"
	"optrack/internal/util"
)

func main() {
	daemon := flag.Bool("daemon", false, "keep running and fetch on the configured cron schedule")
	flag.Parse()

	_ = godotenv.Load()

	cfgPath := "config/optrack.yaml"
	if p := os.Getenv("OPTRACK_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	positions, err := fetch.LoadPositions(cfg.Fetch.PositionsFile)
	if err != nil {
		log.Fatalf("loading positions: %v", err)
	}

	dir := tracklog.NewDir(cfg.Storage.DataDir, logger)
	quoter := fetch.NewAlpacaQuoter(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL, cfg.Alpaca.Feed)
	job := fetch.NewJob(dir, quoter, positions, cfg.Fetch.MaxAttempts, cfg.Fetch.RateLimitPerMin, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !*daemon {
		if err := job.Run(ctx); err != nil {
			log.Fatalf("snapshot run: %v", err)
		}
		return
	}

	sched := schedule.New(logger)
	err = sched.AddJob(cfg.Fetch.Schedule, schedule.JobFunc{
		JobName: job.Name(),
		Fn:      func() error { return job.Run(ctx) },
	})
	if err != nil {
		log.Fatalf("registering snapshot job: %v", err)
	}

	sched.Start()
	logger.Info("fetch daemon running", "schedule", cfg.Fetch.Schedule, "positions", len(positions))

	<-ctx.Done()
	sched.Stop()
}
