package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"optrack/internal/config"
	"optrack/internal/report"
	"optrack/internal/tracklog"
	"optrack/internal/util"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "print the rendered HTML instead of sending mail")
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

	dir := tracklog.NewDir(cfg.Storage.DataDir, logger)
	positions, portfolio := dir.LoadAll(context.Background())

	now := time.Now().UTC()
	summary := report.Build(positions, portfolio, cfg.Report.Days, now)
	html, err := report.RenderHTML(summary, cfg.Report.SiteURL)
	if err != nil {
		log.Fatalf("rendering report: %v", err)
	}

	if *dryRun {
		fmt.Println(html)
		return
	}

	mailer := &report.Mailer{
		Host:       cfg.Report.SMTPHost,
		Port:       cfg.Report.SMTPPort,
		Username:   cfg.Report.SMTPUser,
		Password:   cfg.Report.SMTPPass,
		From:       cfg.Report.From,
		Recipients: report.ParseRecipients(cfg.Report.Recipients),
	}

	subject := fmt.Sprintf("Options Tracker — Update (%s)", now.Format("2006-01-02"))
	if err := mailer.Send(subject, html); err != nil {
		log.Fatalf("sending report: %v", err)
	}
	logger.Info("report sent", "recipients", len(mailer.Recipients))
}
