package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"optrack/internal/config"
	"optrack/internal/export"
	"optrack/internal/tracklog"
	"optrack/internal/util"
)

func main() {
	outDir := flag.String("out", "", "export directory (defaults to storage.export_dir)")
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

	target := cfg.Storage.ExportDir
	if *outDir != "" {
		target = *outDir
	}
	if target == "" {
		log.Fatal("no export directory: set storage.export_dir or pass -out")
	}

	dir := tracklog.NewDir(cfg.Storage.DataDir, logger)

	positions, err := export.ExportHistory(dir, target)
	if err != nil {
		log.Fatalf("exporting position log: %v", err)
	}
	portfolio, err := export.ExportPortfolio(dir, target)
	if err != nil {
		log.Fatalf("exporting portfolio log: %v", err)
	}

	logger.Info("export complete", "dir", target, "positions", positions, "portfolio", portfolio)
}
