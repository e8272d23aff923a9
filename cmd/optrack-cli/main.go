package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"optrack/pkg/optrack"
)

const version = "0.1.0"

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: optrack-cli [-server URL] <command>\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  version      Print the CLI version\n")
	fmt.Fprintf(os.Stderr, "  summary      Show headline portfolio figures\n")
	fmt.Fprintf(os.Stderr, "  positions    List the latest position snapshot\n")
	fmt.Fprintf(os.Stderr, "  underlyings  List underlying symbols in the logs\n")
	fmt.Fprintf(os.Stderr, "  lastrun      Show when the fetch step last ran\n")
	fmt.Fprintf(os.Stderr, "  reload       Ask the server to re-read the logs\n")
	fmt.Fprintf(os.Stderr, "\n")
}

func main() {
	server := flag.String("server", "http://localhost:8080", "optrack-server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	client := optrack.NewClient(*server)
	ctx := context.Background()

	var err error
	switch flag.Arg(0) {
	case "version":
		fmt.Printf("optrack-cli %s\n", version)

	case "summary":
		err = runSummary(ctx, client)

	case "positions":
		err = runPositions(ctx, client)

	case "underlyings":
		err = runUnderlyings(ctx, client)

	case "lastrun":
		err = runLastRun(ctx, client)

	case "reload":
		err = runReload(ctx, client)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", flag.Arg(0))
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runSummary(ctx context.Context, client *optrack.Client) error {
	stats, err := client.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("total value:  %.2f\n", stats.TotalValue)
	fmt.Printf("total p&l:    %.2f\n", stats.TotalPnL)
	fmt.Printf("return:       %s\n", stats.PctDisplay)
	return nil
}

func runPositions(ctx context.Context, client *optrack.Client) error {
	rows, err := client.LatestPositions(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("no positions recorded")
		return nil
	}
	fmt.Printf("%-28s %10s %10s %12s %12s %10s\n",
		"SYMBOL", "CONTRACTS", "PRICE", "VALUE", "P&L", "P&L %")
	for _, r := range rows {
		fmt.Printf("%-28s %10s %10s %12s %12s %10s\n",
			r.SymbolKey, r.Contracts, r.Price, r.Value, r.PnL, r.PnLPct)
	}
	return nil
}

func runUnderlyings(ctx context.Context, client *optrack.Client) error {
	symbols, err := client.Underlyings(ctx)
	if err != nil {
		return err
	}
	for _, s := range symbols {
		fmt.Println(s)
	}
	return nil
}

func runLastRun(ctx context.Context, client *optrack.Client) error {
	lr, err := client.LastRun(ctx)
	if err != nil {
		return err
	}
	if !lr.Recorded {
		fmt.Println("no run recorded yet")
		return nil
	}
	fmt.Println(lr.LastRun)
	return nil
}

func runReload(ctx context.Context, client *optrack.Client) error {
	counts, err := client.Reload(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("reloaded: %d position rows, %d portfolio rows\n", counts.Positions, counts.Portfolio)
	return nil
}
