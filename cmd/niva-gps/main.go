package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"niva-gps/internal/config"
	"niva-gps/internal/niva"
	"niva-gps/internal/observability"
	"niva-gps/internal/store"
)

const usage = `usage:
  niva-gps [-config path] [-summary] [-json] <log files...>   ("-" reads stdin)
  niva-gps encode <FORMAT> <field,field,...>
`

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("niva-gps: %v", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "encode" {
		return runEncode(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("niva-gps", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Path to YAML config (built-in defaults when empty)")
	summary := fs.Bool("summary", false, "Print a scan summary after each file")
	jsonOut := fs.Bool("json", false, "Print waypoints as JSON lines")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("no log files given")
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
	}

	logger, err := cfg.NewLogger(stderr)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	scanner := niva.NewScanner(niva.ScannerConfig{
		Logger:           logger,
		Metrics:          observability.NewMetrics(reg),
		MaxFragmentBytes: cfg.Scan.MaxFragmentBytes,
	})

	var st *store.SqliteStore
	if cfg.Store.Enable {
		st = store.NewSqliteStore(cfg.Store.Path, nil)
		defer func() {
			if cErr := st.Close(); cErr != nil {
				logger.Error("closing waypoint store", "path", cfg.Store.Path, "err", cErr)
			}
		}()
	}

	for _, path := range fs.Args() {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := scanPath(scanner, path, stdin)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := printWaypoints(stdout, res.Waypoints, *jsonOut); err != nil {
			return err
		}
		if st != nil {
			if err := saveScan(ctx, st, logger, sourceName(path), res); err != nil {
				return fmt.Errorf("%s: storing waypoints: %w", path, err)
			}
		}
		if *summary {
			printScanSummary(stdout, sourceName(path), summarizeScan(res))
		}
	}

	if cfg.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.Textfile, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		logger.Debug("metrics written", "path", cfg.Metrics.Textfile)
	}
	return nil
}

func sourceName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}

func scanPath(scanner *niva.Scanner, path string, stdin io.Reader) (niva.Result, error) {
	if path == "-" {
		return scanner.Scan(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return niva.Result{}, err
	}
	defer f.Close()
	return scanner.Scan(f)
}

func saveScan(ctx context.Context, st *store.SqliteStore, logger *slog.Logger, source string, res niva.Result) error {
	id, err := st.CreateScan(ctx, source)
	if err != nil {
		return err
	}
	if err := st.SaveWaypoints(ctx, id, res.Waypoints); err != nil {
		return err
	}
	logger.Info("scan stored", "scan_id", id, "source", source, "waypoints", len(res.Waypoints))
	return nil
}
