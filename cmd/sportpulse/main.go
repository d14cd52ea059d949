package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/sportpulse/sportpulse/pkg/config"
	"github.com/sportpulse/sportpulse/pkg/db"
	"github.com/sportpulse/sportpulse/pkg/feed"
	"github.com/sportpulse/sportpulse/pkg/ingest"
	"github.com/sportpulse/sportpulse/pkg/scoring"
	"github.com/sportpulse/sportpulse/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"CONFIG" default:"sportpulse.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	SetupLog(opts.Debug)

	log.Printf("[INFO] starting sportpulse version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		log.Printf("[ERROR] sportpulse failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run wires all components together and starts the server
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := db.New(db.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	ingestCfg := cfg.GetIngestConfig()
	orchestrator := ingest.NewOrchestrator(ingest.Config{
		Store:        database,
		Fetcher:      feed.NewFetcher(ingestCfg.FetchTimeout, ingestCfg.UserAgent),
		Extractor:    feed.NewExtractor(),
		Normalizer:   feed.NewNormalizer(),
		Registry:     cfg.FeedRegistry(),
		PerFeedLimit: ingestCfg.PerFeedLimit,
		MaxWorkers:   ingestCfg.MaxWorkers,
		Retention:    ingestCfg.Retention,
	})

	processor := scoring.NewProcessor(scoring.Config{
		Store:      database,
		Quality:    database,
		MaxWorkers: cfg.Scoring.MaxWorkers,
	})

	srv := server.New(cfg, database, orchestrator, processor, revision, opts.Debug)
	return srv.Run(ctx)
}

// SetupLog configures the logger, debug mode adds caller info and milliseconds
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
