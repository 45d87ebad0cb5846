package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"

	"github.com/BrandonDHaskell/Portunus/controller/internal/clock"
	"github.com/BrandonDHaskell/Portunus/controller/internal/config"
	"github.com/BrandonDHaskell/Portunus/controller/internal/httpapi"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/device/sim"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/service"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store/fsvolume"
	"github.com/BrandonDHaskell/Portunus/controller/internal/rpcapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, envFile, scriptPath string

	flagSet := pflag.NewFlagSet("portunus-lock", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file")
	flagSet.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading PORTUNUS_* variables")
	flagSet.StringVar(&scriptPath, "sim-script", "", "drive the simulated board from this script (overrides sim.script)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if scriptPath != "" {
		cfg.Sim.Script = scriptPath
	}

	logger := log.New(os.Stdout, "portunus-lock ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.Real()
	board := sim.NewBoard(clk)
	if cfg.Sim.Script != "" {
		f, err := os.Open(cfg.Sim.Script)
		if err != nil {
			return fmt.Errorf("sim script: %w", err)
		}
		defer f.Close()
		go func() {
			if err := board.RunScript(ctx, f); err != nil && !errors.Is(err, context.Canceled) {
				logger.Printf("[SYS] sim script: %v", err)
			}
		}()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewMetrics(reg)
	status := service.NewStatusBoard()

	var health *rpcapi.Server
	if cfg.GRPCAddr != "" {
		health = rpcapi.NewServer(rpcapi.Dependencies{Logger: logger, Addr: cfg.GRPCAddr})
		go func() {
			if err := health.Start(); err != nil {
				logger.Printf("[SYS] grpc health error: %v", err)
			}
		}()
		defer health.Stop()
	}

	// The journal is opened by Boot once the boot counter is persisted.
	var journal *journalHandle
	var openHook func() (store.EventJournal, error)
	if cfg.Journal.Path != "" {
		openHook = func() (store.EventJournal, error) {
			h, err := openJournal(ctx, cfg.Journal.Path)
			if err != nil {
				return nil, err
			}
			journal = h
			return h.journal, nil
		}
	}
	defer func() {
		if journal != nil {
			journal.Close()
		}
	}()

	indicator := service.NewIndicator(board, clk, uint8(cfg.Indicator.Intensity))

	ctrl, err := service.Boot(service.BootDependencies{
		Logger:    logger,
		Clock:     clk,
		Reader:    board,
		Door:      board,
		Solenoid:  board,
		Indicator: indicator,
		Mount: func() (store.Volume, error) {
			v, err := fsvolume.Mount(cfg.Storage.Root)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		Files:       cfg.Storage.Files(),
		OpenJournal: openHook,
		Metrics:     metrics,
		Status:      status,
		Timing:      cfg.Timing.ServiceTiming(),
	})

	// Status surfaces (optional, read-only)
	if cfg.HTTPAddr != "" {
		d := httpapi.Dependencies{
			Logger:   logger,
			Addr:     cfg.HTTPAddr,
			Status:   status,
			Gatherer: reg,
		}
		if journal != nil {
			d.Grants = journal.journal
		}
		srv := httpapi.NewServer(d)
		go func() {
			logger.Printf("[SYS] status listening on %s", cfg.HTTPAddr)
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("[SYS] status server error: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if err != nil {
		var fatal *service.FatalError
		if !errors.As(err, &fatal) {
			return err
		}
		logger.Printf("[SYS] halted: %v", err)
		indicator.Halt(ctx, fatal.Step)
		return nil
	}

	if journal != nil {
		pruner := service.NewJournalPruner(journal.journal, service.PrunerConfig{
			RetentionDays: cfg.Journal.RetentionDays,
			IntervalHours: cfg.Journal.PruneIntervalHours,
		}, clk, logger)
		pruner.Start(ctx)
		defer pruner.Stop()
	}

	if health != nil {
		health.SetServing(true)
		defer health.SetServing(false)
	}

	logger.Printf("[SYS] session %d running", ctrl.SessionID())
	return ctrl.Run(ctx)
}
