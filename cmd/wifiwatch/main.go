package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/netgazer/wifiwatch/internal/config"
	"github.com/netgazer/wifiwatch/internal/entry"
	"github.com/netgazer/wifiwatch/internal/event"
	"github.com/netgazer/wifiwatch/internal/platform"
	"github.com/netgazer/wifiwatch/internal/savedstore"
	"github.com/netgazer/wifiwatch/internal/server"
	"github.com/netgazer/wifiwatch/internal/store"
	"github.com/netgazer/wifiwatch/internal/version"
	"github.com/netgazer/wifiwatch/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration (before logger, so log level/format can be configured).
	viperCfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("wifiwatch starting", zap.String("version", version.Short()))

	if f := viperCfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded",
			zap.String("component", "config"),
			zap.String("source", f),
		)
	} else {
		logger.Warn("no configuration file found, using defaults",
			zap.String("component", "config"),
		)
	}

	// The tracked network identity is the one piece of required config.
	ssid := viperCfg.GetString("network.ssid")
	if ssid == "" {
		logger.Fatal("network.ssid must be configured")
	}
	security, err := entry.ParseSecurity(viperCfg.GetString("network.security"))
	if err != nil {
		logger.Fatal("invalid network.security", zap.Error(err))
	}
	identity, err := entry.NewIdentity(ssid, security, viperCfg.GetBool("network.target_new"))
	if err != nil {
		logger.Fatal("invalid network identity", zap.Error(err))
	}
	logger.Info("tracking network",
		zap.String("ssid", identity.SSID()),
		zap.Stringer("security", identity.Security()),
		zap.Bool("target_new", identity.TargetingNew()),
	)

	// Open database.
	dbPath := viperCfg.GetString("database.path")
	db, err := store.New(dbPath)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.CheckVersion(ctx, version.Short()); err != nil {
		logger.Fatal("database version check failed", zap.Error(err))
	}
	logger.Info("database initialized",
		zap.String("component", "database"),
		zap.String("path", dbPath),
	)

	// Create shared services.
	bus := event.NewBus(logger.Named("event"))

	saved, err := savedstore.New(ctx, db, bus, logger.Named("savedstore"))
	if err != nil {
		logger.Fatal("failed to initialize saved config store", zap.Error(err))
	}
	logger.Info("saved config store initialized", zap.String("component", "savedstore"))

	// Platform scan source.
	scanner := platform.NewScanner(logger.Named("platform"))
	scanInterval := viperCfg.GetDuration("scan.interval")
	poller := platform.NewPoller(scanner, bus, scanInterval, logger.Named("platform"))

	// Tracker for the configured network.
	tracker := entry.NewTracker(identity, entry.Config{
		MaxScanAge:   viperCfg.GetDuration("tracker.max_scan_age"),
		TickInterval: viperCfg.GetDuration("tracker.tick_interval"),
	}, bus, logger.Named("tracker"))

	if err := tracker.Start(ctx, poller, saved, poller); err != nil {
		logger.Fatal("failed to start tracker", zap.Error(err))
	}
	defer tracker.Stop()

	if viperCfg.GetBool("scan.enabled") {
		go poller.Run(ctx)
	} else {
		logger.Info("platform scanning disabled; scan results must arrive via the bus")
	}

	// HTTP surface: entry projection, saved config CRUD, websocket stream.
	entryHandler := entry.NewHandler(tracker, logger.Named("entry"))
	savedHandler := savedstore.NewHandler(saved, logger.Named("savedstore"))
	wsHandler := ws.NewHandler(bus, logger.Named("ws"))

	addr := viperCfg.GetString("server.host") + ":" + viperCfg.GetString("server.port")
	readyCheck := server.ReadinessChecker(func(ctx context.Context) error {
		return db.DB().PingContext(ctx)
	})
	srv := server.New(addr, logger.Named("server"), readyCheck,
		entryHandler, savedHandler, wsHandler)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("wifiwatch ready", zap.String("addr", addr))

	// Wait for shutdown signal.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	poller.Stop()
	tracker.Stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("wifiwatch stopped")
}
