package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	client "aeropart/blockchain/client"
	"aeropart/config"
	"aeropart/internal/events"
	"aeropart/internal/journal"
	"aeropart/provenance/dispatch"
	"aeropart/provenance/history"
	"aeropart/provenance/session"
	"aeropart/wallet"
)

func main() {
	configDir := flag.String("config", "./config", "configuration directory")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "operator").Logger()
	logger.Info().Msg("starting aeropart operator client")

	// 1. Load Configuration
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.Operator == nil || cfg.Blockchain == nil {
		logger.Fatal().Str("dir", *configDir).Msg("operator.defaults.yml and client_config.yml are required")
	}
	if level, err := zerolog.ParseLevel(cfg.Operator.Monitoring.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize Wallet Provider
	// A missing provider leaves the client in a degraded Disconnected state;
	// it is reported, not fatal.
	walletProvider, err := wallet.NewLocal(cfg.Operator.Wallet, logger)
	if err != nil {
		if errors.Is(err, wallet.ErrNoProvider) {
			logger.Error().Msg("no wallet provider configured; running disconnected")
		} else {
			logger.Fatal().Err(err).Msg("failed to initialize wallet provider")
		}
	}

	// 3. Initialize Ledger Client
	chainSpecificCfg, err := client.LoadChainSpecificConfig(cfg.Blockchain.LedgerType, *configDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load chain-specific config")
	}
	cfg.Blockchain.ChainSpecific = chainSpecificCfg

	ledger, err := client.NewLedgerClient(cfg.Blockchain, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize ledger client")
	}
	defer ledger.Close()

	if err := ledger.VerifyContract(ctx); err != nil {
		// Degraded, not fatal: the operator can fix the deployment and
		// reconnect without restarting.
		logger.Error().Err(err).Msg("provenance contract not reachable; running degraded")
	}

	// 4. Optional Journal and Event Publisher
	var subJournal journal.Journal
	if cfg.Operator.JournalEnabled() {
		subJournal, err = journal.NewPostgres(ctx, cfg.Operator.Journal, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize submission journal")
		}
		defer subJournal.Close()
	}

	var publisher events.Producer
	if cfg.Operator.EventsEnabled() {
		publisher, err = events.NewKafkaProducer(cfg.Operator.Events, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize event publisher")
		}
		defer publisher.Close()
	}

	// 5. Monitoring Endpoint
	if cfg.Operator.Monitoring.EnableMetrics {
		mux := http.NewServeMux()
		mux.Handle(cfg.Operator.Monitoring.MetricsPath, promhttp.Handler())
		mux.HandleFunc(cfg.Operator.Monitoring.HealthCheckPath, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		server := &http.Server{Addr: cfg.Operator.Monitoring.ListenAddr, Handler: mux}
		go func() {
			logger.Info().Str("addr", server.Addr).Msg("monitoring endpoint listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("monitoring endpoint failed")
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	// 6. Session and Orchestrator
	aggregator := history.New(ledger, logger)

	if walletProvider == nil {
		// Degraded mode: keep the monitoring endpoint up until signalled.
		waitForSignal(logger, nil)
		return
	}
	defer walletProvider.Close()

	sessions := session.New(walletProvider, ledger, logger)
	sessions.OnChange(func(s session.Session) {
		// Any cached part/history view belongs to the previous identity now.
		logger.Debug().Str("account", s.Account).Msg("session replaced; cached views are stale")
	})

	dispatcher := dispatch.New(ledger, walletProvider, sessions, aggregator, dispatch.Defaults{
		CertificateHash: cfg.Operator.Defaults.CertificateHash,
		ReportHash:      cfg.Operator.Defaults.ReportHash,
		TransferReason:  cfg.Operator.Defaults.TransferReason,
	}, logger)
	if subJournal != nil {
		dispatcher.WithJournal(subJournal)
	}
	if publisher != nil {
		dispatcher.WithEvents(publisher)
	}
	_ = dispatcher // wired for the presentation layer

	sess, err := sessions.Connect(ctx)
	switch {
	case errors.Is(err, session.ErrNoAccounts):
		logger.Warn().Msg("no accounts found; staying disconnected")
	case err != nil:
		logger.Error().Err(err).Msg("wallet connection failed; staying disconnected")
	default:
		owned := aggregator.LoadOwnedParts(ctx, sess.Account)
		logger.Info().Str("role", sess.Role.String()).Int("owned_parts", len(owned)).Msg("session established")
	}

	go sessions.Run(ctx)

	waitForSignal(logger, walletProvider)
	logger.Info().Msg("operator client stopped")
}

// waitForSignal blocks until termination; SIGHUP reloads the wallet accounts
// file, which feeds the accounts-changed flow.
func waitForSignal(logger zerolog.Logger, walletProvider *wallet.Local) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigCh {
		if sig == syscall.SIGHUP && walletProvider != nil {
			logger.Info().Msg("SIGHUP received; reloading wallet accounts")
			walletProvider.Reload()
			continue
		}
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		return
	}
}
