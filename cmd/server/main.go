package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/uhyunpark/tradedesk/params"
	"github.com/uhyunpark/tradedesk/pkg/api"
	"github.com/uhyunpark/tradedesk/pkg/app/core/instrument"
	"github.com/uhyunpark/tradedesk/pkg/app/core/ledger"
	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
	"github.com/uhyunpark/tradedesk/pkg/app/trading"
	"github.com/uhyunpark/tradedesk/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	logger, closeLog, err := util.NewLogger(util.LogOptions{
		File:    cfg.Logging.File,
		Verbose: cfg.Logging.Verbose,
		Service: "tradedesk",
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer closeLog()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Logging.File, "verbose", cfg.Logging.Verbose)

	// ---- Catalog ----
	catalog := instrument.Default()
	if cfg.Trading.CatalogFile != "" {
		catalog, err = instrument.LoadFile(cfg.Trading.CatalogFile)
		if err != nil {
			sugar.Fatalw("catalog_load_failed", "file", cfg.Trading.CatalogFile, "err", err)
		}
	}
	sugar.Infow("catalog_ready", "instruments", catalog.Count())

	// ---- Ledger ----
	l, err := ledger.Open(cfg.Storage.LedgerBackend)
	if err != nil {
		sugar.Fatalw("ledger_open_failed", "backend", cfg.Storage.LedgerBackend, "err", err)
	}
	defer l.Close()

	app := trading.NewApp(catalog, l)
	app.Logger = sugar

	if cfg.Storage.JournalFile != "" {
		journal, err := ledger.NewFileJournal(cfg.Storage.JournalFile, util.RealClock{})
		if err != nil {
			sugar.Fatalw("journal_open_failed", "file", cfg.Storage.JournalFile, "err", err)
		}
		defer journal.Close()
		app.Journal = journal
	}

	// ---- API Server ----
	apiServer := api.NewServer(app, api.Options{
		Logger:       sugar,
		CORSOrigins:  cfg.Server.CORSOrigins,
		UserResolver: api.StaticUser(order.UserID(cfg.Trading.DefaultUserID)),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow("server_starting",
		"addr", cfg.Server.Addr,
		"ledger_backend", cfg.Storage.LedgerBackend,
		"default_user", cfg.Trading.DefaultUserID)

	if err := apiServer.Run(ctx, cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Errorw("api_server_failed", "err", err)
		return
	}
	sugar.Info("shutdown complete")
}
