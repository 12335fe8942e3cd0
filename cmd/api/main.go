package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrJamesThe3rd/recur/internal/alias"
	aliasStore "github.com/MrJamesThe3rd/recur/internal/alias/store"
	"github.com/MrJamesThe3rd/recur/internal/config"
	"github.com/MrJamesThe3rd/recur/internal/database"
	"github.com/MrJamesThe3rd/recur/internal/document"
	"github.com/MrJamesThe3rd/recur/internal/export"
	recurHttp "github.com/MrJamesThe3rd/recur/internal/http"
	aliasHandler "github.com/MrJamesThe3rd/recur/internal/http/alias"
	exportHandler "github.com/MrJamesThe3rd/recur/internal/http/export"
	itemHandler "github.com/MrJamesThe3rd/recur/internal/http/item"
	statementHandler "github.com/MrJamesThe3rd/recur/internal/http/statement"
	"github.com/MrJamesThe3rd/recur/internal/item"
	itemStore "github.com/MrJamesThe3rd/recur/internal/item/store"
	"github.com/MrJamesThe3rd/recur/internal/logging"
	"github.com/MrJamesThe3rd/recur/internal/scan"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if _, err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		slog.Error("failed to set up logging", "error", err)
		os.Exit(1)
	}

	engine, err := cfg.NewEngine()
	if err != nil {
		slog.Error("failed to build engine", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(context.Background(), cfg.DatabaseOptions())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		aliasService    = alias.NewService(aliasStore.New(db))
		itemService     = item.NewService(itemStore.New(db), item.WithAliases(aliasService))
		documentService = document.NewService(cfg.Extraction.PDFToText, cfg.Extraction.Timeout)
		scanService     = scan.NewService(documentService, engine, itemService, scan.WithAliases(aliasService))
		exportService   = export.NewService(itemService)
	)

	var (
		statementH = statementHandler.NewHandler(scanService, itemService)
		itemH      = itemHandler.NewHandler(itemService)
		aliasH     = aliasHandler.NewHandler(aliasService)
		exportH    = exportHandler.NewHandler(exportService)
	)

	router := recurHttp.New(recurHttp.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Timeout:     cfg.Server.Timeout,
	}, statementH, itemH, aliasH, exportH)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
}
