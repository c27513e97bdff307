// Command calc-server exposes the calculator as an HTTP JSON tool endpoint.
//
// Usage:
//
//	calc-server -port 8080 -config ./config.yaml
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
//
// Successful definite integrals are recorded in the configured history,
// which is written back on shutdown.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/njchilds90/integralcalc/internal/calc"
	"github.com/njchilds90/integralcalc/internal/config"
	"github.com/njchilds90/integralcalc/internal/history"
	"github.com/njchilds90/integralcalc/internal/logging"
)

func main() {
	configFlag := flag.String("config", "", "Config file")
	port := flag.Int("port", 0, "Port to listen on, overrides server.port")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	// The server has no UI competing for the terminal.
	cfg.Log.Console = true

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	store := history.NewStore(cfg.History.Path, history.WithCodec(cfg.Codec()), history.WithLogger(log.Named("history")))
	if report, err := store.Load(); err != nil {
		log.Warn("history not loaded", zap.Error(err))
	} else {
		log.Info("history loaded", zap.Int("records", report.Loaded), zap.Int("skipped", report.Skipped))
	}
	c := calc.New(store, calc.WithLogger(log.Named("calc")))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(c, log.Named("http")),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("calc server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	if err := store.Save(); err != nil && !errors.Is(err, history.ErrEmpty) {
		log.Error("history not saved", zap.Error(err))
	}
	log.Info("calc server stopped", zap.Int("records", store.Len()))
}
