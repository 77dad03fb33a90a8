package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/david-basis/archmodel/cache"
	"github.com/david-basis/archmodel/config"
	"github.com/david-basis/archmodel/server"
	"github.com/david-basis/archmodel/store"
)

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configFile := fs.String("config", "", "HCL configuration file")
	listen := fs.String("listen", "", "Listen address (overrides config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: archmodel serve [options]

Run the HTTP model service consumed by the viewer UI: parse documents,
persist snapshots and serve tree/diagram views.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Configuration file (HCL):
  listen     = "127.0.0.1:8080"
  log_level  = "info"
  store_path = "snapshots.db"
  cache_size = 64
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return err
		}
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(
		server.WithStore(st),
		server.WithCache(cache.NewModelCache(cfg.CacheSize)),
		server.WithLogger(log),
	)

	log.Info().Str("listen", cfg.Listen).Str("store", cfg.StorePath).Msg("model service starting")
	return http.ListenAndServe(cfg.Listen, srv.Handler())
}
