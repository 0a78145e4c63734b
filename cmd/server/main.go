package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/subosito/gotenv"

	"github.com/fquiros/budgeteer/pkg/config"
	"github.com/fquiros/budgeteer/pkg/server"
	"github.com/fquiros/budgeteer/pkg/store"
)

func main() {
	gotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "budgeteer",
	})

	var cfgFile string
	flag.StringVar(&cfgFile, "c", "", "Config file (default is config.yaml)")
	flag.Parse()

	cfg, err := config.Build(cfgFile, nil)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open database", "err", err, "path", cfg.DBPath)
	}
	defer st.Close()

	srv := server.New(cfg, logger, st)
	logger.Info("starting server", "addr", cfg.ListenAddr, "db", cfg.DBPath)
	if err := srv.Start(cfg.ListenAddr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
