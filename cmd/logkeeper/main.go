package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"

	"scraper/pkg/config"
	"scraper/pkg/logkeeper"
)

func main() {
	var (
		configPath string
		logLevel   string
		numWorkers int
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("[logkeeper] shutting down gracefully...")
		cancel()
	}()

	flag.StringVar(&configPath, "config", "cmd/logkeeper/config.toml", "Path to TOML config file")
	flag.StringVar(&logLevel, "log", "", "Log level: debug, info, warn, error.")
	flag.IntVar(&numWorkers, "workers", 0, "Number of indexing workers.")
	flag.Parse()

	var cfg logkeeper.Config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		log.Fatalf("[logkeeper] failed to load config file %s: %v", configPath, err)
	}

	// Override config with flags if set
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if numWorkers > 0 {
		cfg.NumWorkers = numWorkers
	}

	config.SetLogLevel(cfg.LogLevel)

	if err := logkeeper.Run(ctx, cfg); err != nil {
		log.Fatalf("[logkeeper] %v", err)
	}
	log.Info("[logkeeper] stopped")
}
