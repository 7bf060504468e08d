package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cyclesbot/bot"
	"cyclesbot/config"
	"cyclesbot/journal"
	"cyclesbot/logging"
	"cyclesbot/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	var recorder bot.Recorder
	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.JournalPath).Msg("journal unavailable")
		}
		defer j.Close()
		recorder = j
	}

	dialer := &transport.WebsocketDialer{
		URL:              cfg.ServerURL,
		HandshakeTimeout: cfg.HandshakeTimeout,
		Logger:           logger,
	}
	manager := NewBotManager(cfg, dialer, recorder, logger)
	if err := manager.Start(); err != nil {
		logger.Error().Err(err).Msg("failed to start bot pool")
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-manager.Done():
		logger.Info().Int("failed", manager.Failed()).Msg("all bots finished")
	case <-sigChan:
		manager.Stop()
	}
}
