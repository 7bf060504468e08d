package main

import (
	"fmt"
	"os"

	"cyclesbot/bot"
	"cyclesbot/config"
	"cyclesbot/journal"
	"cyclesbot/logging"
	"cyclesbot/transport"
)

func main() {
	os.Exit(run(os.Args))
}

// run returns the process exit code: 0 only when the server ended the
// session, 1 for usage errors, connection failures and fatal decisions.
func run(args []string) int {
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <bot_name>\n", args[0])
		return 1
	}
	name := args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	logger, err := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		return 1
	}

	selector := bot.NewSelector(append(cfg.SelectorOptions(), bot.WithSelectorLogger(logger.With().Str("bot", name).Logger()))...)
	options := []bot.Option{
		bot.WithSelector(selector),
		bot.WithLostThreshold(cfg.LostThreshold),
		bot.WithLogger(logger),
	}

	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			logger.Error().Err(err).Str("path", cfg.JournalPath).Msg("journal unavailable")
			return 1
		}
		defer j.Close()
		options = append(options, bot.WithRecorder(j))
	}

	dialer := &transport.WebsocketDialer{
		URL:              cfg.ServerURL,
		HandshakeTimeout: cfg.HandshakeTimeout,
		Logger:           logger,
	}
	session, err := dialer.Connect(name)
	if err != nil {
		logger.Error().Err(err).Str("bot", name).Msg("connection failed")
		return 1
	}
	defer session.Close()

	logger.Info().Str("bot", name).Stringer("policy", selector.Policy()).Msg("bot started")
	if err := bot.New(name, session, options...).Run(); err != nil {
		return 1
	}
	return 0
}
