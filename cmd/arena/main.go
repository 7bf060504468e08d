package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cyclesbot/arena"
	"cyclesbot/config"
	"cyclesbot/journal"
	"cyclesbot/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	width := flag.Int("width", arena.DefaultWidth, "Grid width")
	height := flag.Int("height", arena.DefaultHeight, "Grid height")
	players := flag.Int("players", arena.DefaultPlayers, "Players needed to start the game")
	maxFrames := flag.Int("max-frames", 0, "Stop after this many frames (0 = no limit)")
	moveTimeout := flag.Duration("move-timeout", arena.DefaultMoveTimeout, "Time each player has to answer a frame")
	tick := flag.Duration("tick", 100*time.Millisecond, "Pause between frames")
	flag.Parse()

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

	options := []arena.Option{
		arena.WithSize(*width, *height),
		arena.WithPlayers(*players),
		arena.WithMaxFrames(*maxFrames),
		arena.WithMoveTimeout(*moveTimeout),
		arena.WithTickInterval(*tick),
		arena.WithLogger(logger),
	}
	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.JournalPath).Msg("journal unavailable")
		}
		defer j.Close()
		options = append(options, arena.WithJournal(j))
	}

	a := arena.New(options...)
	mux := http.NewServeMux()
	mux.Handle("/ws", a)
	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe")
		}
	}()
	log.Info().Str("addr", *addr).Str("game", a.ID()).Msgf("arena waiting for %d players on /ws", *players)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-a.Done():
		result := a.Wait()
		log.Info().
			Int("frames", result.Frames).
			Str("winner", result.Winner).
			Str("players", strings.Join(result.Players, ",")).
			Msg(result.Reason)
	case <-sigChan:
		log.Info().Msg("shutting down arena")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("shutdown")
	}
}
