package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"cyclesbot/journal"

	"github.com/rs/zerolog/log"
)

func main() {
	dbPath := flag.String("db", "data/journal.db", "Path to SQLite journal")
	showTicks := flag.Bool("ticks", false, "Print every recorded frame")
	flag.Parse()

	if _, err := os.Stat(*dbPath); os.IsNotExist(err) {
		log.Fatal().Msgf("Journal not found at %s", *dbPath)
	}

	j, err := journal.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open journal")
	}
	defer j.Close()

	sessions, err := j.Sessions()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list sessions")
	}

	for _, s := range sessions {
		fmt.Printf("Session: %s\n", s.ID)
		fmt.Printf("Bot: %s\n", s.Bot)
		ended := "running"
		if s.EndedAt.Valid {
			ended = s.EndedAt.Time.Format(time.RFC822)
		}
		fmt.Printf("Time: %s - %s\n", s.StartedAt.Format(time.RFC822), ended)
		fmt.Printf("Ticks: %d\n", s.Ticks)
		fmt.Printf("Termination: %s\n", s.Termination)

		if *showTicks {
			ticks, err := j.Ticks(s.ID)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to list ticks")
			}
			for _, t := range ticks {
				fmt.Printf("  frame %4d at (%d, %d) -> %-5s inertia=%2d scores=%v attempts=%d\n",
					t.Frame, t.X, t.Y, t.Direction, t.Inertia, t.Scores, t.Attempts)
			}
		}
		fmt.Println("--------------------------------------------------")
	}
	fmt.Printf("Total sessions found: %d\n", len(sessions))

	games, err := j.Games()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list games")
	}
	for _, g := range games {
		fmt.Printf("Game ID: %s\n", g.ID)
		fmt.Printf("Time: %s - %s\n", g.StartedAt.Format(time.RFC822), g.EndedAt.Format(time.RFC822))
		fmt.Printf("Board: %dx%d, %d frames\n", g.Width, g.Height, g.Frames)
		fmt.Printf("Players: %s\n", strings.Join(g.Players, " vs "))
		fmt.Printf("Result: %s (%s)\n", g.Winner, g.Reason)
		fmt.Println("--------------------------------------------------")
	}
	fmt.Printf("Total games found: %d\n", len(games))
}
