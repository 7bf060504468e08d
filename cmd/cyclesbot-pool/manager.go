package main

import (
	"fmt"
	"sync"
	"sync/atomic"

	"cyclesbot/bot"
	"cyclesbot/config"
	"cyclesbot/names"
	"cyclesbot/transport"

	"github.com/rs/zerolog"
)

// BotManager runs a pool of independent bots against one server.
type BotManager struct {
	config   *config.Config
	dialer   transport.Dialer
	names    *names.Generator
	recorder bot.Recorder
	logger   zerolog.Logger

	mu       sync.Mutex
	sessions []transport.Session

	wg     sync.WaitGroup
	failed atomic.Int32
}

func NewBotManager(cfg *config.Config, dialer transport.Dialer, recorder bot.Recorder, logger zerolog.Logger) *BotManager {
	return &BotManager{
		config:   cfg,
		dialer:   dialer,
		names:    names.NewRandomGenerator(),
		recorder: recorder,
		logger:   logger,
		sessions: make([]transport.Session, 0, cfg.PoolSize),
	}
}

// Start connects every bot and runs each in its own goroutine. Bots that
// fail to connect are skipped.
func (m *BotManager) Start() error {
	m.logger.Info().Int("size", m.config.PoolSize).Msg("starting bot pool")

	for i := 0; i < m.config.PoolSize; i++ {
		name, err := m.names.Generate()
		if err != nil {
			m.logger.Warn().Err(err).Msgf("no name left for bot %d, starting no more", i+1)
			break
		}
		session, err := m.dialer.Connect(name)
		if err != nil {
			m.logger.Warn().Err(err).Str("bot", name).Msgf("failed to connect bot %d (continuing with remaining bots)", i+1)
			continue
		}

		m.mu.Lock()
		m.sessions = append(m.sessions, session)
		m.mu.Unlock()

		b := m.newBot(name, session)
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			defer session.Close()
			if err := b.Run(); err != nil {
				m.failed.Add(1)
				m.logger.Warn().Err(err).Str("bot", b.Name()).Msg("bot failed")
			}
		}()

		m.logger.Info().Str("bot", name).Msgf("bot %d/%d started", i+1, m.config.PoolSize)
	}

	m.mu.Lock()
	connected := len(m.sessions)
	m.mu.Unlock()

	if connected == 0 {
		return fmt.Errorf("no bots connected successfully")
	}
	m.logger.Info().Msgf("bot pool ready: %d/%d bots connected", connected, m.config.PoolSize)
	return nil
}

func (m *BotManager) newBot(name string, session transport.Session) *bot.Bot {
	logger := m.logger.With().Str("bot", name).Logger()
	options := []bot.Option{
		bot.WithSelector(bot.NewSelector(append(m.config.SelectorOptions(), bot.WithSelectorLogger(logger))...)),
		bot.WithLostThreshold(m.config.LostThreshold),
		bot.WithLogger(m.logger),
	}
	if m.recorder != nil {
		options = append(options, bot.WithRecorder(m.recorder))
	}
	return bot.New(name, session, options...)
}

// Done is closed once every bot has finished.
func (m *BotManager) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	return done
}

// Failed reports how many bots ended with an error.
func (m *BotManager) Failed() int {
	return int(m.failed.Load())
}

// Stop closes every session; the bots then end on their own.
func (m *BotManager) Stop() {
	m.logger.Info().Msg("stopping bot pool")

	m.mu.Lock()
	for _, session := range m.sessions {
		session.Close()
	}
	count := len(m.sessions)
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Info().Msgf("all %d bots stopped", count)
}
