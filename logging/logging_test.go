package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := setup(&buf, "debug", "json")
		require.NoError(t, err)

		logger.Debug().Str("bot", "alpha").Msg("hello")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		require.Equal(t, "alpha", line["bot"])
		require.Equal(t, "debug", line["level"])
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := setup(&buf, "warn", "json")
		require.NoError(t, err)

		logger.Info().Msg("dropped")
		require.Zero(t, buf.Len(), "info should be filtered at warn")
	})

	t.Run("bad input", func(t *testing.T) {
		_, err := setup(&bytes.Buffer{}, "loud", "json")
		require.Error(t, err)
		_, err = setup(&bytes.Buffer{}, "info", "xml")
		require.Error(t, err)
	})
}
