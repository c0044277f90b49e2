package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type exportConfig struct {
	level      int
	normalized bool
	calls      []string
}

func withLevel(level int) Option[*exportConfig] {
	return New(func(c *exportConfig) error {
		if level < 0 {
			return errors.New("level cannot be negative")
		}
		c.level = level
		c.calls = append(c.calls, "level")

		return nil
	})
}

func withNormalized() Option[*exportConfig] {
	return NoError(func(c *exportConfig) {
		c.normalized = true
		c.calls = append(c.calls, "normalized")
	})
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &exportConfig{}
		require.NoError(t, Apply(cfg, withNormalized(), withLevel(3)))
		require.Equal(t, 3, cfg.level)
		require.True(t, cfg.normalized)
		require.Equal(t, []string{"normalized", "level"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &exportConfig{}
		err := Apply(cfg, withLevel(-1), withNormalized())
		require.Error(t, err)
		require.False(t, cfg.normalized)
		require.Empty(t, cfg.calls)
	})

	t.Run("nil options are skipped", func(t *testing.T) {
		cfg := &exportConfig{}
		require.NoError(t, Apply(cfg, nil, withLevel(2), nil))
		require.Equal(t, 2, cfg.level)
		require.Equal(t, []string{"level"}, cfg.calls)
	})

	t.Run("error is returned unchanged", func(t *testing.T) {
		sentinel := errors.New("rejected")
		reject := New(func(*exportConfig) error { return sentinel })
		require.ErrorIs(t, Apply(&exportConfig{}, reject), sentinel)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &exportConfig{level: 7}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 7, cfg.level)
	})
}
