package health

import (
	"testing"

	"github.com/aaravmahajanofficial/plant-storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecks(t *testing.T) {

	t.Run("Database Only Without Redis", func(t *testing.T) {
		cfg := &config.Config{}

		list := checks(cfg)

		require.Len(t, list, 1)
		assert.Equal(t, "database", list[0].Name)
		assert.False(t, list[0].SkipOnErr)
	})

	t.Run("Redis Check Is Soft", func(t *testing.T) {
		cfg := &config.Config{RedisConnect: config.RedisConnect{Host: "localhost", Port: "6379"}}

		list := checks(cfg)

		require.Len(t, list, 2)
		assert.Equal(t, "redis", list[1].Name)
		assert.True(t, list[1].SkipOnErr)
	})
}
