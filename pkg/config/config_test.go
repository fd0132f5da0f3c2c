package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"":         time.Sunday,
		"Sunday":   time.Sunday,
		"domingo":  time.Sunday,
		"sábado":   time.Saturday,
		"3":        time.Wednesday,
		" friday ": time.Friday,
	}
	for raw, want := range cases {
		got, err := ParseWeekday(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseWeekday("someday")
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WORSHIP_WEEKDAY", "")
	t.Setenv("STORE_DRIVER", "MONGO")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.Equal(t, time.Sunday, cfg.RollCall.WorshipWeekday)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("bogus", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
