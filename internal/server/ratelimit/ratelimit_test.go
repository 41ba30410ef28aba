package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoints ...EndpointConfig) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    3,
		DefaultWindow:   time.Minute,
		Whitelist:       map[string]bool{},
		Blacklist:       map[string]bool{},
		EndpointConfigs: endpoints,
	}
}

// frozen returns a limiter whose clock only moves when the test moves it
func frozen(cfg *Config) (*Limiter, *time.Time) {
	l := NewLimiter(cfg)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l, _ := frozen(testConfig())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("1.2.3.4", "/decks/x", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("1.2.3.4", "/decks/x", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 20*time.Second, info.RetryAfter, float64(time.Millisecond))
}

func TestLimiter_Refill(t *testing.T) {
	l, now := frozen(testConfig())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.Allow("c", "/x", "GET")
	}
	allowed, _ := l.Allow("c", "/x", "GET")
	require.False(t, allowed)

	*now = now.Add(20 * time.Second)
	allowed, _ = l.Allow("c", "/x", "GET")
	assert.True(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := frozen(testConfig())
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.Allow("a", "/x", "GET")
	}
	allowed, _ := l.Allow("b", "/x", "GET")
	assert.True(t, allowed)
}

func TestLimiter_EndpointBurst(t *testing.T) {
	l, _ := frozen(testConfig(EndpointConfig{Path: "/decks/", Method: "POST", Limit: 20, Window: time.Hour, Burst: 2}))
	defer l.Stop()

	// prefix matches share the client's bucket
	allowed, info := l.Allow("c", "/decks/1/questions", "POST")
	require.True(t, allowed)
	assert.Equal(t, 20, info.Limit)
	allowed, _ = l.Allow("c", "/decks/2/questions", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("c", "/decks/3/questions", "POST")
	assert.False(t, allowed)

	// other methods fall back to the default
	allowed, _ = l.Allow("c", "/decks/1", "GET")
	assert.True(t, allowed)
}

func TestLimiter_Lists(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 1
	cfg.Whitelist["10.0.0.1"] = true
	cfg.Blacklist["10.0.0.2"] = true
	l, _ := frozen(cfg)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/x", "GET")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("10.0.0.2", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	cfg.DefaultLimit = 1
	l, _ := frozen(cfg)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("c", "/x", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 1
	l, _ := frozen(cfg)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 50
	l, _ := frozen(cfg)
	defer l.Stop()

	var mu sync.Mutex
	allowed := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/x", "GET"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestLimiter_Cleanup(t *testing.T) {
	l, now := frozen(testConfig())
	defer l.Stop()

	l.Allow("old", "/x", "GET")
	*now = now.Add(2 * time.Hour)
	l.Allow("new", "/x", "GET")

	l.cleanup(now.Add(-time.Hour))
	assert.Len(t, l.buckets, 1)
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	assert.Equal(t, "/decks", MatchEndpoint("/decks", "POST", configs).Path)
	assert.Equal(t, "/decks/", MatchEndpoint("/decks/abc/questions", "POST", configs).Path)
	assert.Equal(t, "/questions/", MatchEndpoint("/questions/abc/answers", "POST", configs).Path)
	assert.Nil(t, MatchEndpoint("/decks/abc", "GET", configs))
	assert.Equal(t, 0, MatchEndpoint("/health", "GET", configs).Limit)
}

func TestLoadConfig(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_ENABLED":        "false",
		"RATE_LIMIT_DEFAULT_LIMIT":  "42",
		"RATE_LIMIT_DEFAULT_WINDOW": "30s",
		"RATE_LIMIT_WHITELIST":      "1.1.1.1, 2.2.2.2",
	}
	cfg := loadConfig(func(k string) (string, bool) { v, ok := env[k]; return v, ok })

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, map[string]bool{"1.1.1.1": true, "2.2.2.2": true}, cfg.Whitelist)
	assert.NotEmpty(t, cfg.EndpointConfigs)
}
