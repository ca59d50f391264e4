package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 8080
  max_connections: 5000

redis:
  addr: "redis:6379"
  password: "secret"
  db: 1

mongo:
  uri: "mongodb://mongo:27017"
  database: "mighty_test"

game:
  bid_timeout: 30
  room_timeout: 15
  shutdown_timeout: 60
  shutdown_check_interval: 3
  shutdown_delay: 20

security:
  allowed_origins:
    - "http://localhost:3000"
    - "https://example.com"
  blocked_ips:
    - "10.0.0.1"
  rate_limit:
    max_per_second: 20
    max_per_minute: 120
    ban_duration: 120
  message_limit:
    max_per_second: 50

log:
  file: "/var/log/mighty.log"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, 5000, cfg.Server.MaxConnections)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.True(t, cfg.Mongo.Enabled())
	assert.Equal(t, "mighty_test", cfg.Mongo.Database)
	assert.Equal(t, 30*time.Second, cfg.Game.BidTimeoutDuration())
	assert.Equal(t, 15*time.Minute, cfg.Game.RoomTimeoutDuration())
	assert.Equal(t, 20*time.Second, cfg.Game.ShutdownDelayDuration())
	assert.Equal(t, []string{"http://localhost:3000", "https://example.com"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, []string{"10.0.0.1"}, cfg.Security.BlockedIPs)
	assert.Equal(t, 50, cfg.Security.MessageLimit.MaxPerSecond)
	assert.Equal(t, "/var/log/mighty.log", cfg.Log.File)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "invalid: yaml: :::"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)

	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultMaxConnections, cfg.Server.MaxConnections)
	assert.Equal(t, defaultRedisAddr, cfg.Redis.Addr)
	assert.False(t, cfg.Mongo.Enabled())
	assert.Equal(t, defaultMongoDatabase, cfg.Mongo.Database)
	assert.Zero(t, cfg.Game.BidTimeoutDuration(), "叫牌默认不限时")
	assert.Zero(t, cfg.Game.RoomTimeoutDuration(), "闲置房间默认不清理")
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, defaultMessagePerSecond, cfg.Security.MessageLimit.MaxPerSecond)
	assert.Empty(t, cfg.Log.File)
}

func TestDefault(t *testing.T) {
	// 不并行：Default 会读取环境变量

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultShutdownTimeout, cfg.Game.ShutdownTimeout)
}

func TestGameConfig_DurationMethods(t *testing.T) {
	t.Parallel()

	cfg := &GameConfig{
		BidTimeout:            15,
		RoomTimeout:           10,
		ShutdownTimeout:       60,
		ShutdownCheckInterval: 5,
		ShutdownDelay:         20,
	}

	assert.Equal(t, 15*time.Second, cfg.BidTimeoutDuration())
	assert.Equal(t, 10*time.Minute, cfg.RoomTimeoutDuration())
	assert.Equal(t, 60*time.Minute, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, 5*time.Second, cfg.ShutdownCheckIntervalDuration())
	assert.Equal(t, 20*time.Second, cfg.ShutdownDelayDuration())
}

func TestSecurityConfig_Durations(t *testing.T) {
	t.Parallel()

	rl := &RateLimitConfig{BanDuration: 120}
	assert.Equal(t, 120*time.Second, rl.BanDurationTime())

	mongo := &MongoConfig{Timeout: 5}
	assert.Equal(t, 5*time.Second, mongo.TimeoutDuration())
}

func TestLoadFromEnv(t *testing.T) {
	// 不并行：修改环境变量
	t.Setenv("SERVER_HOST", "env-host")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("REDIS_ADDR", "env-redis:6380")
	t.Setenv("MONGO_URI", "mongodb://env:27017")
	t.Setenv("GAME_BID_TIMEOUT", "45")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.com, http://b.com")

	cfg, err := Load(writeConfig(t, "server:\n  port: 1234\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Server.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "env-redis:6380", cfg.Redis.Addr)
	assert.Equal(t, "mongodb://env:27017", cfg.Mongo.URI)
	assert.Equal(t, 45, cfg.Game.BidTimeout)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.Security.AllowedOrigins)
}

func TestLoadFromEnv_InvalidNumberIgnored(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg := Default()
	assert.Equal(t, defaultPort, cfg.Server.Port)
}
