package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ndmitrieva/lob-engine/internal/domain"
)

type Config struct {
	Server  ServerConfig
	Book    BookConfig
	Cache   CacheConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Addr string
}

type BookConfig struct {
	Symbol       string
	DecimalScale int32
	MaxMagnitude int64
	Demo         bool
}

type CacheConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type LoggingConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from LOB_-prefixed environment variables, e.g.
// LOB_BOOK_DECIMAL_SCALE=4 or LOB_SERVER_ADDR=:9090.
func Load() Config {
	v := viper.New()
	v.SetEnvPrefix("LOB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("book.symbol", "BTC-USD")
	v.SetDefault("book.decimal_scale", domain.DefaultScale)
	v.SetDefault("book.max_magnitude", int64(domain.DefaultMaxMagnitude))
	v.SetDefault("book.demo", false)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)

	return Config{
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Book: BookConfig{
			Symbol:       v.GetString("book.symbol"),
			DecimalScale: v.GetInt32("book.decimal_scale"),
			MaxMagnitude: v.GetInt64("book.max_magnitude"),
			Demo:         v.GetBool("book.demo"),
		},
		Cache: CacheConfig{
			Enabled:       v.GetBool("cache.enabled"),
			RedisAddr:     v.GetString("cache.redis_addr"),
			RedisPassword: v.GetString("cache.redis_password"),
			RedisDB:       v.GetInt("cache.redis_db"),
			TTL:           v.GetDuration("cache.ttl"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Pretty: v.GetBool("logging.pretty"),
		},
	}
}
