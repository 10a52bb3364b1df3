package config

// RedisConfig configures the optional Redis store. An empty URL keeps every
// store in memory.
type RedisConfig struct {
	URL      string `env:"REDIS_URL"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}
