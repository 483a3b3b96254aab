// internal/services/frq-lookup/config.go
package frqlookup

import "time"

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration // 0 disables the cache
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		CacheTTL: 5 * time.Minute,
	}
}
