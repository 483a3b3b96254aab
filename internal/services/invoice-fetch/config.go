package invoicefetch

import "time"

// Config holds invoice-fetch service configuration
type Config struct {
	Timeout time.Duration
}

// LoadConfig returns the default invoice-fetch configuration
func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
