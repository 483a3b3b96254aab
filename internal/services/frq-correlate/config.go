package frqcorrelate

// Config holds correlator configuration
type Config struct {
	// MaxConcurrency bounds in-flight lookups so a large invoice batch
	// cannot overwhelm the relational store.
	MaxConcurrency int
}

// LoadConfig returns the default correlator configuration
func LoadConfig() *Config {
	return &Config{
		MaxConcurrency: 4,
	}
}
